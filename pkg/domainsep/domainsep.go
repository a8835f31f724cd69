// Package domainsep holds the fixed 32-byte ASCII domain separator
// constants shared by the schema layer and every circuit that binds one
// into its public inputs. Each is decoded to a field element by the same
// big-endian modular reduction as any other 32-byte field, so the circuit
// constant and the schema's expected value are always derived identically.
package domainsep

import (
	"math/big"

	"github.com/shroudproof/shroud/pkg/field"
)

// Raw ASCII constants, each exactly 32 bytes (padded with '_').
const (
	MembershipV2    = "SNARK_MEMBERSHIP_V2_____________"
	ContinuityV1    = "CONTINUITY_SNARK_V1_____________"
	ContinuityV2    = "CONTINUITY_SNARK_V2_____________"
	UnlinkabilityV2 = "UNLINKABILITY_SNARK_V2__________"
)

func init() {
	for name, s := range map[string]string{
		"MembershipV2":    MembershipV2,
		"ContinuityV1":    ContinuityV1,
		"ContinuityV2":    ContinuityV2,
		"UnlinkabilityV2": UnlinkabilityV2,
	} {
		if len(s) != field.Size {
			panic("domainsep: " + name + " is not exactly 32 bytes")
		}
	}
}

// Field decodes one of the package constants above into its field element
// form, via the same big-endian modular reduction every other 32-byte
// value in the system uses.
func Field(constant string) (*big.Int, error) {
	return field.Decode("domain_sep", []byte(constant))
}

// MustField is Field, panicking on error. Safe to use with the constants
// declared in this package, which init() already validated are 32 bytes.
func MustField(constant string) *big.Int {
	v, err := Field(constant)
	if err != nil {
		panic(err)
	}
	return v
}
