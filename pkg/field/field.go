// Package field implements the canonical 32-byte big-endian encoding of
// BN254 scalar field elements shared by every statement family: native
// hashing, circuit constants, and the wire format all go through this
// package so there is exactly one notion of "a field element" in the repo.
package field

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Size is the canonical encoded width of a field element, in bytes.
const Size = 32

// Sentinel error kinds, matched with errors.Is by callers.
var (
	ErrEmptyFieldBytes     = errors.New("field: empty input")
	ErrOversizedFieldBytes = errors.New("field: input exceeds 32 bytes")
)

// Decode converts bytes to a field element via big-endian modular
// reduction. label is used only to annotate the error message so callers
// can tell which field failed to decode.
//
// Any length from 1 to 32 bytes is accepted: shorter inputs are treated
// as left-zero-extended canonical integers, a deliberate convenience for
// small constants. A value at or above the field modulus is silently
// reduced rather than rejected, since the field is public and no secret
// depends on rejecting out-of-range magnitudes. Only length is validated:
// zero-length and >32-byte input are errors.
func Decode(label string, b []byte) (*big.Int, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("field: decode %s: %w", label, ErrEmptyFieldBytes)
	}
	if len(b) > Size {
		return nil, fmt.Errorf("field: decode %s: %w", label, ErrOversizedFieldBytes)
	}

	var e fr.Element
	e.SetBytes(b)
	out := new(big.Int)
	e.BigInt(out)
	return out, nil
}

// Encode canonicalizes v into its 32-byte big-endian representation,
// left-padded with zeros. v is reduced modulo the field modulus first.
func Encode(v *big.Int) [Size]byte {
	var e fr.Element
	e.SetBigInt(v)
	return e.Bytes()
}

// Canonical reduces v modulo the field modulus and returns the result,
// without touching its encoding. Used to normalize witness scalars built
// from small test integers (e.g. big.NewInt(5)) before comparing them to
// values that round-tripped through Encode/Decode.
func Canonical(v *big.Int) *big.Int {
	var e fr.Element
	e.SetBigInt(v)
	out := new(big.Int)
	e.BigInt(out)
	return out
}

// Equal reports whether a and b denote the same field element once both
// are reduced modulo the field modulus.
func Equal(a, b *big.Int) bool {
	return Canonical(a).Cmp(Canonical(b)) == 0
}
