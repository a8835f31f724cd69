// Package continuity implements the Continuity statement: two public
// commitments, produced from the same secret identity with different
// blindings (and, for v2, the same context), are shown to share that
// identity without revealing it.
package continuity

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/frontend"

	"github.com/shroudproof/shroud/pkg/domainsep"
	"github.com/shroudproof/shroud/pkg/poseidon"
	"github.com/shroudproof/shroud/pkg/zkerr"
)

// Circuit proves c1 and c2 both commit to the same ID. V2 selects the
// 4-input, context-bound commitment; v1 uses the plain 3-input one.
type Circuit struct {
	C1Hash    frontend.Variable `gnark:",public"`
	C2Hash    frontend.Variable `gnark:",public"`
	DomainSep frontend.Variable `gnark:",public"`

	// CtxHash exists only in the v2 shape (length 1, empty for v1), so
	// the public-input vector is [c1_hash, c2_hash, domain_sep] for v1
	// and [c1_hash, c2_hash, domain_sep, ctx_hash] for v2.
	CtxHash []frontend.Variable `gnark:",public"`

	ID frontend.Variable
	R1 frontend.Variable
	R2 frontend.Variable

	V2 bool
}

// New allocates an unassigned circuit of the given version, ready for
// compilation or as the setup-time dummy.
func New(v2 bool) *Circuit {
	c := &Circuit{V2: v2}
	if v2 {
		c.CtxHash = make([]frontend.Variable, 1)
	}
	return c
}

// Define implements frontend.Circuit.
func (c *Circuit) Define(api frontend.API) error {
	var c1, c2 frontend.Variable

	if c.V2 {
		if len(c.CtxHash) != 1 {
			return fmt.Errorf("continuity: %w: v2 shape requires a ctx_hash public input", zkerr.Synthesis)
		}
		c1 = poseidon.HashVar(api, frontend.Variable(1), c.ID, c.R1, c.CtxHash[0])
		c2 = poseidon.HashVar(api, frontend.Variable(1), c.ID, c.R2, c.CtxHash[0])
		api.AssertIsEqual(c.DomainSep, domainsep.MustField(domainsep.ContinuityV2))
	} else {
		if len(c.CtxHash) != 0 {
			return fmt.Errorf("continuity: %w: v1 shape carries no ctx_hash", zkerr.Synthesis)
		}
		c1 = poseidon.HashVar(api, frontend.Variable(1), c.ID, c.R1)
		c2 = poseidon.HashVar(api, frontend.Variable(1), c.ID, c.R2)
		api.AssertIsEqual(c.DomainSep, domainsep.MustField(domainsep.ContinuityV1))
	}

	api.AssertIsEqual(c.C1Hash, c1)
	api.AssertIsEqual(c.C2Hash, c2)
	return nil
}

// Assign builds a fully assigned witness circuit from native values.
// domainSep must already be the expected constant for the chosen
// version; Define asserts this, it does not select it. ctxHash is a
// free public input for v2 (Define binds it into both commitments but
// compares it to no constant) and is ignored (may be nil) for v1.
func Assign(v2 bool, c1Hash, c2Hash, domainSep, ctxHash, id, r1, r2 *big.Int) *Circuit {
	c := &Circuit{
		C1Hash:    c1Hash,
		C2Hash:    c2Hash,
		DomainSep: domainSep,
		ID:        id,
		R1:        r1,
		R2:        r2,
		V2:        v2,
	}
	if v2 {
		c.CtxHash = []frontend.Variable{ctxHash}
	}
	return c
}
