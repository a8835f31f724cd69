// Package unlinkability implements the Unlinkability statement: a
// public tag is shown to be the deterministic Poseidon hash of a
// secret commitment under a context, letting a verifier recognize
// repeat proofs from the same identity within one context while
// learning nothing about the identity itself. Single-version (v2 only),
// grounded on the same commit-then-hash-then-assert shape as
// circuits/continuity, one hash stage deeper.
package unlinkability

import (
	"math/big"

	"github.com/consensys/gnark/frontend"

	"github.com/shroudproof/shroud/pkg/domainsep"
	"github.com/shroudproof/shroud/pkg/poseidon"
)

// Circuit proves Tag == H(DomainSep, CtxHash, H(1, ID, Blinding)).
type Circuit struct {
	Tag       frontend.Variable `gnark:",public"`
	DomainSep frontend.Variable `gnark:",public"`
	CtxHash   frontend.Variable `gnark:",public"`

	ID       frontend.Variable
	Blinding frontend.Variable
}

// Define implements frontend.Circuit.
func (c *Circuit) Define(api frontend.API) error {
	commitment := poseidon.HashVar(api, frontend.Variable(1), c.ID, c.Blinding)
	tag := poseidon.HashVar(api, c.DomainSep, c.CtxHash, commitment)

	api.AssertIsEqual(c.Tag, tag)
	api.AssertIsEqual(c.DomainSep, domainsep.MustField(domainsep.UnlinkabilityV2))
	return nil
}

// Assign builds a fully assigned witness circuit from native values.
func Assign(tag, domainSep, ctxHash, id, blinding *big.Int) *Circuit {
	return &Circuit{
		Tag:       tag,
		DomainSep: domainSep,
		CtxHash:   ctxHash,
		ID:        id,
		Blinding:  blinding,
	}
}
