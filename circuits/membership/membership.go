// Package membership implements the Membership statement's circuit
// family (v0/v1 and v2): a select-by-direction-bit Merkle path
// recomputation proving that a secret identity commitment sits in a
// fixed-depth tree under a public root.
package membership

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/frontend"

	"github.com/shroudproof/shroud/pkg/domainsep"
	"github.com/shroudproof/shroud/pkg/poseidon"
)

// Circuit proves that a secret (id, blinding) commits to a leaf present
// in a Merkle tree of the fixed depth it was compiled for. V2 is true
// for the context-bound variant (adds DomainSep/CtxHash public inputs
// and folds them into the leaf hash); false selects v0/v1, whose leaf
// hash is H(2, commitment, 0).
//
// Depth is fixed at circuit-construction time (len(Path)/len(IsLeft)),
// not a runtime witness; a proof built with depth-d keys is never
// interchangeable with depth-d' keys.
type Circuit struct {
	Root       frontend.Variable `gnark:",public"`
	Commitment frontend.Variable `gnark:",public"`

	// DomainSep and CtxHash exist only in the v2 shape (each length 1);
	// both are empty for v0/v1, so the public-input vector is exactly
	// [root, commitment] for v0/v1 and [root, commitment, domain_sep,
	// ctx_hash] for v2, the declared order the verifier must reproduce.
	DomainSep []frontend.Variable `gnark:",public"`
	CtxHash   []frontend.Variable `gnark:",public"`

	ID       frontend.Variable
	Blinding frontend.Variable
	Path     []frontend.Variable // sibling per level
	IsLeft   []frontend.Variable // boolean per level

	V2 bool
}

// New allocates an unassigned circuit of the given depth, ready for
// compilation or as the setup-time dummy. depth must be > 0: a 0-depth
// tree would let a prover skip the Merkle structure entirely.
func New(depth int, v2 bool) (*Circuit, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("membership: %w: depth must be > 0", ErrUnsatisfiable)
	}
	c := &Circuit{
		Path:   make([]frontend.Variable, depth),
		IsLeft: make([]frontend.Variable, depth),
		V2:     v2,
	}
	if v2 {
		c.DomainSep = make([]frontend.Variable, 1)
		c.CtxHash = make([]frontend.Variable, 1)
	}
	return c, nil
}

// Define implements frontend.Circuit.
func (c *Circuit) Define(api frontend.API) error {
	if len(c.Path) == 0 {
		return fmt.Errorf("membership: %w: depth must be > 0", ErrUnsatisfiable)
	}
	if len(c.Path) != len(c.IsLeft) {
		return fmt.Errorf("membership: %w: path length %d != direction length %d", ErrUnsatisfiable, len(c.Path), len(c.IsLeft))
	}
	if c.V2 {
		if len(c.DomainSep) != 1 || len(c.CtxHash) != 1 {
			return fmt.Errorf("membership: %w: v2 shape requires domain_sep and ctx_hash public inputs", ErrUnsatisfiable)
		}
	} else if len(c.DomainSep) != 0 || len(c.CtxHash) != 0 {
		return fmt.Errorf("membership: %w: v0/v1 shape carries no domain_sep or ctx_hash", ErrUnsatisfiable)
	}

	for _, b := range c.IsLeft {
		api.AssertIsBoolean(b)
	}

	commitment := poseidon.HashVar(api, frontend.Variable(1), c.ID, c.Blinding)
	api.AssertIsEqual(c.Commitment, commitment)

	var current frontend.Variable
	if c.V2 {
		want := domainsep.MustField(domainsep.MembershipV2)
		api.AssertIsEqual(c.DomainSep[0], want)
		current = poseidon.HashVar(api, c.DomainSep[0], c.CtxHash[0], c.Commitment)
	} else {
		current = poseidon.HashVar(api, frontend.Variable(2), c.Commitment, frontend.Variable(0))
	}

	for i := range c.Path {
		sibling := c.Path[i]
		isLeft := c.IsLeft[i]
		left := api.Select(isLeft, sibling, current)
		right := api.Select(isLeft, current, sibling)
		current = poseidon.HashVar(api, frontend.Variable(3), left, right)
	}

	api.AssertIsEqual(current, c.Root)
	return nil
}

// Assign builds a fully assigned witness circuit from native values.
// path and isLeft must each have the exact length the circuit was
// constructed with (New's depth); domainSep and ctxHash are required
// for v2 and ignored (may be nil) for v0/v1.
func Assign(v2 bool, root, commitment, domainSep, ctxHash, id, blinding *big.Int, path []*big.Int, isLeft []bool) (*Circuit, error) {
	if len(path) != len(isLeft) {
		return nil, fmt.Errorf("membership: %w: path length %d != direction length %d", ErrUnsatisfiable, len(path), len(isLeft))
	}
	if len(path) == 0 {
		return nil, fmt.Errorf("membership: %w: depth must be > 0", ErrUnsatisfiable)
	}
	if v2 && (domainSep == nil || ctxHash == nil) {
		return nil, fmt.Errorf("membership: %w: v2 shape requires domain_sep and ctx_hash", ErrUnsatisfiable)
	}

	pathVars := make([]frontend.Variable, len(path))
	leftVars := make([]frontend.Variable, len(isLeft))
	for i, s := range path {
		pathVars[i] = s
	}
	for i, b := range isLeft {
		if b {
			leftVars[i] = 1
		} else {
			leftVars[i] = 0
		}
	}

	c := &Circuit{
		Root:       root,
		Commitment: commitment,
		ID:         id,
		Blinding:   blinding,
		Path:       pathVars,
		IsLeft:     leftVars,
		V2:         v2,
	}
	if v2 {
		c.DomainSep = []frontend.Variable{domainSep}
		c.CtxHash = []frontend.Variable{ctxHash}
	}
	return c, nil
}
