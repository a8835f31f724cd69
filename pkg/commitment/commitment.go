// Package commitment implements the small set of domain-tagged Poseidon
// invocations shared by every circuit: the identity commitment, the
// Merkle leaf/node hashes, and the unlinkability tag. Each has a single
// named native function here; circuits call poseidon.HashVar directly
// with the identical literal tag and argument order, so there is exactly
// one definition of what each hash means and never a second name for the
// same computation.
package commitment

import (
	"math/big"

	"github.com/shroudproof/shroud/pkg/poseidon"
)

// Fixed leading domain tags used inside the sponge, distinct from the
// 32-byte ASCII domain separators in pkg/domainsep (those bind a whole
// statement; these distinguish hash *roles* within a single statement).
const (
	tagCommitment = 1
	tagLeaf       = 2
	tagNode       = 3
)

// Commit computes the identity commitment C = H(1, id, r).
func Commit(id, r *big.Int) *big.Int {
	return poseidon.Hash(big.NewInt(tagCommitment), id, r)
}

// CommitV2 computes the 4-input, context-bound commitment used by
// continuity v2: C = H(1, id, r, ctx).
func CommitV2(id, r, ctx *big.Int) *big.Int {
	return poseidon.Hash(big.NewInt(tagCommitment), id, r, ctx)
}

// LeafV0V1 computes the membership v0/v1 Merkle leaf: L = H(2, c, 0).
// Both schema versions call this one definition.
func LeafV0V1(c *big.Int) *big.Int {
	return poseidon.Hash(big.NewInt(tagLeaf), c, big.NewInt(0))
}

// LeafV2 computes the membership v2 Merkle leaf, binding the domain
// separator and context hash directly into the leaf: L = H(domain_sep, ctx, c).
func LeafV2(domainSep, ctx, c *big.Int) *big.Int {
	return poseidon.Hash(domainSep, ctx, c)
}

// Node computes a Merkle internal node: N = H(3, left, right).
func Node(left, right *big.Int) *big.Int {
	return poseidon.Hash(big.NewInt(tagNode), left, right)
}

// Tag computes the unlinkability tag: T = H(domain_sep, ctx, c). This is
// the same three-argument shape as LeafV2; the two are kept as distinct
// named functions because they serve different roles (a tree leaf vs. a
// publishable recognition tag), even though the underlying hash is the
// same poseidon.Hash(domain_sep, ctx, c) call.
func Tag(domainSep, ctx, c *big.Int) *big.Int {
	return poseidon.Hash(domainSep, ctx, c)
}
