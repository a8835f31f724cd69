package membership_test

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"

	"github.com/shroudproof/shroud/circuits/membership"
	"github.com/shroudproof/shroud/pkg/commitment"
	"github.com/shroudproof/shroud/pkg/domainsep"
)

// TestMembershipV1Depth2 proves membership in a depth-2 v1 tree:
// id=5, blinding=6, a two-level path with is_left false then true.
func TestMembershipV1Depth2(t *testing.T) {
	id, blinding := big.NewInt(5), big.NewInt(6)
	c := commitment.Commit(id, blinding)
	leaf := commitment.LeafV0V1(c)

	sib1 := commitment.Node(c, big.NewInt(7))
	inner := commitment.Node(leaf, sib1) // is_left=false: sibling on the right
	sib2 := commitment.Node(c, big.NewInt(8))
	root := commitment.Node(sib2, inner) // is_left=true: sibling on the left

	dummy, err := membership.New(2, false)
	if err != nil {
		t.Fatal(err)
	}

	good, err := membership.Assign(false, root, c, nil, nil, id, blinding,
		[]*big.Int{sib1, sib2}, []bool{false, true})
	if err != nil {
		t.Fatal(err)
	}

	assert := test.NewAssert(t)
	assert.ProverSucceeded(dummy, good, test.WithCurves(ecc.BN254), test.WithBackends(backend.GROTH16))

	t.Run("flipped_is_left_fails", func(t *testing.T) {
		bad, err := membership.Assign(false, root, c, nil, nil, id, blinding,
			[]*big.Int{sib1, sib2}, []bool{true, true})
		if err != nil {
			t.Fatal(err)
		}
		assert.ProverFailed(dummy, bad, test.WithCurves(ecc.BN254), test.WithBackends(backend.GROTH16))
	})
}

// TestMembershipV2Depth1 proves context-bound membership at depth 1:
// id=7, blinding=8, ctx_hash=9.
func TestMembershipV2Depth1(t *testing.T) {
	id, blinding, ctxHash := big.NewInt(7), big.NewInt(8), big.NewInt(9)
	domSep := domainsep.MustField(domainsep.MembershipV2)

	c := commitment.Commit(id, blinding)
	leaf := commitment.LeafV2(domSep, ctxHash, c)
	sib := commitment.Node(c, big.NewInt(11))
	root := commitment.Node(leaf, sib) // is_left=false

	dummy, err := membership.New(1, true)
	if err != nil {
		t.Fatal(err)
	}

	good, err := membership.Assign(true, root, c, domSep, ctxHash, id, blinding,
		[]*big.Int{sib}, []bool{false})
	if err != nil {
		t.Fatal(err)
	}

	assert := test.NewAssert(t)
	assert.ProverSucceeded(dummy, good, test.WithCurves(ecc.BN254), test.WithBackends(backend.GROTH16))

	t.Run("tampered_ctx_hash_fails", func(t *testing.T) {
		bad, err := membership.Assign(true, root, c, domSep, big.NewInt(99), id, blinding,
			[]*big.Int{sib}, []bool{false})
		if err != nil {
			t.Fatal(err)
		}
		assert.ProverFailed(dummy, bad, test.WithCurves(ecc.BN254), test.WithBackends(backend.GROTH16))
	})
}

// TestNewRejectsZeroDepth checks that a depth-0 circuit cannot be
// constructed.
func TestNewRejectsZeroDepth(t *testing.T) {
	if _, err := membership.New(0, false); err == nil {
		t.Fatal("expected an error constructing a depth-0 circuit")
	}
}

// TestAssignRejectsPathLengthMismatch checks that a path whose length
// disagrees with the direction count is rejected at witness assembly.
func TestAssignRejectsPathLengthMismatch(t *testing.T) {
	id, blinding := big.NewInt(1), big.NewInt(2)
	c := commitment.Commit(id, blinding)
	_, err := membership.Assign(false, big.NewInt(0), c, nil, nil, id, blinding,
		[]*big.Int{big.NewInt(1), big.NewInt(2)}, []bool{false})
	if err == nil {
		t.Fatal("expected an error for mismatched path/direction lengths")
	}
}

var _ frontend.Circuit = (*membership.Circuit)(nil)
