package orchestrate_test

import (
	"math/big"
	"testing"

	"github.com/shroudproof/shroud/circuits/continuity"
	"github.com/shroudproof/shroud/circuits/membership"
	"github.com/shroudproof/shroud/circuits/unlinkability"
	"github.com/shroudproof/shroud/pkg/commitment"
	"github.com/shroudproof/shroud/pkg/domainsep"
	"github.com/shroudproof/shroud/pkg/orchestrate"
)

// TestMembershipEndToEnd runs a full Groth16 setup/prove/verify cycle
// for a depth-2 v1 membership (id=5, blinding=6) and checks that a
// tampered root fails verification.
func TestMembershipEndToEnd(t *testing.T) {
	id, blinding := big.NewInt(5), big.NewInt(6)
	c := commitment.Commit(id, blinding)
	leaf := commitment.LeafV0V1(c)
	sib1 := commitment.Node(c, big.NewInt(7))
	inner := commitment.Node(leaf, sib1)
	sib2 := commitment.Node(c, big.NewInt(8))
	root := commitment.Node(sib2, inner)

	keys, err := orchestrate.SetupMembership(2, false)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	circuit, err := membership.Assign(false, root, c, nil, nil, id, blinding,
		[]*big.Int{sib1, sib2}, []bool{false, true})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	proof, err := orchestrate.ProveMembership(keys, circuit)
	if err != nil {
		t.Fatalf("prove: %v", err)
	}

	if err := orchestrate.VerifyMembershipProof(keys, root, c, nil, nil, proof); err != nil {
		t.Fatalf("verify: %v", err)
	}

	t.Run("tampered_root_fails", func(t *testing.T) {
		if err := orchestrate.VerifyMembershipProof(keys, big.NewInt(999), c, nil, nil, proof); err == nil {
			t.Fatal("expected verification to fail against a tampered root")
		}
	})
}

// TestMembershipCrossKeyRejection checks that a proof made under
// depth-2 keys does not verify under depth-3 keys, and vice versa.
func TestMembershipCrossKeyRejection(t *testing.T) {
	id, blinding := big.NewInt(1), big.NewInt(2)
	c := commitment.Commit(id, blinding)
	leaf := commitment.LeafV0V1(c)

	keys2, err := orchestrate.SetupMembership(2, false)
	if err != nil {
		t.Fatal(err)
	}
	sib1, sib2 := big.NewInt(10), big.NewInt(20)
	inner := commitment.Node(leaf, sib1)
	root2 := commitment.Node(inner, sib2)
	circuit2, err := membership.Assign(false, root2, c, nil, nil, id, blinding,
		[]*big.Int{sib1, sib2}, []bool{false, false})
	if err != nil {
		t.Fatal(err)
	}
	proof2, err := orchestrate.ProveMembership(keys2, circuit2)
	if err != nil {
		t.Fatal(err)
	}

	keys3, err := orchestrate.SetupMembership(3, false)
	if err != nil {
		t.Fatal(err)
	}
	sib3 := big.NewInt(30)
	root3 := commitment.Node(root2, sib3)
	circuit3, err := membership.Assign(false, root3, c, nil, nil, id, blinding,
		[]*big.Int{sib1, sib2, sib3}, []bool{false, false, false})
	if err != nil {
		t.Fatal(err)
	}
	proof3, err := orchestrate.ProveMembership(keys3, circuit3)
	if err != nil {
		t.Fatal(err)
	}

	if err := orchestrate.VerifyMembershipProof(keys3, root2, c, nil, nil, proof2); err == nil {
		t.Fatal("a depth-2 proof must not verify under depth-3 keys")
	}
	if err := orchestrate.VerifyMembershipProof(keys2, root3, c, nil, nil, proof3); err == nil {
		t.Fatal("a depth-3 proof must not verify under depth-2 keys")
	}

	if _, err := orchestrate.ProveMembership(keys2, circuit3); err == nil {
		t.Fatal("proving a depth-3 circuit with depth-2 keys must be rejected before calling into groth16")
	}
}

// TestContinuityEndToEnd exercises the v2 continuity family end to end.
func TestContinuityEndToEnd(t *testing.T) {
	id, r1, r2, ctxHash := big.NewInt(1), big.NewInt(2), big.NewInt(3), big.NewInt(42)
	domSep := domainsep.MustField(domainsep.ContinuityV2)
	c1 := commitment.CommitV2(id, r1, ctxHash)
	c2 := commitment.CommitV2(id, r2, ctxHash)

	keys, err := orchestrate.SetupContinuity(true)
	if err != nil {
		t.Fatal(err)
	}
	circuit := continuity.Assign(true, c1, c2, domSep, ctxHash, id, r1, r2)

	proof, err := orchestrate.ProveContinuity(keys, circuit)
	if err != nil {
		t.Fatal(err)
	}
	if err := orchestrate.VerifyContinuityProof(keys, c1, c2, domSep, ctxHash, proof); err != nil {
		t.Fatalf("verify: %v", err)
	}

	t.Run("cross_statement_rejection", func(t *testing.T) {
		uKeys, err := orchestrate.SetupUnlinkability()
		if err != nil {
			t.Fatal(err)
		}
		if err := orchestrate.VerifyUnlinkabilityProof(uKeys, c1, domSep, ctxHash, proof); err == nil {
			t.Fatal("a continuity proof must not verify under an unlinkability verifying key")
		}
	})
}

// TestUnlinkabilityEndToEnd exercises the unlinkability family end to end.
func TestUnlinkabilityEndToEnd(t *testing.T) {
	id, blinding, ctxHash := big.NewInt(2), big.NewInt(3), big.NewInt(77)
	domSep := domainsep.MustField(domainsep.UnlinkabilityV2)
	c := commitment.Commit(id, blinding)
	tag := commitment.Tag(domSep, ctxHash, c)

	keys, err := orchestrate.SetupUnlinkability()
	if err != nil {
		t.Fatal(err)
	}
	circuit := unlinkability.Assign(tag, domSep, ctxHash, id, blinding)

	proof, err := orchestrate.ProveUnlinkability(keys, circuit)
	if err != nil {
		t.Fatal(err)
	}
	if err := orchestrate.VerifyUnlinkabilityProof(keys, tag, domSep, ctxHash, proof); err != nil {
		t.Fatalf("verify: %v", err)
	}

	t.Run("wrong_tag_fails", func(t *testing.T) {
		if err := orchestrate.VerifyUnlinkabilityProof(keys, big.NewInt(0), domSep, ctxHash, proof); err == nil {
			t.Fatal("expected verification to fail against a wrong tag")
		}
	})
}
