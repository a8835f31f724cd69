// Package orchestrate wraps Groth16 setup/prove/verify around the three
// circuit families. The call sequence is the standard gnark one: compile
// a circuit into an R1CS, run setup over it, build a witness from an
// assigned circuit, split off its public projection, then prove and
// verify. File I/O for keys and proofs is a collaborator concern, so
// this package only ever takes and returns in-memory artifacts.
package orchestrate

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/shroudproof/shroud/circuits/continuity"
	"github.com/shroudproof/shroud/circuits/membership"
	"github.com/shroudproof/shroud/circuits/unlinkability"
)

// compile is kept private: every statement family needs exactly this
// one call, and a caller compiling a circuit directly risks a shape
// that doesn't match the keys it's later proved or verified against.
func compile(circuit frontend.Circuit) (constraint.ConstraintSystem, error) {
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, circuit)
	if err != nil {
		return nil, fmt.Errorf("%w: compile: %v", ErrSynthesis, err)
	}
	return ccs, nil
}

// groth16Setup runs Groth16's parameter generator over an already
// compiled constraint system. This is a single-party trusted setup:
// suitable for tests and local development, never for production keys,
// which must come from a ceremony.
func groth16Setup(ccs constraint.ConstraintSystem) (groth16.ProvingKey, groth16.VerifyingKey, error) {
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: groth16 setup: %v", ErrSynthesis, err)
	}
	return pk, vk, nil
}

func prove(ccs constraint.ConstraintSystem, pk groth16.ProvingKey, assignment frontend.Circuit) (groth16.Proof, error) {
	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("%w: build witness: %v", ErrSynthesis, err)
	}
	proof, err := groth16.Prove(ccs, pk, witness)
	if err != nil {
		return nil, fmt.Errorf("%w: prove: %v", ErrSynthesis, err)
	}
	return proof, nil
}

func verify(vk groth16.VerifyingKey, publicAssignment frontend.Circuit, proof groth16.Proof) error {
	witness, err := frontend.NewWitness(publicAssignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("%w: build public witness: %v", ErrEncoding, err)
	}
	if err := groth16.Verify(proof, vk, witness); err != nil {
		return fmt.Errorf("%w: %v", ErrVerification, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Membership
// ---------------------------------------------------------------------------

// MembershipKeys binds a compiled constraint system and key pair to one
// (version, depth) shape. Keys from one depth must never be used to
// prove or verify a different depth's instances; callers that persist
// keys should carry the (statement, version, depth) tuple in the
// container name, since the engine itself has no notion of key storage.
type MembershipKeys struct {
	CCS   constraint.ConstraintSystem
	PK    groth16.ProvingKey
	VK    groth16.VerifyingKey
	Depth int
	V2    bool
}

// SetupMembership compiles a zero-filled dummy circuit of the given
// depth/version and runs Groth16 setup over it. depth must be > 0.
func SetupMembership(depth int, v2 bool) (*MembershipKeys, error) {
	dummy, err := membership.New(depth, v2)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	ccs, err := compile(dummy)
	if err != nil {
		return nil, err
	}
	pk, vk, err := groth16Setup(ccs)
	if err != nil {
		return nil, err
	}
	return &MembershipKeys{CCS: ccs, PK: pk, VK: vk, Depth: depth, V2: v2}, nil
}

// ProveMembership runs the prover over an assigned membership circuit.
// The circuit's depth and version must match keys exactly.
func ProveMembership(keys *MembershipKeys, circuit *membership.Circuit) (groth16.Proof, error) {
	if len(circuit.Path) != keys.Depth || circuit.V2 != keys.V2 {
		return nil, fmt.Errorf("%w: circuit shape (depth=%d,v2=%v) does not match keys (depth=%d,v2=%v)",
			ErrSynthesis, len(circuit.Path), circuit.V2, keys.Depth, keys.V2)
	}
	return prove(keys.CCS, keys.PK, circuit)
}

// VerifyMembershipProof checks proof against the declared public inputs
// under keys.VK. domainSep/ctxHash are ignored for v0/v1 keys (that
// circuit shape has no such public wires).
func VerifyMembershipProof(keys *MembershipKeys, root, commitment, domainSep, ctxHash frontend.Variable, proof groth16.Proof) error {
	pub := &membership.Circuit{
		Root:       root,
		Commitment: commitment,
		V2:         keys.V2,
	}
	if keys.V2 {
		pub.DomainSep = []frontend.Variable{domainSep}
		pub.CtxHash = []frontend.Variable{ctxHash}
	}
	return verify(keys.VK, pub, proof)
}

// ---------------------------------------------------------------------------
// Continuity
// ---------------------------------------------------------------------------

// ContinuityKeys binds a compiled constraint system and key pair to one
// continuity version (v1 or v2); continuity has no depth parameter.
type ContinuityKeys struct {
	CCS constraint.ConstraintSystem
	PK  groth16.ProvingKey
	VK  groth16.VerifyingKey
	V2  bool
}

// SetupContinuity compiles a zero-filled dummy circuit of the given
// version and runs Groth16 setup over it.
func SetupContinuity(v2 bool) (*ContinuityKeys, error) {
	dummy := continuity.New(v2)
	ccs, err := compile(dummy)
	if err != nil {
		return nil, err
	}
	pk, vk, err := groth16Setup(ccs)
	if err != nil {
		return nil, err
	}
	return &ContinuityKeys{CCS: ccs, PK: pk, VK: vk, V2: v2}, nil
}

// ProveContinuity runs the prover over an assigned continuity circuit.
func ProveContinuity(keys *ContinuityKeys, circuit *continuity.Circuit) (groth16.Proof, error) {
	if circuit.V2 != keys.V2 {
		return nil, fmt.Errorf("%w: circuit version v2=%v does not match keys v2=%v", ErrSynthesis, circuit.V2, keys.V2)
	}
	return prove(keys.CCS, keys.PK, circuit)
}

// VerifyContinuityProof checks proof against the declared public inputs.
// ctxHash is ignored for v1 keys (that circuit shape has no such wire).
func VerifyContinuityProof(keys *ContinuityKeys, c1Hash, c2Hash, domainSep, ctxHash frontend.Variable, proof groth16.Proof) error {
	pub := &continuity.Circuit{
		C1Hash:    c1Hash,
		C2Hash:    c2Hash,
		DomainSep: domainSep,
		V2:        keys.V2,
	}
	if keys.V2 {
		pub.CtxHash = []frontend.Variable{ctxHash}
	}
	return verify(keys.VK, pub, proof)
}

// ---------------------------------------------------------------------------
// Unlinkability
// ---------------------------------------------------------------------------

// UnlinkabilityKeys binds a compiled constraint system and key pair to
// the single unlinkability shape (v2 only; there is no v1).
type UnlinkabilityKeys struct {
	CCS constraint.ConstraintSystem
	PK  groth16.ProvingKey
	VK  groth16.VerifyingKey
}

// SetupUnlinkability compiles the (version-less) dummy circuit and runs
// Groth16 setup over it.
func SetupUnlinkability() (*UnlinkabilityKeys, error) {
	ccs, err := compile(&unlinkability.Circuit{})
	if err != nil {
		return nil, err
	}
	pk, vk, err := groth16Setup(ccs)
	if err != nil {
		return nil, err
	}
	return &UnlinkabilityKeys{CCS: ccs, PK: pk, VK: vk}, nil
}

// ProveUnlinkability runs the prover over an assigned unlinkability circuit.
func ProveUnlinkability(keys *UnlinkabilityKeys, circuit *unlinkability.Circuit) (groth16.Proof, error) {
	return prove(keys.CCS, keys.PK, circuit)
}

// VerifyUnlinkabilityProof checks proof against the declared public inputs.
func VerifyUnlinkabilityProof(keys *UnlinkabilityKeys, tag, domainSep, ctxHash frontend.Variable, proof groth16.Proof) error {
	pub := &unlinkability.Circuit{Tag: tag, DomainSep: domainSep, CtxHash: ctxHash}
	return verify(keys.VK, pub, proof)
}
