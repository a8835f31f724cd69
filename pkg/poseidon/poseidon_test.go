package poseidon_test

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"

	"github.com/shroudproof/shroud/pkg/poseidon"
)

// hashCircuit fixes the input arity at compile time (gnark circuits can't
// take variable-length witnesses), so arity is supplied as a type parameter
// via distinct struct shapes below instead of a single generic circuit.
type hashCircuit1 struct {
	In   [1]frontend.Variable `gnark:",public"`
	Hash frontend.Variable    `gnark:",public"`
}

func (c *hashCircuit1) Define(api frontend.API) error {
	h := poseidon.HashVar(api, c.In[0])
	api.AssertIsEqual(h, c.Hash)
	return nil
}

type hashCircuit2 struct {
	In   [2]frontend.Variable `gnark:",public"`
	Hash frontend.Variable    `gnark:",public"`
}

func (c *hashCircuit2) Define(api frontend.API) error {
	h := poseidon.HashVar(api, c.In[0], c.In[1])
	api.AssertIsEqual(h, c.Hash)
	return nil
}

type hashCircuit3 struct {
	In   [3]frontend.Variable `gnark:",public"`
	Hash frontend.Variable    `gnark:",public"`
}

func (c *hashCircuit3) Define(api frontend.API) error {
	h := poseidon.HashVar(api, c.In[0], c.In[1], c.In[2])
	api.AssertIsEqual(h, c.Hash)
	return nil
}

// hashCircuit4 exercises the rate boundary: Rate=3, so a 4-input absorb
// forces a permutation mid-absorption before the final squeeze.
type hashCircuit4 struct {
	In   [4]frontend.Variable `gnark:",public"`
	Hash frontend.Variable    `gnark:",public"`
}

func (c *hashCircuit4) Define(api frontend.API) error {
	h := poseidon.HashVar(api, c.In[0], c.In[1], c.In[2], c.In[3])
	api.AssertIsEqual(h, c.Hash)
	return nil
}

// TestNativeCircuitParity checks that poseidon.Hash (native) and
// poseidon.HashVar (in-circuit) agree for arities 1 through 4, including
// the Rate=3 boundary at arity 4. Any drift here silently breaks every
// statement's soundness.
func TestNativeCircuitParity(t *testing.T) {
	big1, big2, big3, big4 := big.NewInt(11), big.NewInt(22), big.NewInt(33), big.NewInt(44)

	t.Run("arity1", func(t *testing.T) {
		h := poseidon.Hash(big1)
		assert := test.NewAssert(t)
		assert.ProverSucceeded(&hashCircuit1{}, &hashCircuit1{
			In:   [1]frontend.Variable{big1},
			Hash: h,
		}, test.WithCurves(ecc.BN254), test.WithBackends(backend.GROTH16))
	})

	t.Run("arity2", func(t *testing.T) {
		h := poseidon.Hash(big1, big2)
		assert := test.NewAssert(t)
		assert.ProverSucceeded(&hashCircuit2{}, &hashCircuit2{
			In:   [2]frontend.Variable{big1, big2},
			Hash: h,
		}, test.WithCurves(ecc.BN254), test.WithBackends(backend.GROTH16))
	})

	t.Run("arity3_exact_rate", func(t *testing.T) {
		h := poseidon.Hash(big1, big2, big3)
		assert := test.NewAssert(t)
		assert.ProverSucceeded(&hashCircuit3{}, &hashCircuit3{
			In:   [3]frontend.Variable{big1, big2, big3},
			Hash: h,
		}, test.WithCurves(ecc.BN254), test.WithBackends(backend.GROTH16))
	})

	t.Run("arity4_crosses_rate_boundary", func(t *testing.T) {
		h := poseidon.Hash(big1, big2, big3, big4)
		assert := test.NewAssert(t)
		assert.ProverSucceeded(&hashCircuit4{}, &hashCircuit4{
			In:   [4]frontend.Variable{big1, big2, big3, big4},
			Hash: h,
		}, test.WithCurves(ecc.BN254), test.WithBackends(backend.GROTH16))
	})
}

// TestHashDeterministic checks that native hashing is a pure function of
// its inputs and that distinct inputs produce distinct outputs.
func TestHashDeterministic(t *testing.T) {
	a := poseidon.Hash(big.NewInt(1), big.NewInt(2), big.NewInt(3))
	b := poseidon.Hash(big.NewInt(1), big.NewInt(2), big.NewInt(3))
	if a.Cmp(b) != 0 {
		t.Fatalf("Hash is not deterministic: %s != %s", a, b)
	}

	c := poseidon.Hash(big.NewInt(1), big.NewInt(2), big.NewInt(4))
	if a.Cmp(c) == 0 {
		t.Fatalf("distinct inputs produced the same hash")
	}
}

// TestHashEmptyBatch exercises arity 0 natively: absorbing nothing still
// runs the mandatory final permutation and squeezes a well-defined value.
func TestHashEmptyBatch(t *testing.T) {
	h1 := poseidon.Hash()
	h2 := poseidon.Hash()
	if h1.Cmp(h2) != 0 {
		t.Fatalf("empty-batch hash is not deterministic")
	}
}

// TestParamsMemoized checks that Load() returns identically shaped
// parameters across calls, with every ARK entry equal (MDS entries are
// compared by table size only).
func TestParamsMemoized(t *testing.T) {
	p1 := poseidon.Load()
	p2 := poseidon.Load()
	if len(p1.ARK) != len(p2.ARK) || len(p1.MDS) != len(p2.MDS) {
		t.Fatal("Load() returned differently shaped parameters across calls")
	}
	for r := range p1.ARK {
		for i := range p1.ARK[r] {
			if p1.ARK[r][i].Cmp(p2.ARK[r][i]) != 0 {
				t.Fatalf("ARK[%d][%d] differs across Load() calls", r, i)
			}
		}
	}
}
