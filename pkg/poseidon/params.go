package poseidon

import (
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Fixed shape of the sponge used by every circuit in this repo: rate 3,
// capacity 1 (state width T = Rate + Capacity = 4), quintic S-box, 8 full
// rounds, 56 partial rounds. Changing any of these is a breaking change of
// every statement's arithmetization.
const (
	Rate          = 3
	Capacity      = 1
	T             = Rate + Capacity
	Alpha         = 5
	FullRounds    = 8
	PartialRounds = 56
)

// nRoundsPC tabulates the partial-round count by state width T, as given
// in the Poseidon paper (eprint 2019/458, tables 2 and 8) for widths 2..17.
// T=4 (our shape) gives 56, matching PartialRounds above.
var nRoundsPC = []int{56, 57, 56, 60, 60, 63, 64, 63, 60, 66, 60, 65, 70, 60, 64, 68}

func init() {
	if PartialRounds != nRoundsPC[T-2] {
		panic("poseidon: PartialRounds does not match the reference table for this state width")
	}
}

// Params holds the derived round constants and MDS matrix for the fixed
// (T, Alpha, FullRounds, PartialRounds) shape above. Construction is a
// pure deterministic function of the BN254 scalar field modulus; Load()
// memoizes the result so repeated calls return byte-identical values
// without re-running the generator.
type Params struct {
	ARK [][]*big.Int // [FullRounds+PartialRounds][T]
	MDS [][]*big.Int // [T][T]
}

var (
	paramsOnce sync.Once
	params     *Params
)

// Load returns the singleton Poseidon parameters for this repo's fixed
// sponge shape, deriving them on first use via the Grain-LFSR "find ARK
// and MDS" search with skip=0. Every caller, native hashing and in-circuit
// gadgets alike, must go through this function so the two sides can never
// drift apart.
func Load() *Params {
	paramsOnce.Do(func() {
		params = newParams(T, Alpha, FullRounds, PartialRounds, 0)
	})
	return params
}

func newParams(t, alpha, fullRounds, partialRounds, skip int) *Params {
	mod := fr.Modulus()
	fieldBits := mod.BitLen()

	g := newGrainLFSR(mod, fieldBits, alpha, t, fullRounds, partialRounds, skip)

	totalRounds := fullRounds + partialRounds
	ark := make([][]*big.Int, totalRounds)
	for r := 0; r < totalRounds; r++ {
		row := make([]*big.Int, t)
		for i := 0; i < t; i++ {
			row[i] = g.nextFieldElement()
		}
		ark[r] = row
	}

	mds := generateMDS(g, t)

	return &Params{ARK: ark, MDS: mds}
}

// generateMDS builds a Cauchy matrix M[i][j] = 1/(x_i + y_j) from two
// disjoint, distinct, non-zero vectors x and y drawn from the same LFSR
// stream used for the round constants. A Cauchy matrix is guaranteed to
// be an MDS matrix (maximum distance separable), which is what gives
// Poseidon's linear layer its diffusion guarantee.
func generateMDS(g *grainLFSR, t int) [][]*big.Int {
	xs := make([]*big.Int, t)
	ys := make([]*big.Int, t)

	seen := make(map[string]bool)
	draw := func() *big.Int {
		for {
			v := g.nextNonZeroFieldElement()
			k := v.String()
			if !seen[k] {
				seen[k] = true
				return v
			}
		}
	}

	for i := 0; i < t; i++ {
		xs[i] = draw()
	}
	for i := 0; i < t; i++ {
		ys[i] = draw()
	}

	mod := fr.Modulus()
	m := make([][]*big.Int, t)
	for i := 0; i < t; i++ {
		row := make([]*big.Int, t)
		for j := 0; j < t; j++ {
			sum := new(big.Int).Add(xs[i], ys[j])
			sum.Mod(sum, mod)
			var e fr.Element
			e.SetBigInt(sum)
			e.Inverse(&e)
			inv := new(big.Int)
			e.BigInt(inv)
			row[j] = inv
		}
		m[i] = row
	}
	return m
}
