package poseidon

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// permute runs the full Poseidon permutation in place over t = T field
// elements, using the fixed ARK/MDS parameters from Load(). Round
// structure: add round constants, apply the S-box (all T elements during
// the full rounds, only element 0 during the partial rounds in the
// middle), then mix with the MDS matrix, repeated once per round. This
// exact schedule is mirrored, gate for gate, by the in-circuit gadget in
// circuit.go so native and in-circuit hashing can never disagree.
func permute(state []fr.Element) {
	p := Load()
	full := FullRounds / 2

	for r := 0; r < FullRounds+PartialRounds; r++ {
		for i := range state {
			var c fr.Element
			c.SetBigInt(p.ARK[r][i])
			state[i].Add(&state[i], &c)
		}

		if r < full || r >= full+PartialRounds {
			for i := range state {
				sBox(&state[i])
			}
		} else {
			sBox(&state[0])
		}

		mix(state, p.MDS)
	}
}

// sBox raises x to the fixed exponent Alpha=5 via repeated squaring:
// x^5 = (x^2)^2 * x.
func sBox(x *fr.Element) {
	var x2, x4 fr.Element
	x2.Square(x)
	x4.Square(&x2)
	x.Mul(&x4, x)
}

// mix replaces state with state*MDS: out[i] = sum_j state[j] * MDS[j][i].
func mix(state []fr.Element, mds [][]*big.Int) {
	t := len(state)
	out := make([]fr.Element, t)
	var mdsElem, term fr.Element
	for i := 0; i < t; i++ {
		var acc fr.Element
		for j := 0; j < t; j++ {
			mdsElem.SetBigInt(mds[j][i])
			term.Mul(&state[j], &mdsElem)
			acc.Add(&acc, &term)
		}
		out[i] = acc
	}
	copy(state, out)
}

// Sponge is a simple absorb-then-squeeze-one construction over the fixed
// rate-3/capacity-1 state. Element 0 of the state is the capacity slot and
// is never written directly by absorbed input.
//
// Absorption rule: inputs fill rate slots 1..T-1 in order; whenever the
// window is full, the permutation runs and the window resets. After every
// input has been placed, the permutation runs exactly once more (whether
// or not the final window was full) before the digest is read from slot 1.
type Sponge struct {
	state []fr.Element
	pos   int
}

// NewSponge returns a fresh sponge with the capacity and rate slots zeroed.
func NewSponge() *Sponge {
	return &Sponge{state: make([]fr.Element, T), pos: 1}
}

// Absorb feeds a batch of field elements into the sponge.
func (s *Sponge) Absorb(inputs []*big.Int) {
	for _, in := range inputs {
		if s.pos == T {
			permute(s.state)
			s.pos = 1
		}
		var e fr.Element
		e.SetBigInt(in)
		s.state[s.pos] = e
		s.pos++
	}
}

// Squeeze runs the final permutation and returns the single squeezed
// field element (state slot 1).
func (s *Sponge) Squeeze() *big.Int {
	permute(s.state)
	out := new(big.Int)
	s.state[1].BigInt(out)
	return out
}

// Hash absorbs inputs as a single batch and squeezes one field element,
// matching the circuit's PoseidonSpongeVar::absorb(inputs);
// squeeze_field_elements(1) pattern exactly.
func Hash(inputs ...*big.Int) *big.Int {
	s := NewSponge()
	s.Absorb(inputs)
	return s.Squeeze()
}
