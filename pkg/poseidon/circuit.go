package poseidon

import (
	"github.com/consensys/gnark/frontend"
)

// sBoxVar raises in to the fixed exponent Alpha=5 inside the circuit,
// matching the native sBox: x^5 = (x^2)^2 * x.
func sBoxVar(api frontend.API, in frontend.Variable) frontend.Variable {
	sq := api.Mul(in, in)
	qt := api.Mul(sq, sq)
	return api.Mul(qt, in)
}

// arkVar adds round constants row r to state in place.
func arkVar(api frontend.API, state []frontend.Variable, row []interface{}) {
	for i := range state {
		state[i] = api.Add(state[i], row[i])
	}
}

// mixVar replaces state with state*MDS, one linear combination per output
// slot, the circuit twin of native mix().
func mixVar(api frontend.API, state []frontend.Variable, mds [][]interface{}) []frontend.Variable {
	t := len(state)
	out := make([]frontend.Variable, t)
	for i := 0; i < t; i++ {
		lc := frontend.Variable(0)
		for j := 0; j < t; j++ {
			lc = api.Add(lc, api.Mul(state[j], mds[j][i]))
		}
		out[i] = lc
	}
	return out
}

// constants converts Load()'s *big.Int tables into frontend.Variable
// constants once; gnark treats a *big.Int operand as a circuit constant
// directly, so this is just a type-erasure step for arkVar/mixVar's
// generic signature.
func constants() ([][]interface{}, [][]interface{}) {
	p := Load()
	ark := make([][]interface{}, len(p.ARK))
	for r, row := range p.ARK {
		cv := make([]interface{}, len(row))
		for i, c := range row {
			cv[i] = c
		}
		ark[r] = cv
	}
	mds := make([][]interface{}, len(p.MDS))
	for i, row := range p.MDS {
		cv := make([]interface{}, len(row))
		for j, c := range row {
			cv[j] = c
		}
		mds[i] = cv
	}
	return ark, mds
}

// permuteVar runs the full Poseidon permutation in-circuit, gate for gate
// identical to native permute(): ARK, S-box (full rounds on every slot,
// partial rounds on slot 0 only), MDS mix, repeated once per round.
func permuteVar(api frontend.API, state []frontend.Variable) []frontend.Variable {
	ark, mds := constants()
	full := FullRounds / 2

	for r := 0; r < FullRounds+PartialRounds; r++ {
		arkVar(api, state, ark[r])

		if r < full || r >= full+PartialRounds {
			for i := range state {
				state[i] = sBoxVar(api, state[i])
			}
		} else {
			state[0] = sBoxVar(api, state[0])
		}

		state = mixVar(api, state, mds)
	}
	return state
}

// SpongeVar is the in-circuit twin of Sponge: same rate/capacity layout,
// same absorption and squeeze schedule, operating over frontend.Variable.
type SpongeVar struct {
	api   frontend.API
	state []frontend.Variable
	pos   int
}

// NewSpongeVar returns a fresh in-circuit sponge with a zeroed state.
func NewSpongeVar(api frontend.API) *SpongeVar {
	state := make([]frontend.Variable, T)
	for i := range state {
		state[i] = frontend.Variable(0)
	}
	return &SpongeVar{api: api, state: state, pos: 1}
}

// Absorb feeds a batch of circuit variables into the sponge.
func (s *SpongeVar) Absorb(inputs ...frontend.Variable) {
	for _, in := range inputs {
		if s.pos == T {
			s.state = permuteVar(s.api, s.state)
			s.pos = 1
		}
		s.state[s.pos] = in
		s.pos++
	}
}

// Squeeze runs the final permutation and returns the squeezed variable.
func (s *SpongeVar) Squeeze() frontend.Variable {
	s.state = permuteVar(s.api, s.state)
	return s.state[1]
}

// HashVar absorbs inputs as a single batch and squeezes one field element
// inside the circuit, the in-circuit counterpart of Hash().
func HashVar(api frontend.API, inputs ...frontend.Variable) frontend.Variable {
	s := NewSpongeVar(api)
	s.Absorb(inputs...)
	return s.Squeeze()
}
