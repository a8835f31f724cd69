package poseidon

import "math/big"

// grainLFSR implements the Grain-style self-shrinking generator used by the
// reference Poseidon parameter script to derive round constants (ARK) and
// the MDS matrix deterministically from the field modulus and the chosen
// (t, full rounds, partial rounds) shape. It is seeded once from public,
// fixed parameters and never touches any witness or secret value: the
// same constants are produced on every process, platform, and build.
type grainLFSR struct {
	state [80]uint8
	mod   *big.Int
	bits  int
}

// newGrainLFSR seeds the generator per the standard initialization: a
// field-type tag, the s-box exponent, the field bit-size, the state width
// t, the full/partial round counts, and a run of 1 bits padding the state
// out to 80 bits. skip additional warm-up iterations are discarded beyond
// the standard 160; every caller in this repo passes skip=0.
func newGrainLFSR(mod *big.Int, fieldBits, alpha, t, fullRounds, partialRounds, skip int) *grainLFSR {
	g := &grainLFSR{mod: mod, bits: fieldBits}

	bits := make([]uint8, 0, 80)
	bits = append(bits, 1) // field type: prime field
	bits = appendBits(bits, uint64(sboxTag(alpha)), 4)
	bits = appendBits(bits, uint64(fieldBits), 12)
	bits = appendBits(bits, uint64(t), 12)
	bits = appendBits(bits, uint64(fullRounds), 10)
	bits = appendBits(bits, uint64(partialRounds), 10)
	for len(bits) < 80 {
		bits = append(bits, 1)
	}
	copy(g.state[:], bits[:80])

	// Standard warm-up: discard the first 160 shrunk output bits before any
	// constant is derived, plus any caller-requested extra skip.
	for i := 0; i < 160+skip; i++ {
		g.shrunkBit()
	}

	return g
}

// sboxTag encodes the s-box kind for the LFSR seed: 0 for x^alpha with a
// small alpha (our case, alpha=5), 1 would be an inverse s-box.
func sboxTag(alpha int) int {
	if alpha > 0 {
		return 0
	}
	return 1
}

func appendBits(dst []uint8, v uint64, n int) []uint8 {
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, uint8((v>>uint(i))&1))
	}
	return dst
}

// rawBit advances the 80-bit LFSR by one tap and returns the new bit.
// Feedback taps correspond to the primitive polynomial
// x^80 + x^62 + x^51 + x^38 + x^23 + x^13 + 1.
func (g *grainLFSR) rawBit() uint8 {
	newBit := g.state[0] ^ g.state[13] ^ g.state[23] ^ g.state[38] ^ g.state[51] ^ g.state[62]
	copy(g.state[0:79], g.state[1:80])
	g.state[79] = newBit
	return newBit
}

// shrunkBit implements the self-shrinking rule: draw bit pairs (b1, b2);
// keep b2 only when b1 == 1, otherwise discard both and redraw. This is
// the standard de-biasing step used by the Poseidon constant generator.
func (g *grainLFSR) shrunkBit() uint8 {
	for {
		b1 := g.rawBit()
		b2 := g.rawBit()
		if b1 == 1 {
			return b2
		}
	}
}

// nextFieldElement draws g.bits shrunk bits (MSB first), rejecting and
// redrawing whenever the result is >= the field modulus, and returns the
// accepted value as a canonical big.Int.
func (g *grainLFSR) nextFieldElement() *big.Int {
	for {
		v := new(big.Int)
		for i := 0; i < g.bits; i++ {
			v.Lsh(v, 1)
			if g.shrunkBit() == 1 {
				v.SetBit(v, 0, 1)
			}
		}
		if v.Cmp(g.mod) < 0 {
			return v
		}
	}
}

// nextNonZeroFieldElement is nextFieldElement with zero rejected too, used
// when deriving the two Cauchy-matrix vectors for the MDS matrix (a zero
// entry would make 1/(x_i+y_j) undefined for some pairing).
func (g *grainLFSR) nextNonZeroFieldElement() *big.Int {
	for {
		v := g.nextFieldElement()
		if v.Sign() != 0 {
			return v
		}
	}
}
