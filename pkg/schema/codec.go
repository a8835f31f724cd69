// Package schema implements the versioned, serializable instance
// records for all three statement families, their binary wire format,
// and the two-phase (structural then semantic) validation every
// instance must pass before it may reach the prover. Wire conventions:
// little-endian fixed-width integers, canonical 32-byte big-endian
// field blobs written as-is, and variable-length vectors prefixed with
// a little-endian u64 count.
package schema

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	"github.com/shroudproof/shroud/pkg/field"
	"github.com/shroudproof/shroud/pkg/zkerr"
)

// writeU8 writes a single byte.
func writeU8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

func readU8(r io.Reader) (uint8, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func writeU16(w io.Writer, v uint16) error {
	return binary.Write(w, binary.LittleEndian, v)
}

func readU16(r io.Reader) (uint16, error) {
	var v uint16
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func writeU32(w io.Writer, v uint32) error {
	return binary.Write(w, binary.LittleEndian, v)
}

func readU32(r io.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func writeU64(w io.Writer, v uint64) error {
	return binary.Write(w, binary.LittleEndian, v)
}

func readU64(r io.Reader) (uint64, error) {
	var v uint64
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

// writeFE writes v as a canonical 32-byte big-endian field blob.
func writeFE(w io.Writer, v *big.Int) error {
	b := field.Encode(v)
	_, err := w.Write(b[:])
	return err
}

// readFE reads a 32-byte field blob and decodes it via the same
// big-endian modular reduction as every other field value in the system.
func readFE(r io.Reader) (*big.Int, error) {
	var buf [field.Size]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("%w: read field element: %v", zkerr.Encoding, err)
	}
	v, err := field.Decode("schema_field", buf[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", zkerr.Encoding, err)
	}
	return v, nil
}

// writePath writes a sibling/direction path as a little-endian u64
// count followed by, per entry, a 32-byte sibling and a 1-byte
// direction flag (1 = is_left, 0 = not).
func writePath(w io.Writer, path []*big.Int, isLeft []bool) error {
	if len(path) != len(isLeft) {
		return fmt.Errorf("%w: path length %d != direction length %d", zkerr.Schema, len(path), len(isLeft))
	}
	if err := writeU64(w, uint64(len(path))); err != nil {
		return err
	}
	for i, sib := range path {
		if err := writeFE(w, sib); err != nil {
			return err
		}
		var b uint8
		if isLeft[i] {
			b = 1
		}
		if err := writeU8(w, b); err != nil {
			return err
		}
	}
	return nil
}

func readPath(r io.Reader) ([]*big.Int, []bool, error) {
	count, err := readU64(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read path count: %v", zkerr.Encoding, err)
	}
	// Grow the slices entry by entry rather than preallocating from the
	// untrusted count, so a truncated record with a huge count fails with
	// an encoding error instead of an allocation panic.
	path := make([]*big.Int, 0)
	isLeft := make([]bool, 0)
	for i := uint64(0); i < count; i++ {
		sib, err := readFE(r)
		if err != nil {
			return nil, nil, err
		}
		dir, err := readU8(r)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: read direction: %v", zkerr.Encoding, err)
		}
		path = append(path, sib)
		isLeft = append(isLeft, dir != 0)
	}
	return path, isLeft, nil
}
