// Package merkle builds the fixed-depth commitment trees used by the
// membership statement family, and provides the fixed-size path
// (siblings + direction bits) each membership circuit consumes as a
// private witness. Leaves are identity commitments hashed with
// pkg/commitment, and every internal node goes through commitment.Node,
// so a tree built here always agrees with what the membership circuit
// recomputes.
package merkle

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/shroudproof/shroud/pkg/commitment"
)

// Node is one node of a dynamically-built commitment tree.
type Node struct {
	Hash   *big.Int
	Left   *Node
	Right  *Node
	Parent *Node
	IsLeaf bool
}

// Tree is a complete power-of-two commitment tree built from a list of
// leaf hashes (already domain-tagged via commitment.LeafV0V1/LeafV2).
// It exists to build test fixtures and reference roots/paths for an
// arbitrary number of members; GetProof returns a path whose length is
// the tree's actual height, which callers pad or reject against a
// circuit's fixed Depth as membership v0/v1/v2 require.
type Tree struct {
	Root   *Node
	Leaves []*Node
}

// NewNode creates a node, wiring parent pointers on its children.
func NewNode(hash *big.Int, left, right *Node) *Node {
	n := &Node{Hash: hash, Left: left, Right: right, IsLeaf: left == nil && right == nil}
	if left != nil {
		left.Parent = n
	}
	if right != nil {
		right.Parent = n
	}
	return n
}

// Build constructs a complete binary tree over the given leaf hashes,
// padding to the next power of two (minimum 2) by repeating the leaf
// hashes from the first one onward in round-robin order (so [a, b, c]
// becomes [a, b, c, a]), so every built tree has depth >= 1 and a
// well-defined path for every real leaf.
func Build(leafHashes []*big.Int) *Tree {
	if len(leafHashes) == 0 {
		leafHashes = []*big.Int{big.NewInt(0)}
	}
	padded := padToPowerOfTwo(leafHashes)

	leaves := make([]*Node, len(padded))
	for i, h := range padded {
		leaves[i] = NewNode(h, nil, nil)
	}

	level := leaves
	for len(level) > 1 {
		next := make([]*Node, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			left := level[i]
			right := left
			if i+1 < len(level) {
				right = level[i+1]
			}
			next = append(next, NewNode(commitment.Node(left.Hash, right.Hash), left, right))
		}
		level = next
	}

	return &Tree{Root: level[0], Leaves: leaves}
}

// padToPowerOfTwo duplicates leaf hashes until the slice length is at
// least two and then the next power of two, guaranteeing proof depth >= 1.
func padToPowerOfTwo(hashes []*big.Int) []*big.Int {
	n := len(hashes)
	nextPow := 1
	for nextPow < n {
		nextPow <<= 1
	}
	if nextPow < 2 {
		nextPow = 2
	}
	for i := 0; len(hashes) < nextPow; i++ {
		hashes = append(hashes, hashes[i%n])
	}
	return hashes
}

// Depth returns the tree's height (number of edges from root to a leaf).
func (t *Tree) Depth() int {
	d := 0
	for n := t.Leaves[0]; n.Parent != nil; n = n.Parent {
		d++
	}
	return d
}

// GetProof returns the sibling path and direction bits for the leaf at
// leafIndex, root-distance ordered the same way membership circuits
// expect: path[0] is the leaf's immediate sibling, path[len-1] is the
// sibling just below the root. direction[i] = true means the current
// node at that level is the right child (sibling supplied on the left).
func (t *Tree) GetProof(leafIndex int) ([]*big.Int, []bool, error) {
	if leafIndex < 0 || leafIndex >= len(t.Leaves) {
		return nil, nil, fmt.Errorf("merkle: leaf index %d out of range [0,%d)", leafIndex, len(t.Leaves))
	}

	var path []*big.Int
	var directions []bool

	cur := t.Leaves[leafIndex]
	for cur.Parent != nil {
		parent := cur.Parent
		if parent.Left == cur {
			path = append(path, parent.Right.Hash)
			directions = append(directions, false)
		} else {
			path = append(path, parent.Left.Hash)
			directions = append(directions, true)
		}
		cur = parent
	}
	return path, directions, nil
}

// Recompute walks a leaf hash up a sibling path exactly as a membership
// circuit does, and returns the resulting root, the native-side twin of
// circuits/membership's in-circuit root recomputation.
func Recompute(leaf *big.Int, path []*big.Int, directions []bool) *big.Int {
	cur := leaf
	for i, sib := range path {
		if directions[i] {
			cur = commitment.Node(sib, cur)
		} else {
			cur = commitment.Node(cur, sib)
		}
	}
	return cur
}

// ---------------------------------------------------------------------------
// Fixed-depth sparse tree
// ---------------------------------------------------------------------------

// Sparse is a fixed-depth commitment tree where only real leaves are
// stored; missing positions use precomputed zero-subtree hashes. This is
// the shape membership v0/v1/v2 actually bind to a depth-parameterized
// circuit: every proof this tree issues has exactly Depth siblings,
// regardless of how many real members were inserted.
type Sparse struct {
	Root       *big.Int
	Depth      int
	NumLeaves  int
	Levels     []map[int]*big.Int
	ZeroHashes []*big.Int
}

// ZeroHashes builds the zero-subtree hash chain:
//
//	zero[0] = zeroLeaf
//	zero[i] = commitment.Node(zero[i-1], zero[i-1])
func ZeroHashes(depth int, zeroLeaf *big.Int) []*big.Int {
	zh := make([]*big.Int, depth+1)
	zh[0] = new(big.Int).Set(zeroLeaf)
	for i := 1; i <= depth; i++ {
		zh[i] = commitment.Node(zh[i-1], zh[i-1])
	}
	return zh
}

// BuildSparse builds a fixed-depth sparse tree from leaf hashes already
// computed by the caller (commitment.LeafV0V1 or commitment.LeafV2, per
// statement version). Real leaves occupy indices 0..len(leafHashes)-1;
// every other position uses the zero hash for its level.
func BuildSparse(leafHashes []*big.Int, depth int, zeroLeaf *big.Int) *Sparse {
	zero := ZeroHashes(depth, zeroLeaf)

	levels := make([]map[int]*big.Int, depth+1)
	for i := range levels {
		levels[i] = make(map[int]*big.Int)
	}
	for i, h := range leafHashes {
		levels[0][i] = h
	}

	for lvl := 0; lvl < depth; lvl++ {
		parents := make(map[int]bool)
		for idx := range levels[lvl] {
			parents[idx/2] = true
		}
		for p := range parents {
			l, ok := levels[lvl][p*2]
			if !ok {
				l = zero[lvl]
			}
			r, ok := levels[lvl][p*2+1]
			if !ok {
				r = zero[lvl]
			}
			levels[lvl+1][p] = commitment.Node(l, r)
		}
	}

	root, ok := levels[depth][0]
	if !ok {
		root = zero[depth]
	}

	return &Sparse{
		Root:       root,
		Depth:      depth,
		NumLeaves:  len(leafHashes),
		Levels:     levels,
		ZeroHashes: zero,
	}
}

// GetProof returns a fixed-size path for the leaf at leafIndex: exactly
// Depth siblings. directions[i] is the circuit-format bit:
//
//	0 = current node is the left child  (sibling on the right)
//	1 = current node is the right child (sibling on the left)
func (s *Sparse) GetProof(leafIndex int) ([]*big.Int, []int) {
	siblings := make([]*big.Int, s.Depth)
	directions := make([]int, s.Depth)

	idx := leafIndex
	for lvl := 0; lvl < s.Depth; lvl++ {
		var sibIdx int
		if idx%2 == 0 {
			sibIdx = idx + 1
			directions[lvl] = 0
		} else {
			sibIdx = idx - 1
			directions[lvl] = 1
		}
		sib, ok := s.Levels[lvl][sibIdx]
		if !ok {
			sib = s.ZeroHashes[lvl]
		}
		siblings[lvl] = sib
		idx /= 2
	}
	return siblings, directions
}

// GetLeafHash returns the leaf hash at leafIndex, or the zero leaf hash
// for positions beyond the real leaves.
func (s *Sparse) GetLeafHash(leafIndex int) *big.Int {
	h, ok := s.Levels[0][leafIndex]
	if !ok {
		return s.ZeroHashes[0]
	}
	return h
}

// ---------------------------------------------------------------------------
// Serialization
// ---------------------------------------------------------------------------
//
// Format (all integers big-endian, hashes as canonical 32-byte fr.Element
// encodings):
//
//	uint32(depth) | uint32(numLeaves)
//	for each level 0..depth:
//	  uint32(count)
//	  for each stored entry, in ascending index order:
//	    uint32(index) | [32]byte(hash)
//
// Zero hashes are never stored; Load recomputes them from the supplied
// zero leaf hash, exactly as the tree itself does.

// Save writes the sparse tree to w in the format above.
func (s *Sparse) Save(w io.Writer) error {
	if err := binary.Write(w, binary.BigEndian, uint32(s.Depth)); err != nil {
		return fmt.Errorf("merkle: write depth: %w", err)
	}
	if err := binary.Write(w, binary.BigEndian, uint32(s.NumLeaves)); err != nil {
		return fmt.Errorf("merkle: write numLeaves: %w", err)
	}

	for lvl := 0; lvl <= s.Depth; lvl++ {
		m := s.Levels[lvl]
		if err := binary.Write(w, binary.BigEndian, uint32(len(m))); err != nil {
			return fmt.Errorf("merkle: write level %d count: %w", lvl, err)
		}

		indices := make([]int, 0, len(m))
		for idx := range m {
			indices = append(indices, idx)
		}
		sortInts(indices)

		for _, idx := range indices {
			if err := binary.Write(w, binary.BigEndian, uint32(idx)); err != nil {
				return fmt.Errorf("merkle: write level %d index %d: %w", lvl, idx, err)
			}
			var elem fr.Element
			elem.SetBigInt(m[idx])
			b := elem.Bytes()
			if _, err := w.Write(b[:]); err != nil {
				return fmt.Errorf("merkle: write level %d hash %d: %w", lvl, idx, err)
			}
		}
	}
	return nil
}

// Load reads a sparse tree written by Save. zeroLeaf must be the same
// zero-leaf hash used to build the original tree, so the zero-subtree
// chain recomputes identically.
func Load(r io.Reader, zeroLeaf *big.Int) (*Sparse, error) {
	var depth, numLeaves uint32
	if err := binary.Read(r, binary.BigEndian, &depth); err != nil {
		return nil, fmt.Errorf("merkle: read depth: %w", err)
	}
	if err := binary.Read(r, binary.BigEndian, &numLeaves); err != nil {
		return nil, fmt.Errorf("merkle: read numLeaves: %w", err)
	}

	zero := ZeroHashes(int(depth), zeroLeaf)
	levels := make([]map[int]*big.Int, depth+1)

	for lvl := 0; lvl <= int(depth); lvl++ {
		var count uint32
		if err := binary.Read(r, binary.BigEndian, &count); err != nil {
			return nil, fmt.Errorf("merkle: read level %d count: %w", lvl, err)
		}

		m := make(map[int]*big.Int, int(count))
		var buf [32]byte
		for j := 0; j < int(count); j++ {
			var idx uint32
			if err := binary.Read(r, binary.BigEndian, &idx); err != nil {
				return nil, fmt.Errorf("merkle: read level %d index: %w", lvl, err)
			}
			if _, err := io.ReadFull(r, buf[:]); err != nil {
				return nil, fmt.Errorf("merkle: read level %d hash: %w", lvl, err)
			}
			var elem fr.Element
			elem.SetBytes(buf[:])
			v := new(big.Int)
			elem.BigInt(v)
			m[int(idx)] = v
		}
		levels[lvl] = m
	}

	root, ok := levels[depth][0]
	if !ok {
		root = zero[depth]
	}

	return &Sparse{
		Root:       root,
		Depth:      int(depth),
		NumLeaves:  int(numLeaves),
		Levels:     levels,
		ZeroHashes: zero,
	}, nil
}

// sortInts sorts a slice of ints ascending (insertion sort; per-level
// entry counts are small enough that this beats pulling in sort for it).
func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		key := s[i]
		j := i - 1
		for j >= 0 && s[j] > key {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = key
	}
}
