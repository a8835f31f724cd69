package schema

import (
	"bytes"
	"fmt"
	"io"
	"math/big"

	"github.com/shroudproof/shroud/pkg/commitment"
	"github.com/shroudproof/shroud/pkg/domainsep"
	"github.com/shroudproof/shroud/pkg/merkle"
	"github.com/shroudproof/shroud/pkg/zkerr"
)

// MembershipInstance is the unified in-memory record for all three
// membership schema versions. DomainSep and CtxHash are nil for v0/v1.
// v0 carries neither a version byte nor a domain separator, so it can
// never be bound to a specific statement; callers should treat it as
// deprecated.
type MembershipInstance struct {
	Version    int // 0, 1, or 2
	Depth      uint32
	DomainSep  *big.Int // v2 only
	CtxHash    *big.Int // v2 only
	Root       *big.Int
	Commitment *big.Int
	ID         *big.Int   // witness
	Blinding   *big.Int   // witness
	Path       []*big.Int // witness: sibling per level
	IsLeft     []bool     // witness: direction per level
}

// Encode serializes the instance per its Version. Layouts:
//
//	v0: depth(u32) root(32) commitment(32) id(32) blinding(32) path
//	v1: version(1)=1 depth(u32) root(32) commitment(32) id(32) blinding(32) path
//	v2: v2Header(4, type=membership) depth(u32) domain_sep(32) ctx_hash(32)
//	    root(32) commitment(32) id(32) blinding(32) path
func (m *MembershipInstance) Encode() ([]byte, error) {
	var buf bytes.Buffer

	switch m.Version {
	case 0:
		// no header
	case 1:
		if err := writeV1Header(&buf); err != nil {
			return nil, err
		}
	case 2:
		if err := writeV2Header(&buf, StatementMembership); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown membership version %d", zkerr.Schema, m.Version)
	}

	if err := writeU32(&buf, m.Depth); err != nil {
		return nil, err
	}
	if m.Version == 2 {
		if err := writeFE(&buf, m.DomainSep); err != nil {
			return nil, err
		}
		if err := writeFE(&buf, m.CtxHash); err != nil {
			return nil, err
		}
	}
	if err := writeFE(&buf, m.Root); err != nil {
		return nil, err
	}
	if err := writeFE(&buf, m.Commitment); err != nil {
		return nil, err
	}
	if err := writeFE(&buf, m.ID); err != nil {
		return nil, err
	}
	if err := writeFE(&buf, m.Blinding); err != nil {
		return nil, err
	}
	if err := writePath(&buf, m.Path, m.IsLeft); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DecodeMembershipV0 parses a headerless v0 record. The caller must
// already know from out-of-band context that the bytes are v0; the
// format cannot self-identify, one more reason it is deprecated.
func DecodeMembershipV0(b []byte) (*MembershipInstance, error) {
	return decodeMembershipBody(bytes.NewReader(b), 0)
}

// DecodeMembershipV1 parses a v1 record, checking its version byte.
func DecodeMembershipV1(b []byte) (*MembershipInstance, error) {
	r := bytes.NewReader(b)
	if err := readV1Header(r); err != nil {
		return nil, err
	}
	return decodeMembershipBody(r, 1)
}

// DecodeMembershipV2 parses a v2 record, checking its four-byte header.
func DecodeMembershipV2(b []byte) (*MembershipInstance, error) {
	r := bytes.NewReader(b)
	if err := readV2Header(r, StatementMembership); err != nil {
		return nil, err
	}
	return decodeMembershipBody(r, 2)
}

func decodeMembershipBody(r io.Reader, version int) (*MembershipInstance, error) {
	depth, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read depth: %v", zkerr.Encoding, err)
	}

	m := &MembershipInstance{Version: version, Depth: depth}

	if version == 2 {
		if m.DomainSep, err = readFE(r); err != nil {
			return nil, err
		}
		if m.CtxHash, err = readFE(r); err != nil {
			return nil, err
		}
	}
	if m.Root, err = readFE(r); err != nil {
		return nil, err
	}
	if m.Commitment, err = readFE(r); err != nil {
		return nil, err
	}
	if m.ID, err = readFE(r); err != nil {
		return nil, err
	}
	if m.Blinding, err = readFE(r); err != nil {
		return nil, err
	}
	if m.Path, m.IsLeft, err = readPath(r); err != nil {
		return nil, err
	}

	return m, nil
}

// Validate runs the fail-closed structural-then-semantic checks in a
// fixed order: depth > 0 (v1/v2), witness lengths agree with the
// declared depth, domain separator matches (v2), then every derived
// public value is recomputed natively and compared.
func (m *MembershipInstance) Validate() error {
	if m.Version != 0 {
		if m.Depth == 0 {
			return fmt.Errorf("%w: declared depth must be > 0", zkerr.Schema)
		}
	}
	if uint32(len(m.Path)) != m.Depth || uint32(len(m.IsLeft)) != m.Depth {
		return fmt.Errorf("%w: witness path/direction length (%d/%d) != declared depth %d",
			zkerr.Schema, len(m.Path), len(m.IsLeft), m.Depth)
	}

	var leaf *big.Int
	if m.Version == 2 {
		want := domainsep.MustField(domainsep.MembershipV2)
		if m.DomainSep == nil || m.DomainSep.Cmp(want) != 0 {
			return fmt.Errorf("%w: domain_sep does not match membership v2 constant", zkerr.Schema)
		}
		if m.CtxHash == nil {
			return fmt.Errorf("%w: missing ctx_hash", zkerr.Schema)
		}
		leaf = commitment.LeafV2(m.DomainSep, m.CtxHash, m.Commitment)
	} else {
		leaf = commitment.LeafV0V1(m.Commitment)
	}

	gotCommitment := commitment.Commit(m.ID, m.Blinding)
	if gotCommitment.Cmp(m.Commitment) != 0 {
		return fmt.Errorf("%w: recomputed commitment does not match record", zkerr.Invariant)
	}

	gotRoot := merkle.Recompute(leaf, m.Path, m.IsLeft)
	if gotRoot.Cmp(m.Root) != 0 {
		return fmt.Errorf("%w: recomputed root does not match record", zkerr.Invariant)
	}

	return nil
}
