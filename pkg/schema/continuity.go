package schema

import (
	"bytes"
	"fmt"
	"io"
	"math/big"

	"github.com/shroudproof/shroud/pkg/commitment"
	"github.com/shroudproof/shroud/pkg/domainsep"
	"github.com/shroudproof/shroud/pkg/zkerr"
)

// ContinuityInstance is the in-memory record for both continuity
// versions. CtxHash is nil for v1.
type ContinuityInstance struct {
	Version   int // 1 or 2
	DomainSep *big.Int
	CtxHash   *big.Int // v2 only
	C1Hash    *big.Int
	C2Hash    *big.Int
	ID        *big.Int // witness, shared across both commitments
	R1        *big.Int // witness
	R2        *big.Int // witness
}

// Encode serializes the instance per its Version:
//
//	v1: version(1)=1 domain_sep(32) c1_hash(32) c2_hash(32) id(32) r1(32) r2(32)
//	v2: v2Header(4, type=continuity) domain_sep(32) ctx_hash(32) c1_hash(32) c2_hash(32) id(32) r1(32) r2(32)
func (c *ContinuityInstance) Encode() ([]byte, error) {
	var buf bytes.Buffer

	switch c.Version {
	case 1:
		if err := writeV1Header(&buf); err != nil {
			return nil, err
		}
	case 2:
		if err := writeV2Header(&buf, StatementContinuity); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown continuity version %d", zkerr.Schema, c.Version)
	}

	if err := writeFE(&buf, c.DomainSep); err != nil {
		return nil, err
	}
	if c.Version == 2 {
		if err := writeFE(&buf, c.CtxHash); err != nil {
			return nil, err
		}
	}
	if err := writeFE(&buf, c.C1Hash); err != nil {
		return nil, err
	}
	if err := writeFE(&buf, c.C2Hash); err != nil {
		return nil, err
	}
	if err := writeFE(&buf, c.ID); err != nil {
		return nil, err
	}
	if err := writeFE(&buf, c.R1); err != nil {
		return nil, err
	}
	if err := writeFE(&buf, c.R2); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DecodeContinuityV1 parses a v1 record, checking its version byte.
func DecodeContinuityV1(b []byte) (*ContinuityInstance, error) {
	r := bytes.NewReader(b)
	if err := readV1Header(r); err != nil {
		return nil, err
	}
	return decodeContinuityBody(r, 1)
}

// DecodeContinuityV2 parses a v2 record, checking its four-byte header.
func DecodeContinuityV2(b []byte) (*ContinuityInstance, error) {
	r := bytes.NewReader(b)
	if err := readV2Header(r, StatementContinuity); err != nil {
		return nil, err
	}
	return decodeContinuityBody(r, 2)
}

func decodeContinuityBody(r io.Reader, version int) (*ContinuityInstance, error) {
	c := &ContinuityInstance{Version: version}
	var err error

	if c.DomainSep, err = readFE(r); err != nil {
		return nil, err
	}
	if version == 2 {
		if c.CtxHash, err = readFE(r); err != nil {
			return nil, err
		}
	}
	if c.C1Hash, err = readFE(r); err != nil {
		return nil, err
	}
	if c.C2Hash, err = readFE(r); err != nil {
		return nil, err
	}
	if c.ID, err = readFE(r); err != nil {
		return nil, err
	}
	if c.R1, err = readFE(r); err != nil {
		return nil, err
	}
	if c.R2, err = readFE(r); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks the domain separator against the version-appropriate
// constant, then recomputes both commitments from the witness and
// rejects on any mismatch. This is what catches a witness id tampered
// after the public hashes were fixed, or a v1 domain_sep paired with
// v2-shaped 4-input commitments.
func (c *ContinuityInstance) Validate() error {
	var want *big.Int
	switch c.Version {
	case 1:
		want = domainsep.MustField(domainsep.ContinuityV1)
	case 2:
		want = domainsep.MustField(domainsep.ContinuityV2)
	default:
		return fmt.Errorf("%w: unknown continuity version %d", zkerr.Schema, c.Version)
	}
	if c.DomainSep == nil || c.DomainSep.Cmp(want) != 0 {
		return fmt.Errorf("%w: domain_sep does not match continuity v%d constant", zkerr.Schema, c.Version)
	}
	if c.Version == 2 && c.CtxHash == nil {
		return fmt.Errorf("%w: missing ctx_hash", zkerr.Schema)
	}

	var c1, c2 *big.Int
	if c.Version == 2 {
		c1 = commitment.CommitV2(c.ID, c.R1, c.CtxHash)
		c2 = commitment.CommitV2(c.ID, c.R2, c.CtxHash)
	} else {
		c1 = commitment.Commit(c.ID, c.R1)
		c2 = commitment.Commit(c.ID, c.R2)
	}

	if c1.Cmp(c.C1Hash) != 0 {
		return fmt.Errorf("%w: recomputed c1 does not match record", zkerr.Invariant)
	}
	if c2.Cmp(c.C2Hash) != 0 {
		return fmt.Errorf("%w: recomputed c2 does not match record", zkerr.Invariant)
	}

	return nil
}
