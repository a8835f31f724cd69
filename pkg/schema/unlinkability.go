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

// UnlinkabilityInstance is the in-memory record for the single
// unlinkability shape (v2 only; there is no v1 of this statement).
type UnlinkabilityInstance struct {
	DomainSep *big.Int
	CtxHash   *big.Int
	Tag       *big.Int
	ID        *big.Int // witness
	Blinding  *big.Int // witness
}

// Encode serializes the instance: v2Header(4, type=unlinkability)
// domain_sep(32) ctx_hash(32) tag(32) id(32) blinding(32).
func (u *UnlinkabilityInstance) Encode() ([]byte, error) {
	var buf bytes.Buffer

	if err := writeV2Header(&buf, StatementUnlinkability); err != nil {
		return nil, err
	}
	if err := writeFE(&buf, u.DomainSep); err != nil {
		return nil, err
	}
	if err := writeFE(&buf, u.CtxHash); err != nil {
		return nil, err
	}
	if err := writeFE(&buf, u.Tag); err != nil {
		return nil, err
	}
	if err := writeFE(&buf, u.ID); err != nil {
		return nil, err
	}
	if err := writeFE(&buf, u.Blinding); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DecodeUnlinkability parses a record, checking its four-byte header.
func DecodeUnlinkability(b []byte) (*UnlinkabilityInstance, error) {
	r := bytes.NewReader(b)
	if err := readV2Header(r, StatementUnlinkability); err != nil {
		return nil, err
	}
	return decodeUnlinkabilityBody(r)
}

func decodeUnlinkabilityBody(r io.Reader) (*UnlinkabilityInstance, error) {
	u := &UnlinkabilityInstance{}
	var err error

	if u.DomainSep, err = readFE(r); err != nil {
		return nil, err
	}
	if u.CtxHash, err = readFE(r); err != nil {
		return nil, err
	}
	if u.Tag, err = readFE(r); err != nil {
		return nil, err
	}
	if u.ID, err = readFE(r); err != nil {
		return nil, err
	}
	if u.Blinding, err = readFE(r); err != nil {
		return nil, err
	}

	return u, nil
}

// Validate checks the domain separator against the unlinkability v2
// constant, then recomputes commitment and tag from the witness and
// rejects on mismatch.
func (u *UnlinkabilityInstance) Validate() error {
	want := domainsep.MustField(domainsep.UnlinkabilityV2)
	if u.DomainSep == nil || u.DomainSep.Cmp(want) != 0 {
		return fmt.Errorf("%w: domain_sep does not match unlinkability v2 constant", zkerr.Schema)
	}
	if u.CtxHash == nil {
		return fmt.Errorf("%w: missing ctx_hash", zkerr.Schema)
	}

	c := commitment.Commit(u.ID, u.Blinding)
	tag := commitment.Tag(u.DomainSep, u.CtxHash, c)
	if tag.Cmp(u.Tag) != 0 {
		return fmt.Errorf("%w: recomputed tag does not match record", zkerr.Invariant)
	}

	return nil
}
