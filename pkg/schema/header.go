package schema

import (
	"fmt"
	"io"

	"github.com/shroudproof/shroud/pkg/zkerr"
)

// StatementType identifies which circuit produced (or will consume) a
// v2 record. Values are part of the wire format and must not change.
type StatementType uint8

const (
	StatementMembership    StatementType = 1
	StatementUnlinkability StatementType = 2
	StatementContinuity    StatementType = 3
)

func (t StatementType) String() string {
	switch t {
	case StatementMembership:
		return "membership"
	case StatementUnlinkability:
		return "unlinkability"
	case StatementContinuity:
		return "continuity"
	default:
		return fmt.Sprintf("statement_type(%d)", uint8(t))
	}
}

// v2Header is the four-byte envelope every v2 record (any statement)
// begins with: a two-byte schema_version followed by one-byte
// statement_type and one-byte statement_version. The trio is validated
// against the expected constant for whichever record is being decoded;
// a mismatch is a SchemaError, never repaired.
type v2Header struct {
	SchemaVersion    uint16
	StatementType    StatementType
	StatementVersion uint8
}

const (
	schemaVersionV2    = 2
	statementVersionV2 = 2
)

func writeV2Header(w io.Writer, st StatementType) error {
	if err := writeU16(w, schemaVersionV2); err != nil {
		return err
	}
	if err := writeU8(w, uint8(st)); err != nil {
		return err
	}
	return writeU8(w, statementVersionV2)
}

func readV2Header(r io.Reader, want StatementType) error {
	sv, err := readU16(r)
	if err != nil {
		return fmt.Errorf("%w: read schema_version: %v", zkerr.Encoding, err)
	}
	st, err := readU8(r)
	if err != nil {
		return fmt.Errorf("%w: read statement_type: %v", zkerr.Encoding, err)
	}
	stv, err := readU8(r)
	if err != nil {
		return fmt.Errorf("%w: read statement_version: %v", zkerr.Encoding, err)
	}

	if sv != schemaVersionV2 {
		return fmt.Errorf("%w: schema_version %d != expected %d", zkerr.Schema, sv, schemaVersionV2)
	}
	if StatementType(st) != want {
		return fmt.Errorf("%w: statement_type %d != expected %d (%s)", zkerr.Schema, st, want, want)
	}
	if stv != statementVersionV2 {
		return fmt.Errorf("%w: statement_version %d != expected %d", zkerr.Schema, stv, statementVersionV2)
	}
	return nil
}

// v1 records across statements share a trivial one-byte header: a
// version byte fixed at 1. Membership additionally carries its own
// u32 depth field after this byte; continuity has no further header.
const schemaVersionV1 = 1

func writeV1Header(w io.Writer) error {
	return writeU8(w, schemaVersionV1)
}

func readV1Header(r io.Reader) error {
	v, err := readU8(r)
	if err != nil {
		return fmt.Errorf("%w: read version: %v", zkerr.Encoding, err)
	}
	if v != schemaVersionV1 {
		return fmt.Errorf("%w: version %d != expected %d", zkerr.Schema, v, schemaVersionV1)
	}
	return nil
}
