// Package zkerr holds the five sentinel error kinds shared across the
// engine's layers, so callers can errors.Is/errors.As against a stable
// set of values regardless of which package actually detected the
// failure. Every detection site wraps one of these with fmt.Errorf's
// %w, never replaces it, so a caller that only cares "was this a schema
// problem or a genuine proof rejection" never has to string-match.
package zkerr

import "errors"

var (
	// Encoding covers field/byte-length decode failures and truncated
	// or malformed variable-length records.
	Encoding = errors.New("encoding error")
	// Schema covers version/statement-type/domain-sep mismatches, or
	// depth/length disagreement within a record.
	Schema = errors.New("schema error")
	// Invariant covers a recomputed public value (commitment, leaf,
	// tag, root) disagreeing with what the record declares.
	Invariant = errors.New("invariant violation")
	// Synthesis covers circuit construction failures: depth-0 shapes,
	// path/depth length mismatches, or anything the constraint
	// compiler rejects structurally.
	Synthesis = errors.New("synthesis error")
	// Verification covers a well-formed proof that Groth16's verifier
	// rejects; the only error kind that is an expected runtime
	// outcome rather than a sign of a corrupt record or a bug.
	Verification = errors.New("verification failure")
)
