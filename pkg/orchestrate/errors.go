package orchestrate

import "github.com/shroudproof/shroud/pkg/zkerr"

// Re-exported for call sites in this package; see pkg/zkerr for the
// shared definitions every layer wraps.
var (
	ErrEncoding     = zkerr.Encoding
	ErrSchema       = zkerr.Schema
	ErrInvariant    = zkerr.Invariant
	ErrSynthesis    = zkerr.Synthesis
	ErrVerification = zkerr.Verification
)
