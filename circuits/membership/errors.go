package membership

import (
	"fmt"

	"github.com/shroudproof/shroud/pkg/zkerr"
)

// ErrUnsatisfiable is returned (wrapped) when a membership circuit is
// asked to synthesize against a structurally impossible shape: zero
// depth, or a path whose length disagrees with the declared depth. It
// wraps zkerr.Synthesis so callers can check either this package's
// specific error or the engine-wide synthesis-error kind.
var ErrUnsatisfiable = fmt.Errorf("membership: unsatisfiable circuit shape: %w", zkerr.Synthesis)
