package motion

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// globalDebug enables the checks in this file. Package-level so that nodes,
// groups and pointer routing can consult it without holding a reference to
// any configuration.
var globalDebug bool

// debugLogger receives warnings that have no group logger to go to.
var debugLogger = zerolog.New(os.Stderr).With().Timestamp().Str("component", "motion").Logger()

// SetDebugMode enables or disables debug mode. When enabled, writes to
// disposed nodes panic with a clear message, and groups and pointer routing
// log warnings for suspicious usage.
func SetDebugMode(enabled bool) {
	globalDebug = enabled
}

// DebugMode reports whether debug mode is enabled.
func DebugMode() bool {
	return globalDebug
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// written to. Only called in debug mode; in release mode the write is silently
// dropped.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("motion debug: %s on disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}

// debugMaxExiting is the number of exits in flight in one group above which a
// warning is logged.
const debugMaxExiting = 64

func debugCheckExiting(g *Group) {
	if n := len(g.exiting); n > debugMaxExiting {
		g.log.Warn().Int("exiting", n).Int("threshold", debugMaxExiting).
			Msg("many exits in flight; are exit animations completing?")
	}
}
