package diagnostics

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"
)

// Severity mirrors the levels a diagnostic can be logged at. The core never
// reports Warning/Note/Help for its own faults (those belong to a future
// parser/analysis collaborator); Critical and Error are what the verifier
// and the pass driver actually emit.
type Severity string

const (
	Critical Severity = "critical"
	Error    Severity = "error"
	Info     Severity = "info"
)

// Channel is the logging channel required by spec §6: "Verification
// failures are emitted as diagnostics on a logging channel; they are always
// bugs in the compiler, never user-facing." It wraps commonlog the same way
// the teacher's LSP command configures it (cmd/kanso-lsp/main.go), and uses
// fatih/color to colorize the severity tag the way the teacher's error
// reporter does (internal/errors/reporter.go), minus the source-position
// rendering this core has no use for (no source text ever reaches it).
type Channel struct {
	logger commonlog.Logger
}

// NewChannel configures commonlog at the given verbosity (1 = debug, as the
// teacher's LSP entry point does) and returns a Channel backed by a logger
// named "shady".
func NewChannel(verbosity int) *Channel {
	commonlog.Configure(verbosity, nil)
	return &Channel{logger: commonlog.GetLogger("shady")}
}

func tag(level Severity) string {
	switch level {
	case Critical:
		return color.New(color.FgRed, color.Bold).Sprint("critical")
	case Error:
		return color.New(color.FgRed).Sprint("error")
	default:
		return color.New(color.FgCyan).Sprint("info")
	}
}

// Logf emits a single diagnostic line at the given severity and code.
func (c *Channel) Logf(level Severity, code string, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("%s[%s]: %s", tag(level), code, msg)
	switch level {
	case Critical:
		c.logger.Critical(line)
	case Error:
		c.logger.Error(line)
	default:
		c.logger.Info(line)
	}
}

// Fault logs a *Fault at Critical severity, preserving its code.
func (c *Channel) Fault(f *Fault) {
	c.Logf(Critical, f.Code, "%s", f.Message)
}
