// Package debuglog adapts combinator.Logger onto
// github.com/hashicorp/go-hclog, so a run's diagnostic output goes through
// a real structured logger instead of the engine inventing its own sink
// format.
package debuglog

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/tef/combinator/combinator"
)

// hclogAdapter satisfies combinator.Logger by forwarding to an hclog.Logger
// at Debug level.
type hclogAdapter struct {
	log hclog.Logger
}

func (a hclogAdapter) Debugf(format string, args ...any) {
	a.log.Debug(fmt.Sprintf(format, args...))
}

// New returns a combinator.Logger backed by an hclog.Logger named name,
// writing to stderr at Debug level.
func New(name string) combinator.Logger {
	return hclogAdapter{log: hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  hclog.Debug,
		Output: os.Stderr,
	})}
}

// Discard returns a combinator.Logger that drops every message, used as
// the default so debug plumbing never needs a nil check at call sites that
// don't care about diagnostics.
func Discard() combinator.Logger {
	return hclogAdapter{log: hclog.NewNullLogger()}
}
