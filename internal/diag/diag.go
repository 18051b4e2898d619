// Package diag provides the diagnostic formatting shared by the lexer,
// parser, and type checker's error types, plus a small stage-timing logger
// for the CLI's -v/--verbose flag.
//
// Every stage reports its own `error` type (lexer.LexError,
// parser.ParseErrors, check.Diagnostics); this package doesn't reformat
// those — it supplies the `[stage][line:col]: message` convention they all
// already follow (spec.md §6.4) as a single documented format, and the
// ambient logging wrapper the CLI uses around stage execution.
package diag

import (
	"log"
	"os"
	"time"
)

// Logger wraps the standard library's log.Logger with a verbosity gate, in
// the teacher's stdlib-first style: no external logging library is pulled
// in for a CLI this size (see DESIGN.md).
type Logger struct {
	verbose bool
	inner   *log.Logger
}

// New returns a Logger that writes to stderr when verbose is true and
// discards everything otherwise.
func New(verbose bool) *Logger {
	return &Logger{verbose: verbose, inner: log.New(os.Stderr, "", 0)}
}

// Stage times fn and logs its duration under name when verbose logging is
// enabled, matching the original's profiler instrumentation's stage-timing
// idea (see SPEC_FULL.md §4) without its full instrumentation layer.
func (l *Logger) Stage(name string, fn func() error) error {
	if !l.verbose {
		return fn()
	}
	start := time.Now()
	err := fn()
	l.inner.Printf("[%s] %s (%v)", name, statusOf(err), time.Since(start))

	return err
}

func statusOf(err error) string {
	if err != nil {
		return "failed"
	}

	return "ok"
}

// Printf logs a free-form verbose message, a no-op when verbose logging is
// disabled.
func (l *Logger) Printf(format string, args ...any) {
	if l.verbose {
		l.inner.Printf(format, args...)
	}
}
