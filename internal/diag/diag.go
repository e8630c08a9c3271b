// Package diag provides structured, per-pass logging for the compiler
// pipeline (lex, parse, analyze, monomorphize, build IR, verify,
// optimize). Every stage logs under the same "stage" field so `flc -v`
// output reads as one pipeline trace rather than each pass rolling its
// own ad hoc prefix.
package diag

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus.Logger configured for the compiler's CLI output.
type Logger struct {
	*logrus.Logger
}

// NewLogger returns a Logger writing to stderr at Info level, or Debug
// level when verbose is set.
func NewLogger(verbose bool) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	return &Logger{Logger: l}
}

// Stage starts timing a named pipeline pass. Call Done on success,
// Errors to report a batch of non-fatal diagnostics, or Fail on a hard
// error.
func (l *Logger) Stage(name string) *StageLogger {
	return &StageLogger{entry: l.WithField("stage", name), start: time.Now()}
}

// StageLogger times and reports the outcome of a single pipeline pass.
type StageLogger struct {
	entry *logrus.Entry
	start time.Time
}

// Done logs successful completion of the stage, with any extra fields
// the caller wants attached (e.g. instruction counts, pass iterations).
func (s *StageLogger) Done(fields logrus.Fields) {
	s.entry.WithFields(fields).WithField("elapsed", time.Since(s.start)).Info("stage complete")
}

// Fail logs a hard error that aborted the stage.
func (s *StageLogger) Fail(err error) {
	s.entry.WithField("elapsed", time.Since(s.start)).WithError(err).Error("stage failed")
}

// Errors logs a batch of non-fatal diagnostics the stage collected
// (parse errors, semantic errors, IR verification failures).
func (s *StageLogger) Errors(errs []error) {
	s.entry.WithField("elapsed", time.Since(s.start)).
		WithField("count", len(errs)).Warn("stage reported errors")
	for _, err := range errs {
		s.entry.Warn(err.Error())
	}
}
