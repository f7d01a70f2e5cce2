// Package logger builds the zap loggers used across changeset.
//
// A single *zap.SugaredLogger is constructed at process start by New and
// handed to every component through its constructor. Components derive
// named children with Component and attach per-unit context (ticket, tag)
// with With.
package logger

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls how the process logger is built
type Options struct {
	JSON      bool      // JSON structured output for machine consumption
	Verbosity int       // -v count, see VerbosityToLevel
	Theme     string    // console theme: everforest, gruvbox
	Stdout    io.Writer // nil = os.Stdout
	Stderr    io.Writer // nil = os.Stderr
}

// New builds the process logger.
//
// Console output sends entries below ERROR to stdout and ERROR and above
// to stderr, so CI jobs can separate failures from progress.
func New(opts Options) (*zap.SugaredLogger, error) {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	level := VerbosityToLevel(opts.Verbosity)

	if opts.JSON {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		encoder := zapcore.NewJSONEncoder(config.EncoderConfig)
		return zap.New(splitCore(encoder, encoder.Clone(), stdout, stderr, level)).Sugar(), nil
	}

	color := useColor(stdout)
	theme := resolveTheme(opts.Theme)
	core := splitCore(
		newMinimalEncoder(theme, color),
		newMinimalEncoder(theme, useColor(stderr)),
		stdout, stderr, level,
	)
	return zap.New(core).Sugar(), nil
}

// splitCore tees entries: [level, ERROR) to out, [ERROR, ...) to errOut
func splitCore(outEnc, errEnc zapcore.Encoder, out, errOut io.Writer, level zapcore.Level) zapcore.Core {
	low := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= level && l < zapcore.ErrorLevel
	})
	high := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.ErrorLevel
	})
	return zapcore.NewTee(
		zapcore.NewCore(outEnc, zapcore.AddSync(out), low),
		zapcore.NewCore(errEnc, zapcore.AddSync(errOut), high),
	)
}

// useColor reports whether w is a terminal and NO_COLOR is unset
func useColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Nop returns a logger that discards everything
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// OrNop returns l, or a no-op logger when l is nil
func OrNop(l *zap.SugaredLogger) *zap.SugaredLogger {
	if l == nil {
		return Nop()
	}
	return l
}

// Component returns a named child logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Annotator struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewAnnotator(t tracker.Tracker, log *zap.SugaredLogger) *Annotator {
//	    return &Annotator{logger: logger.Component(log, "annotator")}
//	}
func Component(parent *zap.SugaredLogger, name string) *zap.SugaredLogger {
	return OrNop(parent).Named(name)
}

// Cleanup flushes any buffered log entries
func Cleanup(l *zap.SugaredLogger) {
	if l != nil {
		_ = l.Sync()
	}
}
