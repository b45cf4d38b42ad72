// Package obslog wires up structured logging for cmd/idlc. It is the
// only place in this module that imports a logging library — span,
// diag, lexer, ast, and parser stay pure and never log anything
// themselves, so they can be embedded in a long-running service
// without inheriting a CLI's logging opinions.
package obslog

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	// Verbose raises the minimum enabled level from Info to Debug.
	Verbose bool
	// JSON selects structured JSON output instead of the console
	// encoder; set this when stdout is being consumed by another
	// process rather than a terminal.
	JSON bool
}

// New builds an logr.Logger backed by zap, via zapr. Callers get an
// logr.Logger so that obslog's choice of backend (zap today) doesn't
// leak into call sites: idlc's own code only ever depends on logr.
func New(opts Options) (logr.Logger, func(), error) {
	level := zapcore.InfoLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	if !opts.JSON {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true

	zl, err := cfg.Build()
	if err != nil {
		return logr.Logger{}, func() {}, err
	}

	sync := func() { _ = zl.Sync() }
	return zapr.NewLogger(zl), sync, nil
}
