// Package obslog builds the structured logger used by goplan's CLI
// commands.
package obslog

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls logger construction.
type Options struct {
	// Verbose lowers the minimum level to debug.
	Verbose bool

	// Development switches to zap's human-readable console encoder
	// instead of JSON, for local CLI use.
	Development bool
}

// New builds a zap.Logger for goplan, following the production-config,
// verbose-flips-to-debug pattern used by cmd/nerd's root command.
func New(opts Options) (*zap.Logger, error) {
	var config zap.Config
	if opts.Development {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}
	if opts.Verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("obslog: failed to build logger: %w", err)
	}
	return logger, nil
}

// Sync flushes buffered log entries. Errors from syncing a console stream
// (ENOTTY on some platforms) are intentionally ignored, matching the
// fire-and-forget `_ = logger.Sync()` pattern in cmd/nerd's
// PersistentPostRun.
func Sync(logger *zap.Logger) {
	if logger != nil {
		_ = logger.Sync()
	}
}
