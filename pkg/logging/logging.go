// Package logging builds the zap loggers used across tably-cli and
// sanitizes credentials before they reach log output.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs a logger for the given level ("debug", "info", "warn",
// "error") and format ("console" or "json"). Console output goes to stderr
// so it never mixes with command output on stdout.
func New(level, format string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	switch format {
	case "console":
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	case "json":
		cfg.Encoding = "json"
	default:
		return nil, fmt.Errorf("invalid log format %q: want console or json", format)
	}

	return cfg.Build()
}
