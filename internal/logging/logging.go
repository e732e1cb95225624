/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package logging configures the zerolog logger used for deploy progress.
package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config controls how progress is logged
type Config struct {
	Output  io.Writer
	Verbose bool
	Debug   bool
	NoColor bool
}

// New creates a console logger. Progress is logged at info level and is only
// shown when Verbose is set; warnings and errors are always shown.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	writer := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.TimeOnly,
		NoColor:    cfg.NoColor,
	}

	level := zerolog.WarnLevel
	switch {
	case cfg.Debug:
		level = zerolog.DebugLevel
	case cfg.Verbose:
		level = zerolog.InfoLevel
	}

	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// WithContext attaches the logger to ctx
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// FromContext returns the logger attached to ctx, or a disabled logger
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
