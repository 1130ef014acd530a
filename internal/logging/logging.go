// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zap logger shared by every component.
//
// The terminal UI owns stdout, so logs go to a JSON file
// (~/.webterm/logs/webterm.log by default) and never to the screen.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jeranaias/webterm/internal/config"
)

// Options selects the log destination and level.
type Options struct {
	// Level is a zap level name. Empty means info.
	Level string

	// File is the log path. Empty means config.LogPath().
	File string

	// Debug forces the debug level.
	Debug bool
}

// FromConfig derives Options from the logging section.
func FromConfig(cfg config.LoggingConfig, debug bool) Options {
	return Options{Level: cfg.Level, File: cfg.File, Debug: debug}
}

// New builds a production JSON logger writing to opts.File. The parent
// directory is created with 0700.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	path := opts.File
	if path == "" {
		var err error
		path, err = config.LogPath()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	// Keep every command line; no sampling.
	cfg.Sampling = nil

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// NewOrNop is New that degrades to a no-op logger and reports why on
// stderr. The terminal should still start when the log file is unwritable.
func NewOrNop(opts Options) *zap.Logger {
	logger, err := New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		return zap.NewNop()
	}
	return logger
}
