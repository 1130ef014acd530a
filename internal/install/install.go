// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package install copies the running terminal binary into the user's bin
// directory so it can be launched by name.
package install

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"

	"github.com/jeranaias/webterm/internal/util"
)

// DefaultName is the installed binary name, without extension.
const DefaultName = "webterm"

// ErrInsufficientSpace is returned when the bin directory cannot hold the
// binary.
var ErrInsufficientSpace = errors.New("insufficient disk space")

// Result describes a finished install.
type Result struct {
	// AlreadyInstalled is set when the binary was already in place.
	AlreadyInstalled bool

	// Path is the installed binary.
	Path string
}

// Installer copies an executable into BinDir.
type Installer struct {
	// BinDir is the destination directory (default: ~/.local/bin, or
	// %LOCALAPPDATA%\Programs\webterm on Windows)
	BinDir string

	// Name is the binary name without extension (default: webterm)
	Name string

	// Executable returns the source binary (default: os.Executable)
	Executable func() (string, error)

	// FreeSpace reports available bytes at a path (default: the host's
	// filesystem statistics)
	FreeSpace func(path string) (uint64, error)

	Logger *zap.Logger
}

// New returns an installer with default settings.
func New(log *zap.Logger) *Installer {
	return &Installer{Logger: log}
}

// DefaultBinDir returns the per-user binary directory for this platform.
func DefaultBinDir() (string, error) {
	if runtime.GOOS == "windows" {
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, "Programs", DefaultName), nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "bin"), nil
}

// Target returns the path the binary is installed to.
func (i *Installer) Target() (string, error) {
	dir := i.BinDir
	if dir == "" {
		var err error
		if dir, err = DefaultBinDir(); err != nil {
			return "", err
		}
	}
	name := i.Name
	if name == "" {
		name = DefaultName
	}
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(dir, name), nil
}

// Installed reports whether a binary already exists at the target.
func (i *Installer) Installed() bool {
	target, err := i.Target()
	if err != nil {
		return false
	}
	info, err := os.Stat(target)
	return err == nil && info.Mode().IsRegular()
}

// Install copies the executable to the target unless it is already there.
func (i *Installer) Install(ctx context.Context) (Result, error) {
	log := i.Logger
	if log == nil {
		log = zap.NewNop()
	}

	target, err := i.Target()
	if err != nil {
		return Result{}, err
	}
	if i.Installed() {
		return Result{AlreadyInstalled: true, Path: target}, nil
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	executable := i.Executable
	if executable == nil {
		executable = os.Executable
	}
	src, err := executable()
	if err != nil {
		return Result{}, fmt.Errorf("failed to locate executable: %w", err)
	}
	info, err := os.Stat(src)
	if err != nil {
		return Result{}, fmt.Errorf("failed to stat executable: %w", err)
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Result{}, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	freeSpace := i.FreeSpace
	if freeSpace == nil {
		freeSpace = getFreeDiskSpace
	}
	if free, err := freeSpace(dir); err == nil && free < uint64(info.Size()) {
		return Result{}, fmt.Errorf("%w: need %d bytes, %d available", ErrInsufficientSpace, info.Size(), free)
	}

	if err := copyFile(src, target); err != nil {
		return Result{}, fmt.Errorf("failed to copy binary: %w", err)
	}

	log.Info("installed binary", zap.String("source", src), zap.String("target", target))
	return Result{Path: target}, nil
}

// copyFile copies src to dst atomically and marks the result executable.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	return util.AtomicWriteReader(dst, sourceFile, 0755)
}
