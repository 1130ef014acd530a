// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package vfs provides the sandboxed filesystem the terminal operates on.
//
// A FileSystem wraps an afero.Fs and exposes entry handles (directories and
// files) whose operations report categorized faults instead of host errors.
// Two backends are provided:
//   - Temporary: an in-memory filesystem that disappears with the process
//   - Persistent: a directory on the host, jailed with afero.BasePathFs
//
// All paths inside the sandbox are slash separated and rooted at "/".
package vfs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Type identifies the storage backend of a FileSystem.
type Type int

const (
	// Temporary filesystems live in memory.
	Temporary Type = iota
	// Persistent filesystems are backed by a host directory.
	Persistent
)

func (t Type) String() string {
	if t == Persistent {
		return "persistent"
	}
	return "temporary"
}

// DefaultBatchSize is the number of entries a DirReader returns per batch.
const DefaultBatchSize = 10

// MaxNameLength is the longest path segment the sandbox accepts, in bytes.
const MaxNameLength = 255

// ProbeDirName is the directory created and removed by Probe.
const ProbeDirName = "testquotaforfsfolder"

// Options configures a FileSystem.
type Options struct {
	// Quota is the maximum total size of file content in bytes.
	// Zero means unlimited.
	Quota int64

	// BatchSize is the number of entries returned per ReadEntries call.
	BatchSize int

	// ReadOnly rejects every modification with a security fault.
	ReadOnly bool

	Logger *zap.Logger
}

// FileSystem is a sandboxed filesystem with quota accounting.
type FileSystem struct {
	// mu serializes compound operations (lookup then mutate) and guards used.
	mu sync.Mutex

	fs      afero.Fs
	typ     Type
	hostDir string
	quota   int64
	batch   int
	used    int64
	log     *zap.Logger
}

// New wraps an arbitrary afero filesystem. Existing file content counts
// against the quota.
func New(base afero.Fs, typ Type, opts Options) (*FileSystem, error) {
	if opts.ReadOnly {
		base = afero.NewReadOnlyFs(base)
	}
	f := &FileSystem{
		fs:    base,
		typ:   typ,
		quota: opts.Quota,
		batch: opts.BatchSize,
		log:   opts.Logger,
	}
	if f.batch <= 0 {
		f.batch = DefaultBatchSize
	}
	if f.log == nil {
		f.log = zap.NewNop()
	}

	used, err := treeSize(f.fs, "/")
	if err != nil {
		return nil, fmt.Errorf("failed to measure filesystem usage: %w", err)
	}
	f.used = used
	return f, nil
}

// NewMemory returns an empty temporary filesystem.
func NewMemory(opts Options) *FileSystem {
	f, err := New(afero.NewMemMapFs(), Temporary, opts)
	if err != nil {
		// An empty MemMapFs always measures cleanly.
		panic(err)
	}
	return f
}

// NewOS returns a persistent filesystem jailed inside root, which is created
// if it does not exist.
func NewOS(root string, opts Options) (*FileSystem, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sandbox root: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sandbox root: %w", err)
	}
	f, err := New(afero.NewBasePathFs(afero.NewOsFs(), abs), Persistent, opts)
	if err != nil {
		return nil, err
	}
	f.hostDir = abs
	return f, nil
}

// Type returns the backend type.
func (f *FileSystem) Type() Type { return f.typ }

// Quota returns the configured quota in bytes (0 = unlimited).
func (f *FileSystem) Quota() int64 { return f.quota }

// Usage returns the bytes of file content currently stored.
func (f *FileSystem) Usage() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.used
}

// Afero exposes the underlying filesystem for read-only walkers.
func (f *FileSystem) Afero() afero.Fs { return f.fs }

// HostDir returns the host directory backing a persistent filesystem, or ""
// for temporary ones.
func (f *FileSystem) HostDir() string { return f.hostDir }

// Root returns the root directory entry.
func (f *FileSystem) Root() *Entry {
	return &Entry{fsys: f, path: "/", dir: true}
}

// HostPath returns the host location of an entry when the backend is
// persistent.
func (f *FileSystem) HostPath(e *Entry) (string, bool) {
	if f.hostDir == "" || e == nil {
		return "", false
	}
	return filepath.Join(f.hostDir, filepath.FromSlash(e.path)), true
}

// Probe checks that the filesystem accepts writes by creating and removing
// a scratch directory at the root. A full quota is reported as
// QUOTA_EXCEEDED.
func (f *FileSystem) Probe(ctx context.Context) error {
	f.mu.Lock()
	full := f.quota > 0 && f.used >= f.quota
	f.mu.Unlock()
	if full {
		return newFault(CodeQuotaExceeded, "probe", "/"+ProbeDirName)
	}

	dir, err := f.Root().GetDirectory(ctx, ProbeDirName, Flags{Create: true})
	if err != nil {
		return err
	}
	return dir.Remove(ctx)
}

// =============================================================================
// QUOTA ACCOUNTING (callers hold mu)
// =============================================================================

func (f *FileSystem) reserve(op, p string, delta int64) error {
	if f.quota > 0 && f.used+delta > f.quota {
		f.log.Warn("quota exceeded",
			zap.String("op", op),
			zap.String("path", p),
			zap.Int64("used", f.used),
			zap.Int64("requested", delta),
			zap.Int64("quota", f.quota))
		return newFault(CodeQuotaExceeded, op, p)
	}
	return nil
}

func (f *FileSystem) account(delta int64) {
	f.used += delta
	if f.used < 0 {
		f.used = 0
	}
}

// treeSize sums the size of every regular file under root.
func treeSize(fsys afero.Fs, root string) (int64, error) {
	var total int64
	err := afero.Walk(fsys, root, func(_ string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total, err
}

// =============================================================================
// PATH RESOLUTION
// =============================================================================

// resolve joins p onto base. Absolute paths start at the root, ".." never
// climbs above it.
func resolve(op, base, p string) (string, error) {
	if err := validateName(op, p); err != nil {
		return "", err
	}
	if strings.HasPrefix(p, "/") {
		return path.Clean(p), nil
	}
	return path.Clean(path.Join(base, p)), nil
}

func validateName(op, p string) error {
	if strings.ContainsRune(p, 0) {
		return newFault(CodeSecurity, op, p)
	}
	for _, seg := range strings.Split(p, "/") {
		if len(seg) > MaxNameLength {
			return newFault(CodeSecurity, op, p)
		}
	}
	return nil
}

// within reports whether p is dir or lies below it.
func within(p, dir string) bool {
	if dir == "/" {
		return true
	}
	return p == dir || strings.HasPrefix(p, dir+"/")
}
