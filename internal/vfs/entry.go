// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package vfs

import (
	"context"
	"io/fs"
	"path"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Flags control lookup behavior of GetFile and GetDirectory.
type Flags struct {
	// Create makes the entry if it does not exist.
	Create bool
	// Exclusive, combined with Create, fails if the entry already exists.
	Exclusive bool
}

// Entry is a handle to a file or directory inside a FileSystem.
// A handle does not follow its entry: once the entry is removed or moved,
// operations on the handle fail with an INVALID_STATE fault.
type Entry struct {
	fsys *FileSystem
	path string
	dir  bool
}

// Name returns the last path segment. The root's name is empty.
func (e *Entry) Name() string {
	if e.path == "/" {
		return ""
	}
	return path.Base(e.path)
}

// FullPath returns the absolute sandbox path.
func (e *Entry) FullPath() string { return e.path }

// IsDirectory reports whether the entry is a directory.
func (e *Entry) IsDirectory() bool { return e.dir }

// IsFile reports whether the entry is a regular file.
func (e *Entry) IsFile() bool { return !e.dir }

// Filesystem returns the owning filesystem.
func (e *Entry) Filesystem() *FileSystem { return e.fsys }

// check verifies the entry still exists with the same kind.
func (e *Entry) check(op string) error {
	info, err := e.fsys.fs.Stat(e.path)
	if err != nil || info.IsDir() != e.dir {
		return &Fault{Code: CodeInvalidState, Op: op, Path: e.path, Err: err}
	}
	return nil
}

// =============================================================================
// LOOKUP
// =============================================================================

// GetFile resolves p relative to this directory and returns the file there.
func (e *Entry) GetFile(ctx context.Context, p string, fl Flags) (*Entry, error) {
	return e.get(ctx, "getFile", p, fl, false)
}

// GetDirectory resolves p relative to this directory and returns the
// directory there.
func (e *Entry) GetDirectory(ctx context.Context, p string, fl Flags) (*Entry, error) {
	return e.get(ctx, "getDirectory", p, fl, true)
}

func (e *Entry) get(ctx context.Context, op, p string, fl Flags, wantDir bool) (*Entry, error) {
	if err := checkContext(ctx, op, p); err != nil {
		return nil, err
	}
	if !e.dir {
		return nil, newFault(CodeTypeMismatch, op, e.path)
	}

	f := e.fsys
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := e.check(op); err != nil {
		return nil, err
	}
	target, err := resolve(op, e.path, p)
	if err != nil {
		return nil, err
	}

	info, err := f.fs.Stat(target)
	if err == nil {
		if info.IsDir() != wantDir {
			return nil, newFault(CodeTypeMismatch, op, target)
		}
		if fl.Create && fl.Exclusive {
			return nil, newFault(CodeInvalidModification, op, target)
		}
		return &Entry{fsys: f, path: target, dir: wantDir}, nil
	}
	if !fl.Create {
		return nil, translate(op, target, err)
	}

	if err := f.checkParent(op, target); err != nil {
		return nil, err
	}
	if wantDir {
		err = f.fs.Mkdir(target, 0755)
	} else {
		var file afero.File
		file, err = f.fs.Create(target)
		if err == nil {
			err = file.Close()
		}
	}
	if err != nil {
		return nil, translate(op, target, err)
	}
	f.log.Debug("created entry", zap.String("path", target), zap.Bool("dir", wantDir))
	return &Entry{fsys: f, path: target, dir: wantDir}, nil
}

// checkParent requires the parent of target to be an existing directory.
// Callers hold mu.
func (f *FileSystem) checkParent(op, target string) error {
	parent := path.Dir(target)
	info, err := f.fs.Stat(parent)
	if err != nil {
		return newFault(CodeNotFound, op, target)
	}
	if !info.IsDir() {
		return newFault(CodeTypeMismatch, op, target)
	}
	return nil
}

// Parent returns the containing directory. The root is its own parent.
func (e *Entry) Parent(ctx context.Context) (*Entry, error) {
	if err := checkContext(ctx, "getParent", e.path); err != nil {
		return nil, err
	}
	e.fsys.mu.Lock()
	defer e.fsys.mu.Unlock()
	if err := e.check("getParent"); err != nil {
		return nil, err
	}
	return &Entry{fsys: e.fsys, path: path.Dir(e.path), dir: true}, nil
}

// =============================================================================
// REMOVAL
// =============================================================================

// Remove deletes a file or an empty directory.
func (e *Entry) Remove(ctx context.Context) error {
	const op = "remove"
	if err := checkContext(ctx, op, e.path); err != nil {
		return err
	}
	f := e.fsys
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := e.check(op); err != nil {
		return err
	}
	if e.path == "/" {
		return newFault(CodeInvalidModification, op, e.path)
	}

	var size int64
	if e.dir {
		empty, err := afero.IsEmpty(f.fs, e.path)
		if err != nil {
			return translate(op, e.path, err)
		}
		if !empty {
			return newFault(CodeInvalidModification, op, e.path)
		}
	} else {
		info, err := f.fs.Stat(e.path)
		if err != nil {
			return translate(op, e.path, err)
		}
		size = info.Size()
	}

	if err := f.fs.Remove(e.path); err != nil {
		return translate(op, e.path, err)
	}
	f.account(-size)
	return nil
}

// RemoveRecursively deletes a directory and everything below it.
func (e *Entry) RemoveRecursively(ctx context.Context) error {
	const op = "removeRecursively"
	if err := checkContext(ctx, op, e.path); err != nil {
		return err
	}
	if !e.dir {
		return newFault(CodeTypeMismatch, op, e.path)
	}
	f := e.fsys
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := e.check(op); err != nil {
		return err
	}
	if e.path == "/" {
		return newFault(CodeInvalidModification, op, e.path)
	}
	return f.removeTree(op, e.path)
}

// removeTree deletes p and releases its content from the quota.
// Callers hold mu.
func (f *FileSystem) removeTree(op, p string) error {
	size, err := treeSize(f.fs, p)
	if err != nil {
		return translate(op, p, err)
	}
	if err := f.fs.RemoveAll(p); err != nil {
		return translate(op, p, err)
	}
	f.account(-size)
	return nil
}

// =============================================================================
// MOVE AND COPY
// =============================================================================

// MoveTo moves the entry into dir. newName may be empty to keep the current
// name, or a path resolved relative to dir. An existing file, or an existing
// empty directory, at the destination is replaced when the kinds match.
func (e *Entry) MoveTo(ctx context.Context, dir *Entry, newName string) (*Entry, error) {
	const op = "moveTo"
	f := e.fsys
	f.mu.Lock()
	defer f.mu.Unlock()

	dest, err := e.prepareTransfer(ctx, op, dir, newName, 0)
	if err != nil {
		return nil, err
	}
	if err := f.fs.Rename(e.path, dest); err != nil {
		return nil, translate(op, dest, err)
	}
	f.log.Debug("moved entry", zap.String("from", e.path), zap.String("to", dest))
	return &Entry{fsys: f, path: dest, dir: e.dir}, nil
}

// CopyTo copies the entry (recursively for directories) into dir, with the
// same naming and replacement rules as MoveTo.
func (e *Entry) CopyTo(ctx context.Context, dir *Entry, newName string) (*Entry, error) {
	const op = "copyTo"
	f := e.fsys
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := e.check(op); err != nil {
		return nil, err
	}
	size, err := treeSize(f.fs, e.path)
	if err != nil {
		return nil, translate(op, e.path, err)
	}
	dest, err := e.prepareTransfer(ctx, op, dir, newName, size)
	if err != nil {
		return nil, err
	}
	if err := f.copyTree(ctx, op, e.path, dest); err != nil {
		return nil, err
	}
	f.log.Debug("copied entry", zap.String("from", e.path), zap.String("to", dest))
	return &Entry{fsys: f, path: dest, dir: e.dir}, nil
}

// prepareTransfer validates a move or copy, reserves need bytes of quota and
// clears a replaceable destination. Callers hold mu.
func (e *Entry) prepareTransfer(ctx context.Context, op string, dir *Entry, newName string, need int64) (string, error) {
	f := e.fsys
	if err := checkContext(ctx, op, e.path); err != nil {
		return "", err
	}
	if err := e.check(op); err != nil {
		return "", err
	}
	if dir == nil || !dir.dir {
		return "", newFault(CodeTypeMismatch, op, e.path)
	}
	if err := dir.check(op); err != nil {
		return "", err
	}
	if e.path == "/" {
		return "", newFault(CodeInvalidModification, op, e.path)
	}

	name := newName
	if name == "" {
		name = e.Name()
	}
	dest, err := resolve(op, dir.path, name)
	if err != nil {
		return "", err
	}
	if dest == e.path || dest == "/" {
		return "", newFault(CodeInvalidModification, op, dest)
	}
	if e.dir && within(dest, e.path) {
		return "", newFault(CodeInvalidModification, op, dest)
	}
	if err := f.checkParent(op, dest); err != nil {
		return "", err
	}

	info, err := f.fs.Stat(dest)
	if err != nil {
		if err := f.reserve(op, dest, need); err != nil {
			return "", err
		}
		return dest, nil
	}
	if info.IsDir() != e.dir {
		return "", newFault(CodeInvalidModification, op, dest)
	}
	if info.IsDir() {
		empty, err := afero.IsEmpty(f.fs, dest)
		if err != nil {
			return "", translate(op, dest, err)
		}
		if !empty {
			return "", newFault(CodeInvalidModification, op, dest)
		}
	}
	var replaced int64
	if !info.IsDir() {
		replaced = info.Size()
	}
	if err := f.reserve(op, dest, need-replaced); err != nil {
		return "", err
	}
	if err := f.removeTree(op, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// copyTree copies src to dst. Callers hold mu and have reserved quota.
func (f *FileSystem) copyTree(ctx context.Context, op, src, dst string) error {
	if err := checkContext(ctx, op, src); err != nil {
		return err
	}
	info, err := f.fs.Stat(src)
	if err != nil {
		return translate(op, src, err)
	}

	if !info.IsDir() {
		data, err := afero.ReadFile(f.fs, src)
		if err != nil {
			return translate(op, src, err)
		}
		if err := afero.WriteFile(f.fs, dst, data, 0644); err != nil {
			return translate(op, dst, err)
		}
		f.account(int64(len(data)))
		return nil
	}

	if err := f.fs.Mkdir(dst, 0755); err != nil {
		return translate(op, dst, err)
	}
	children, err := afero.ReadDir(f.fs, src)
	if err != nil {
		return translate(op, src, err)
	}
	for _, child := range children {
		if err := f.copyTree(ctx, op, path.Join(src, child.Name()), path.Join(dst, child.Name())); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// CONTENT
// =============================================================================

// ReadText returns the content of a file.
func (e *Entry) ReadText(ctx context.Context) (string, error) {
	const op = "readAsText"
	if err := checkContext(ctx, op, e.path); err != nil {
		return "", err
	}
	if e.dir {
		return "", newFault(CodeTypeMismatch, op, e.path)
	}
	e.fsys.mu.Lock()
	defer e.fsys.mu.Unlock()

	if err := e.check(op); err != nil {
		return "", err
	}
	data, err := afero.ReadFile(e.fsys.fs, e.path)
	if err != nil {
		return "", translate(op, e.path, err)
	}
	return string(data), nil
}

// Write replaces the content of a file.
func (e *Entry) Write(ctx context.Context, data []byte) error {
	const op = "write"
	if err := checkContext(ctx, op, e.path); err != nil {
		return err
	}
	if e.dir {
		return newFault(CodeTypeMismatch, op, e.path)
	}
	f := e.fsys
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := e.check(op); err != nil {
		return err
	}
	info, err := f.fs.Stat(e.path)
	if err != nil {
		return translate(op, e.path, err)
	}
	delta := int64(len(data)) - info.Size()
	if err := f.reserve(op, e.path, delta); err != nil {
		return err
	}
	if err := afero.WriteFile(f.fs, e.path, data, 0644); err != nil {
		return translate(op, e.path, err)
	}
	f.account(delta)
	return nil
}

// Size returns the size of a file in bytes, or zero for directories.
func (e *Entry) Size(ctx context.Context) (int64, error) {
	const op = "getMetadata"
	if err := checkContext(ctx, op, e.path); err != nil {
		return 0, err
	}
	e.fsys.mu.Lock()
	defer e.fsys.mu.Unlock()
	if err := e.check(op); err != nil {
		return 0, err
	}
	if e.dir {
		return 0, nil
	}
	info, err := e.fsys.fs.Stat(e.path)
	if err != nil {
		return 0, translate(op, e.path, err)
	}
	return info.Size(), nil
}

// =============================================================================
// DIRECTORY READER
// =============================================================================

// DirReader returns the children of a directory in batches. The listing is
// snapshotted on the first call; an empty batch marks the end.
type DirReader struct {
	dir     *Entry
	batch   int
	started bool
	pending []fs.FileInfo
}

// CreateReader returns a reader over the directory's children.
func (e *Entry) CreateReader() (*DirReader, error) {
	if !e.dir {
		return nil, newFault(CodeTypeMismatch, "createReader", e.path)
	}
	return &DirReader{dir: e, batch: e.fsys.batch}, nil
}

// ReadEntries returns the next batch of entries.
func (r *DirReader) ReadEntries(ctx context.Context) ([]*Entry, error) {
	const op = "readEntries"
	if err := checkContext(ctx, op, r.dir.path); err != nil {
		return nil, err
	}
	f := r.dir.fsys
	if !r.started {
		f.mu.Lock()
		err := r.dir.check(op)
		var infos []fs.FileInfo
		if err == nil {
			infos, err = afero.ReadDir(f.fs, r.dir.path)
		}
		f.mu.Unlock()
		if err != nil {
			return nil, translate(op, r.dir.path, err)
		}
		r.pending = infos
		r.started = true
	}

	n := min(r.batch, len(r.pending))
	out := make([]*Entry, 0, n)
	for _, info := range r.pending[:n] {
		out = append(out, &Entry{
			fsys: f,
			path: path.Join(r.dir.path, info.Name()),
			dir:  info.IsDir(),
		})
	}
	r.pending = r.pending[n:]
	return out, nil
}
