// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/webterm/internal/vfs"
)

// intoDirNoCreate lists destinations that cp/mv never create.
var intoDirNoCreate = []string{".", "./", "..", "../", "/"}

// =============================================================================
// LISTING AND NAVIGATION
// =============================================================================

func (d *Dispatcher) ls(ctx context.Context, cwd *vfs.Entry, res *Result) {
	reader, err := cwd.CreateReader()
	if err != nil {
		res.add(faultError(err))
		return
	}

	var entries []*vfs.Entry
	for {
		batch, err := reader.ReadEntries(ctx)
		if err != nil {
			res.add(faultError(err))
			return
		}
		if len(batch) == 0 {
			break
		}
		entries = append(entries, batch...)
	}
	if len(entries) == 0 {
		return
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	listing := Fragment{Kind: KindListing}
	for _, e := range entries {
		listing.Entries = append(listing.Entries, ListEntry{Name: e.Name(), IsDir: e.IsDirectory()})
	}
	res.add(listing)
}

func (d *Dispatcher) cd(ctx context.Context, cwd *vfs.Entry, c *CdCmd, res *Result) {
	// Absolute paths start at the root so a session whose working
	// directory was removed can still leave it.
	base := cwd
	if strings.HasPrefix(c.Path, "/") {
		base = cwd.Filesystem().Root()
	}
	dir, err := base.GetDirectory(ctx, c.Path, vfs.Flags{})
	if err != nil {
		res.add(entryError(c.Verb(), c.Path, true, err))
		return
	}
	d.session.SetCwd(dir)
	res.add(textFragment("%s", dir.FullPath()))
}

// =============================================================================
// CREATION
// =============================================================================

// eachArg runs fn for every argument concurrently and appends the
// fragments in argument order.
func eachArg(args []string, res *Result, fn func(arg string) []Fragment) {
	out := make([][]Fragment, len(args))
	var g errgroup.Group
	for i, arg := range args {
		g.Go(func() error {
			out[i] = fn(arg)
			return nil
		})
	}
	_ = g.Wait()
	for _, frags := range out {
		res.add(frags...)
	}
}

func (d *Dispatcher) mkdir(ctx context.Context, cwd *vfs.Entry, c *MkdirCmd, res *Result) {
	eachArg(c.Dirs, res, func(name string) []Fragment {
		if c.Parents {
			return mkdirParents(ctx, cwd, c.Verb(), name)
		}
		if _, err := cwd.GetDirectory(ctx, name, vfs.Flags{Create: true, Exclusive: true}); err != nil {
			return []Fragment{entryError(c.Verb(), name, true, err)}
		}
		return nil
	})
	res.Effects |= EffectTreeChanged
}

// mkdirParents creates every missing segment of name in order and stops at
// the first failure. Empty and "." segments are skipped.
func mkdirParents(ctx context.Context, cwd *vfs.Entry, verb, name string) []Fragment {
	dir := cwd
	if strings.HasPrefix(name, "/") {
		dir = cwd.Filesystem().Root()
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == "" || seg == "." {
			continue
		}
		next, err := dir.GetDirectory(ctx, seg, vfs.Flags{Create: true})
		if err != nil {
			return []Fragment{entryError(verb, name, true, err)}
		}
		dir = next
	}
	return nil
}

// =============================================================================
// COPY AND MOVE
// =============================================================================

func (d *Dispatcher) transfer(ctx context.Context, cwd *vfs.Entry, c *TransferCmd, res *Result) {
	verb := c.Verb()
	run := func(src, dir *vfs.Entry, name string) {
		var err error
		if c.Move {
			_, err = src.MoveTo(ctx, dir, name)
		} else {
			_, err = src.CopyTo(ctx, dir, name)
		}
		if err != nil {
			res.add(faultError(err))
			return
		}
		res.Effects |= EffectTreeChanged
	}

	if !strings.HasSuffix(c.Dest, "/") {
		src, err := cwd.GetFile(ctx, c.Src, vfs.Flags{})
		if err != nil {
			res.add(entryError(verb, c.Src, false, err))
			return
		}
		run(src, cwd, c.Dest)
		return
	}

	// Into-directory form: the source may be a directory or a file.
	if srcDir, err := cwd.GetDirectory(ctx, c.Src, vfs.Flags{}); err == nil {
		create := !slices.Contains(intoDirNoCreate, c.Dest)
		destDir, err := cwd.GetDirectory(ctx, c.Dest, vfs.Flags{Create: create})
		if err != nil {
			res.add(entryError(verb, c.Dest, true, err))
			return
		}
		run(srcDir, destDir, "")
		return
	}

	src, err := cwd.GetFile(ctx, c.Src, vfs.Flags{})
	if err != nil {
		res.add(entryError(verb, c.Src, false, err))
		return
	}
	// A missing target directory is never created for a file source.
	destDir, err := cwd.GetDirectory(ctx, c.Dest, vfs.Flags{})
	if err != nil {
		res.add(faultError(err))
		return
	}
	run(src, destDir, "")
}

// =============================================================================
// REMOVAL
// =============================================================================

func (d *Dispatcher) rm(ctx context.Context, cwd *vfs.Entry, c *RmCmd, res *Result) {
	verb := c.Verb()
	eachArg(c.Files, res, func(name string) []Fragment {
		file, err := cwd.GetFile(ctx, name, vfs.Flags{})
		if err == nil {
			if err := file.Remove(ctx); err != nil {
				return []Fragment{faultError(err)}
			}
			return nil
		}
		if vfs.CodeOf(err) != vfs.CodeTypeMismatch || !c.Recursive {
			return []Fragment{entryError(verb, name, false, err)}
		}

		dir, err := cwd.GetDirectory(ctx, name, vfs.Flags{})
		if err != nil {
			return []Fragment{entryError(verb, name, true, err)}
		}
		if err := dir.RemoveRecursively(ctx); err != nil {
			return []Fragment{faultError(err)}
		}
		return nil
	})
	res.Effects |= EffectTreeChanged
}

func (d *Dispatcher) rmdir(ctx context.Context, cwd *vfs.Entry, c *RmdirCmd, res *Result) {
	verb := c.Verb()
	eachArg(c.Dirs, res, func(name string) []Fragment {
		dir, err := cwd.GetDirectory(ctx, name, vfs.Flags{})
		if err != nil {
			return []Fragment{entryError(verb, name, true, err)}
		}
		if dir.FullPath() == "/" {
			return []Fragment{faultError(vfs.ErrInvalidModification)}
		}
		if err := dir.Remove(ctx); err != nil {
			if vfs.CodeOf(err) == vfs.CodeInvalidModification {
				return []Fragment{errorFragment("%s: %s: Directory not empty", verb, name)}
			}
			return []Fragment{faultError(err)}
		}
		return nil
	})
	res.Effects |= EffectTreeChanged
}

// =============================================================================
// FILE CONTENT
// =============================================================================

func (d *Dispatcher) cat(ctx context.Context, cwd *vfs.Entry, c *CatCmd, res *Result) {
	file, err := cwd.GetFile(ctx, c.Path, vfs.Flags{})
	if err != nil {
		res.add(entryError(c.Verb(), c.Path, false, err))
		return
	}
	text, err := file.ReadText(ctx)
	if err != nil {
		res.add(faultError(err))
		return
	}
	res.add(Fragment{Kind: KindFile, Name: file.Name(), Text: text})
}

func (d *Dispatcher) open(ctx context.Context, cwd *vfs.Entry, c *OpenCmd, res *Result) {
	file, err := cwd.GetFile(ctx, c.Path, vfs.Flags{})
	if err != nil {
		res.add(entryError(c.Verb(), c.Path, false, err))
		return
	}
	if d.opts.Opener == nil {
		res.add(errorFragment("%s: no viewer available", c.Verb()))
		return
	}

	target, err := d.hostCopy(ctx, file)
	if err != nil {
		res.add(errorFragment("%s: %s: %v", c.Verb(), c.Path, err))
		return
	}
	if err := d.opts.Opener.Open(ctx, target); err != nil {
		res.add(errorFragment("%s: %s: %v", c.Verb(), c.Path, err))
	}
}

// hostCopy returns a host path holding the file's content. Persistent
// sandboxes already have one; in-memory files are written to TempDir.
func (d *Dispatcher) hostCopy(ctx context.Context, file *vfs.Entry) (string, error) {
	if p, ok := file.Filesystem().HostPath(file); ok {
		return p, nil
	}
	text, err := file.ReadText(ctx)
	if err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(d.opts.TempDir, "webterm-*-"+file.Name())
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tmp.Close()
	if _, err := tmp.WriteString(text); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	return tmp.Name(), nil
}

func (d *Dispatcher) importURLs(ctx context.Context, cwd *vfs.Entry, c *ImportCmd, res *Result) {
	verb := c.Verb()
	if d.opts.Importer == nil {
		res.add(errorFragment("%s: importing is not available", verb))
		return
	}
	eachArg(c.URLs, res, func(rawURL string) []Fragment {
		if _, err := d.opts.Importer.Import(ctx, cwd, rawURL); err != nil {
			var fault *vfs.Fault
			if errors.As(err, &fault) {
				return []Fragment{entryError(verb, rawURL, false, err)}
			}
			return []Fragment{errorFragment("%s: %s: %v", verb, rawURL, err)}
		}
		return nil
	})
	res.Effects |= EffectTreeChanged
}
