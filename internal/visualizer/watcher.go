// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package visualizer

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/jeranaias/webterm/internal/vfs"
)

// DefaultDebounce is how long a watcher waits for changes to settle before
// signalling a refresh.
const DefaultDebounce = 150 * time.Millisecond

// DefaultPollInterval is the polling watcher's scan interval.
const DefaultPollInterval = time.Second

// =============================================================================
// WATCHER INTERFACE
// =============================================================================

// Watcher signals when the sandbox tree changes so the overlay can redraw.
type Watcher interface {
	// Changes receives one value per settled burst of changes.
	Changes() <-chan struct{}

	// Close stops watching and releases resources.
	Close() error
}

// Watch returns an fsnotify watcher for persistent sandboxes and a polling
// watcher otherwise.
func Watch(fsys *vfs.FileSystem, log *zap.Logger) (Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if dir := fsys.HostDir(); dir != "" {
		fw, err := NewFsnotifyWatcher(dir, DefaultDebounce, log)
		if err == nil {
			return fw, nil
		}
		log.Warn("fsnotify unavailable, falling back to polling", zap.Error(err))
	}
	return NewPollingWatcher(fsys.Afero(), DefaultPollInterval), nil
}

// notify performs a non-blocking send so bursts coalesce into one signal.
func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// =============================================================================
// FSNOTIFY WATCHER
// =============================================================================

// FsnotifyWatcher watches a host directory tree.
type FsnotifyWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	changes  chan struct{}
	log      *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	pending time.Time
}

// NewFsnotifyWatcher starts watching root and every directory below it.
func NewFsnotifyWatcher(root string, debounce time.Duration, log *zap.Logger) (*FsnotifyWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	fw := &FsnotifyWatcher{
		watcher:  watcher,
		debounce: debounce,
		changes:  make(chan struct{}, 1),
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
	if err := fw.addRecursive(root); err != nil {
		cancel()
		watcher.Close()
		return nil, err
	}

	fw.wg.Add(2)
	go fw.processEvents()
	go fw.processPending()
	return fw, nil
}

// Changes implements Watcher.
func (fw *FsnotifyWatcher) Changes() <-chan struct{} { return fw.changes }

func (fw *FsnotifyWatcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// The root must be watchable, anything below is best effort.
			if p == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := fw.watcher.Add(p); err != nil && p == dir {
			return err
		}
		return nil
	})
}

func (fw *FsnotifyWatcher) processEvents() {
	defer fw.wg.Done()
	for {
		select {
		case <-fw.ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					fw.addRecursive(event.Name)
				}
			}
			fw.mu.Lock()
			fw.pending = time.Now()
			fw.mu.Unlock()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.log.Debug("watcher error", zap.Error(err))
		}
	}
}

func (fw *FsnotifyWatcher) processPending() {
	defer fw.wg.Done()
	ticker := time.NewTicker(fw.debounce / 3)
	defer ticker.Stop()

	for {
		select {
		case <-fw.ctx.Done():
			return
		case <-ticker.C:
			fw.mu.Lock()
			ready := !fw.pending.IsZero() && time.Since(fw.pending) >= fw.debounce
			if ready {
				fw.pending = time.Time{}
			}
			fw.mu.Unlock()
			if ready {
				notify(fw.changes)
			}
		}
	}
}

// Close implements Watcher.
func (fw *FsnotifyWatcher) Close() error {
	fw.cancel()
	err := fw.watcher.Close()
	fw.wg.Wait()
	return err
}

// =============================================================================
// POLLING WATCHER
// =============================================================================

// PollingWatcher detects changes by rescanning the tree. It serves in-memory
// sandboxes, which have no host events.
type PollingWatcher struct {
	fsys     afero.Fs
	interval time.Duration
	changes  chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type fingerprint struct {
	count   int
	size    int64
	modTime time.Time
}

// NewPollingWatcher starts scanning fsys every interval.
func NewPollingWatcher(fsys afero.Fs, interval time.Duration) *PollingWatcher {
	ctx, cancel := context.WithCancel(context.Background())
	pw := &PollingWatcher{
		fsys:     fsys,
		interval: interval,
		changes:  make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
	}
	pw.wg.Add(1)
	go pw.poll()
	return pw
}

// Changes implements Watcher.
func (pw *PollingWatcher) Changes() <-chan struct{} { return pw.changes }

func (pw *PollingWatcher) poll() {
	defer pw.wg.Done()
	ticker := time.NewTicker(pw.interval)
	defer ticker.Stop()

	last := pw.scan()
	for {
		select {
		case <-pw.ctx.Done():
			return
		case <-ticker.C:
			current := pw.scan()
			if current != last {
				last = current
				notify(pw.changes)
			}
		}
	}
}

func (pw *PollingWatcher) scan() fingerprint {
	var fp fingerprint
	afero.Walk(pw.fsys, "/", func(_ string, info fs.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		fp.count++
		if !info.IsDir() {
			fp.size += info.Size()
		}
		if info.ModTime().After(fp.modTime) {
			fp.modTime = info.ModTime()
		}
		return nil
	})
	return fp
}

// Close implements Watcher.
func (pw *PollingWatcher) Close() error {
	pw.cancel()
	pw.wg.Wait()
	return nil
}
