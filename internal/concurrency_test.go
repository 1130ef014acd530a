// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Race detection tests for webterm.
//
// Run with: go test -race -v ./internal/...
//
// The UI runs every command in its own tea.Cmd goroutine while the
// visualizer worker walks the same sandbox, so these tests hammer the
// shared pieces from many goroutines at once.
package internal

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/webterm/internal/commands"
	"github.com/jeranaias/webterm/internal/config"
	"github.com/jeranaias/webterm/internal/session"
	"github.com/jeranaias/webterm/internal/storage"
	"github.com/jeranaias/webterm/internal/vfs"
	"github.com/jeranaias/webterm/internal/visualizer"
)

// =============================================================================
// TEST CONFIGURATION
// =============================================================================

const (
	// Number of concurrent goroutines for race tests
	raceConcurrency = 50
	// Number of iterations per goroutine
	raceIterations = 20
	// Timeout for race tests
	raceTimeout = 30 * time.Second
)

// =============================================================================
// CONFIG CONCURRENCY TESTS
// =============================================================================

// TestConcurrency_ConfigGlobalAccess reads the global config while other
// goroutines replace it.
func TestConcurrency_ConfigGlobalAccess(t *testing.T) {
	t.Setenv(config.HomeEnv, t.TempDir())
	config.ResetGlobalForTesting()
	t.Cleanup(config.ResetGlobalForTesting)

	ctx, cancel := context.WithTimeout(context.Background(), raceTimeout)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < raceConcurrency; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < raceIterations && ctx.Err() == nil; j++ {
				cfg := config.Global()
				if cfg == nil {
					t.Error("Global() returned nil")
					return
				}
				_ = cfg.Terminal.Title
				_ = cfg.Filesystem.QuotaBytes
			}
		}()
		go func(idx int) {
			defer wg.Done()
			for j := 0; j < raceIterations/5 && ctx.Err() == nil; j++ {
				cfg := config.Default()
				cfg.Terminal.Title = fmt.Sprintf("term-%d", idx)
				config.SetGlobal(cfg)
			}
		}(i)
	}
	wg.Wait()
}

// =============================================================================
// DISPATCHER CONCURRENCY TESTS
// =============================================================================

// TestConcurrency_ParallelCommands runs commands from many goroutines, each
// in its own directory, against one sandbox and one quota.
func TestConcurrency_ParallelCommands(t *testing.T) {
	fsys := vfs.NewMemory(vfs.Options{Quota: 1 << 20})
	d := commands.NewDispatcher(session.New(fsys), commands.Options{})
	ctx, cancel := context.WithTimeout(context.Background(), raceTimeout)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < raceConcurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			dir := fmt.Sprintf("/w%d", idx)
			lines := []string{
				"mkdir " + dir,
				fmt.Sprintf("mkdir -p %s/a/b", dir),
				fmt.Sprintf("mv %s/a %s/c", dir, dir),
				fmt.Sprintf("rmdir %s/c/b", dir),
				"ls",
				"pwd",
			}
			for _, line := range lines {
				res := d.Dispatch(ctx, line)
				for _, f := range res.Fragments {
					if f.Kind == commands.KindError {
						t.Errorf("%q: %s", line, f.Text)
					}
				}
			}
		}(i)
	}
	wg.Wait()

	reader, err := fsys.Root().CreateReader()
	if err != nil {
		t.Fatalf("CreateReader failed: %v", err)
	}
	total := 0
	for {
		batch, err := reader.ReadEntries(context.Background())
		if err != nil {
			t.Fatalf("ReadEntries failed: %v", err)
		}
		if len(batch) == 0 {
			break
		}
		total += len(batch)
	}
	if total != raceConcurrency {
		t.Errorf("root has %d entries, want %d", total, raceConcurrency)
	}
}

// TestConcurrency_PendingCommandsAndCd interleaves queued commands with cd,
// the way a fast typist drives the UI.
func TestConcurrency_PendingCommandsAndCd(t *testing.T) {
	fsys := vfs.NewMemory(vfs.Options{})
	d := commands.NewDispatcher(session.New(fsys), commands.Options{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < raceConcurrency; i++ {
		cmd := d.Cmd(ctx, fmt.Sprintf("mkdir -p /p%d", i))
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = cmd()
		}()
		go func() {
			defer wg.Done()
			_ = d.Dispatch(ctx, "cd /")
			_ = d.Session().GetStatus()
		}()
	}
	wg.Wait()

	for i := 0; i < raceConcurrency; i++ {
		if _, err := fsys.Root().GetDirectory(ctx, fmt.Sprintf("p%d", i), vfs.Flags{}); err != nil {
			t.Errorf("p%d missing: %v", i, err)
		}
	}
}

// TestConcurrency_QuotaUnderContention copies one file from many goroutines
// into a sandbox with room for only some of the copies.
func TestConcurrency_QuotaUnderContention(t *testing.T) {
	ctx := context.Background()
	fsys := vfs.NewMemory(vfs.Options{Quota: 100})
	src, err := fsys.Root().GetFile(ctx, "src.txt", vfs.Flags{Create: true})
	if err != nil {
		t.Fatalf("GetFile failed: %v", err)
	}
	if err := src.Write(ctx, []byte("0123456789")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var wg sync.WaitGroup
	var copied int64
	for i := 0; i < raceConcurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			if _, err := src.CopyTo(ctx, fsys.Root(), fmt.Sprintf("copy%d.txt", idx)); err == nil {
				atomic.AddInt64(&copied, 1)
			} else if vfs.CodeOf(err) != vfs.CodeQuotaExceeded {
				t.Errorf("copy %d: %v", idx, err)
			}
		}(i)
	}
	wg.Wait()

	// The source plus nine copies fill the quota exactly
	if copied != 9 {
		t.Errorf("%d copies succeeded, want 9", copied)
	}
	if fsys.Usage() != 100 {
		t.Errorf("Usage() = %d, want 100", fsys.Usage())
	}
}

// =============================================================================
// VISUALIZER CONCURRENCY TESTS
// =============================================================================

// TestConcurrency_WalkerDuringWrites snapshots the tree while commands
// modify it.
func TestConcurrency_WalkerDuringWrites(t *testing.T) {
	fsys := vfs.NewMemory(vfs.Options{})
	worker := visualizer.NewWorker(fsys, zap.NewNop())
	defer worker.Close()
	d := commands.NewDispatcher(session.New(fsys), commands.Options{Walker: worker})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < raceConcurrency; i++ {
		wg.Add(2)
		go func(idx int) {
			defer wg.Done()
			d.Dispatch(ctx, fmt.Sprintf("mkdir -p /v%d/inner", idx))
		}(i)
		go func() {
			defer wg.Done()
			_, err := worker.Do(ctx, visualizer.Request{Cmd: visualizer.CmdRead, Type: fsys.Type(), Size: fsys.Quota()})
			if err != nil {
				t.Errorf("read failed: %v", err)
			}
		}()
	}
	wg.Wait()

	resp, err := worker.Do(ctx, visualizer.Request{Cmd: visualizer.CmdRead, Type: fsys.Type(), Size: fsys.Quota()})
	if err != nil {
		t.Fatalf("final read failed: %v", err)
	}
	if got := resp.Entries.Count(); got != raceConcurrency*2 {
		t.Errorf("Count() = %d, want %d", got, raceConcurrency*2)
	}
}

// =============================================================================
// STORAGE CONCURRENCY TESTS
// =============================================================================

func TestConcurrency_PrefsAccess(t *testing.T) {
	prefs, err := storage.Open(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer prefs.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < raceConcurrency; i++ {
		wg.Add(2)
		go func(idx int) {
			defer wg.Done()
			name := "default"
			if idx%2 == 0 {
				name = "cream"
			}
			if err := prefs.SetTheme(ctx, name); err != nil {
				t.Errorf("SetTheme failed: %v", err)
			}
		}(i)
		go func() {
			defer wg.Done()
			if _, err := prefs.Theme(ctx); err != nil {
				t.Errorf("Theme failed: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := prefs.Theme(ctx)
	if err != nil {
		t.Fatalf("Theme failed: %v", err)
	}
	if got != "default" && got != "cream" {
		t.Errorf("Theme() = %q", got)
	}
}
