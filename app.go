// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/webterm/internal/commands"
	"github.com/jeranaias/webterm/internal/config"
	"github.com/jeranaias/webterm/internal/fetch"
	"github.com/jeranaias/webterm/internal/importer"
	"github.com/jeranaias/webterm/internal/install"
	"github.com/jeranaias/webterm/internal/session"
	"github.com/jeranaias/webterm/internal/storage"
	"github.com/jeranaias/webterm/internal/vfs"
	"github.com/jeranaias/webterm/internal/visualizer"
)

// =============================================================================
// APPLICATION WIRING
// =============================================================================

// app holds the collaborators shared by both front ends.
type app struct {
	cfg        *config.Config
	log        *zap.Logger
	fsys       *vfs.FileSystem
	sess       *session.Session
	prefs      *storage.Prefs     // nil when the database cannot be opened
	worker     *visualizer.Worker
	watcher    visualizer.Watcher // nil when no watcher could be started
	importer   *importer.Importer
	dispatcher *commands.Dispatcher
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger, version string) (*app, error) {
	fsys, err := openSandbox(cfg.Filesystem, log)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:  cfg,
		log:  log,
		fsys: fsys,
		sess: session.New(fsys),
	}

	if dir, err := config.ConfigDir(); err == nil {
		prefs, err := storage.Open(filepath.Join(dir, "prefs.db"))
		if err != nil {
			log.Warn("preferences unavailable, theme will not persist", zap.Error(err))
		} else {
			a.prefs = prefs
		}
	}

	var fetcher *fetch.Client
	if cfg.Network.Enabled {
		fetcher = fetch.New(fetch.Options{
			Timeout:           time.Duration(cfg.Network.TimeoutSecs) * time.Second,
			MaxBytes:          cfg.Network.MaxBytes,
			RequestsPerSecond: cfg.Network.RequestsPerSecond,
			Burst:             cfg.Network.Burst,
			MaxRedirects:      cfg.Network.MaxRedirects,
			UserAgent:         cfg.Network.UserAgent,
		})
	}
	a.importer = importer.New(importer.Options{
		Fetcher:  fetcher,
		MaxBytes: cfg.Filesystem.ImportMaxBytes,
		Logger:   log,
	})

	inst := install.New(log)
	inst.BinDir = cfg.Install.BinDir

	a.worker = visualizer.NewWorker(fsys, log)
	if w, err := visualizer.Watch(fsys, log); err != nil {
		log.Warn("filesystem watcher unavailable", zap.Error(err))
	} else {
		a.watcher = w
	}

	opts := commands.Options{
		Title:     cfg.Terminal.Title,
		Author:    cfg.Terminal.Author,
		Version:   version,
		Opener:    commands.SystemOpener{},
		Installer: inst,
		Walker:    a.worker,
		Importer:  a.importer,
		Logger:    log,
	}
	// Nil pointers must not become non-nil interfaces
	if fetcher != nil {
		opts.Fetcher = fetcher
	}
	if a.prefs != nil {
		opts.Themes = a.prefs
	}
	a.dispatcher = commands.NewDispatcher(a.sess, opts)

	log.Debug("application wired",
		zap.String("session", a.sess.ID()),
		zap.String("filesystem", fsys.Type().String()),
		zap.String("host_dir", fsys.HostDir()),
		zap.Int64("quota", fsys.Quota()),
		zap.Bool("network", fetcher != nil))
	return a, nil
}

// openSandbox builds the filesystem selected by cfg.
func openSandbox(cfg config.FilesystemConfig, log *zap.Logger) (*vfs.FileSystem, error) {
	opts := vfs.Options{
		Quota:     cfg.QuotaBytes,
		BatchSize: cfg.ReaderBatchSize,
		ReadOnly:  cfg.ReadOnly,
		Logger:    log,
	}
	if !cfg.Persistent {
		return vfs.NewMemory(opts), nil
	}

	root := cfg.Root
	if root == "" {
		dir, err := config.SandboxDir()
		if err != nil {
			return nil, err
		}
		root = dir
	}
	fsys, err := vfs.NewOS(root, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open sandbox %s: %w", root, err)
	}
	return fsys, nil
}

// theme returns the stored theme, or the configured default.
func (a *app) theme(ctx context.Context) string {
	if a.prefs != nil {
		if name, ok, err := a.prefs.Get(ctx, storage.ThemeKey); err == nil && ok {
			return name
		}
	}
	return a.cfg.UI.DefaultTheme
}

// importAtStart copies rawURL into the sandbox root.
func (a *app) importAtStart(ctx context.Context, rawURL string) error {
	entry, err := a.importer.Import(ctx, a.fsys.Root(), rawURL)
	if err != nil {
		return fmt.Errorf("%s: %w", rawURL, err)
	}
	a.log.Info("imported at startup", zap.String("url", rawURL), zap.String("path", entry.FullPath()))
	return nil
}

// Close stops background work and closes the preferences database.
func (a *app) Close() {
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	a.worker.Close()
	if a.prefs != nil {
		_ = a.prefs.Close()
	}
}
