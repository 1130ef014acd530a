// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package importer copies files from outside the sandbox into it.
//
// Any URL the abstract file storage understands works as a source (bare host
// paths, file://, mem://). http and https URLs go through the rate limited
// fetch client instead.
package importer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"go.uber.org/zap"

	"github.com/jeranaias/webterm/internal/fetch"
	"github.com/jeranaias/webterm/internal/vfs"
)

// DefaultMaxBytes caps a single imported file.
const DefaultMaxBytes = 10 << 20

var (
	// ErrNotFound is returned when the source does not exist.
	ErrNotFound = errors.New("source not found")

	// ErrIsDirectory is returned for directory sources.
	ErrIsDirectory = errors.New("source is a directory")

	// ErrTooLarge is returned when the source exceeds MaxBytes.
	ErrTooLarge = errors.New("source too large")
)

// Importer copies remote files into sandbox directories.
type Importer struct {
	fs       afs.Service
	fetcher  *fetch.Client
	maxBytes int64
	log      *zap.Logger
}

// Options configures an Importer.
type Options struct {
	// Fetcher handles http and https sources. Nil disables them.
	Fetcher *fetch.Client

	// MaxBytes caps a single file (default: 10 MiB)
	MaxBytes int64

	Logger *zap.Logger
}

// New creates an importer.
func New(opts Options) *Importer {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Importer{
		fs:       afs.New(),
		fetcher:  opts.Fetcher,
		maxBytes: opts.MaxBytes,
		log:      opts.Logger,
	}
}

// Import copies rawURL into dir under the URL's base name. The file must
// not already exist in dir.
func (i *Importer) Import(ctx context.Context, dir *vfs.Entry, rawURL string) (*vfs.Entry, error) {
	_, name := url.Split(rawURL, file.Scheme)
	name = strings.TrimSuffix(name, "/")
	if name == "" || name == "." || name == ".." {
		return nil, fmt.Errorf("cannot derive a file name from %q", rawURL)
	}

	data, err := i.download(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	dst, err := dir.GetFile(ctx, name, vfs.Flags{Create: true, Exclusive: true})
	if err != nil {
		return nil, err
	}
	if err := dst.Write(ctx, data); err != nil {
		// Leave nothing half-imported behind.
		_ = dst.Remove(ctx)
		return nil, err
	}

	i.log.Info("imported file",
		zap.String("source", rawURL),
		zap.String("path", dst.FullPath()),
		zap.Int("bytes", len(data)))
	return dst, nil
}

func (i *Importer) download(ctx context.Context, rawURL string) ([]byte, error) {
	lower := strings.ToLower(rawURL)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return i.downloadHTTP(ctx, rawURL)
	}

	location := url.Normalize(rawURL, file.Scheme)
	exists, err := i.fs.Exists(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to check source: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	obj, err := i.fs.Object(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to stat source: %w", err)
	}
	if obj.IsDir() {
		return nil, ErrIsDirectory
	}
	if obj.Size() > i.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, obj.Size())
	}

	data, err := i.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	return data, nil
}

func (i *Importer) downloadHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	if i.fetcher == nil {
		return nil, errors.New("network access is disabled")
	}
	resp, err := i.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return nil, fmt.Errorf("%d %s", resp.Status, resp.StatusText)
	}
	if resp.Truncated {
		return nil, ErrTooLarge
	}
	return []byte(resp.Body), nil
}
