// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package importer

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/jeranaias/webterm/internal/fetch"
	"github.com/jeranaias/webterm/internal/vfs"
)

func readText(t *testing.T, e *vfs.Entry) string {
	t.Helper()
	text, err := e.ReadText(context.Background())
	require.NoError(t, err)
	return text
}

func TestImport_MemURL(t *testing.T) {
	ctx := context.Background()
	src := "mem://localhost/webterm-import/notes.txt"
	require.NoError(t, afs.New().Upload(ctx, src, file.DefaultFileOsMode, bytes.NewReader([]byte("remember"))))

	fsys := vfs.NewMemory(vfs.Options{})
	imp := New(Options{})

	entry, err := imp.Import(ctx, fsys.Root(), src)
	require.NoError(t, err)
	assert.Equal(t, "/notes.txt", entry.FullPath())
	assert.Equal(t, "remember", readText(t, entry))
	assert.Equal(t, int64(8), fsys.Usage())
}

func TestImport_HostPath(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "local.md")
	require.NoError(t, os.WriteFile(src, []byte("# local"), 0644))

	fsys := vfs.NewMemory(vfs.Options{})
	sub, err := fsys.Root().GetDirectory(context.Background(), "docs", vfs.Flags{Create: true})
	require.NoError(t, err)

	entry, err := New(Options{}).Import(context.Background(), sub, src)
	require.NoError(t, err)
	assert.Equal(t, "/docs/local.md", entry.FullPath())
	assert.Equal(t, "# local", readText(t, entry))
}

func TestImport_ExistingTarget(t *testing.T) {
	ctx := context.Background()
	src := "mem://localhost/webterm-import/dup.txt"
	require.NoError(t, afs.New().Upload(ctx, src, file.DefaultFileOsMode, bytes.NewReader([]byte("x"))))

	fsys := vfs.NewMemory(vfs.Options{})
	imp := New(Options{})
	_, err := imp.Import(ctx, fsys.Root(), src)
	require.NoError(t, err)

	_, err = imp.Import(ctx, fsys.Root(), src)
	assert.Equal(t, vfs.CodeInvalidModification, vfs.CodeOf(err))
}

func TestImport_Missing(t *testing.T) {
	fsys := vfs.NewMemory(vfs.Options{})
	_, err := New(Options{}).Import(context.Background(), fsys.Root(), "mem://localhost/webterm-import/none.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestImport_TooLarge(t *testing.T) {
	ctx := context.Background()
	src := "mem://localhost/webterm-import/big.bin"
	require.NoError(t, afs.New().Upload(ctx, src, file.DefaultFileOsMode, bytes.NewReader(make([]byte, 64))))

	fsys := vfs.NewMemory(vfs.Options{})
	_, err := New(Options{MaxBytes: 16}).Import(ctx, fsys.Root(), src)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestImport_QuotaRollsBack(t *testing.T) {
	ctx := context.Background()
	src := "mem://localhost/webterm-import/quota.txt"
	require.NoError(t, afs.New().Upload(ctx, src, file.DefaultFileOsMode, bytes.NewReader(make([]byte, 32))))

	fsys := vfs.NewMemory(vfs.Options{Quota: 8})
	_, err := New(Options{}).Import(ctx, fsys.Root(), src)
	assert.Equal(t, vfs.CodeQuotaExceeded, vfs.CodeOf(err))

	_, err = fsys.Root().GetFile(ctx, "quota.txt", vfs.Flags{})
	assert.Equal(t, vfs.CodeNotFound, vfs.CodeOf(err))
}

func TestImport_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/page.html" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, "<p>hi</p>")
	}))
	defer srv.Close()

	fsys := vfs.NewMemory(vfs.Options{})
	imp := New(Options{Fetcher: fetch.New(fetch.Options{})})

	entry, err := imp.Import(context.Background(), fsys.Root(), srv.URL+"/files/page.html")
	require.NoError(t, err)
	assert.Equal(t, "/page.html", entry.FullPath())
	assert.Equal(t, "<p>hi</p>", readText(t, entry))

	_, err = imp.Import(context.Background(), fsys.Root(), srv.URL+"/files/gone.html")
	assert.EqualError(t, err, "404 Not Found")
}

func TestImport_HTTPDisabled(t *testing.T) {
	fsys := vfs.NewMemory(vfs.Options{})
	_, err := New(Options{}).Import(context.Background(), fsys.Root(), "http://example.com/a.txt")
	assert.EqualError(t, err, "network access is disabled")
}

func TestImport_NoName(t *testing.T) {
	fsys := vfs.NewMemory(vfs.Options{})
	_, err := New(Options{}).Import(context.Background(), fsys.Root(), "mem://localhost/")
	assert.Error(t, err)
}
