// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jeranaias/webterm/internal/config"
	"github.com/jeranaias/webterm/internal/vfs"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.HomeEnv, home)
	for _, key := range []string{"WEBTERM_PERSISTENT", "WEBTERM_ROOT", "WEBTERM_QUOTA", "WEBTERM_THEME", "WEBTERM_OFFLINE"} {
		t.Setenv(key, "")
	}
	t.Cleanup(config.ResetGlobalForTesting)
	return home
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "webterm "+Version))
}

func TestRootCommandRejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"ls"})
	assert.Error(t, cmd.Execute())
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	isolate(t)
	root := t.TempDir()

	cfg, err := loadConfig(flags{root: root, quota: 4096})
	require.NoError(t, err)
	assert.True(t, cfg.Filesystem.Persistent)
	assert.Equal(t, root, cfg.Filesystem.Root)
	assert.Equal(t, int64(4096), cfg.Filesystem.QuotaBytes)
	assert.Same(t, cfg, config.Global())
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[terminal]\ntitle = \"myterm\"\n"), 0600))

	cfg, err := loadConfig(flags{configPath: path})
	require.NoError(t, err)
	assert.Equal(t, "myterm", cfg.Terminal.Title)
	assert.False(t, cfg.Filesystem.Persistent)
}

func TestLoadConfig_InvalidQuota(t *testing.T) {
	isolate(t)
	_, err := loadConfig(flags{quota: -1})
	assert.Error(t, err)
}

func TestNewApp_Memory(t *testing.T) {
	isolate(t)
	cfg := config.Default()
	ctx := context.Background()

	a, err := newApp(ctx, cfg, zap.NewNop(), "1.0.0")
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, vfs.Temporary, a.fsys.Type())
	require.NotNil(t, a.prefs)
	assert.Equal(t, "default", a.theme(ctx))

	res := a.dispatcher.Dispatch(ctx, "theme cream")
	assert.Empty(t, res.Fragments)
	assert.Equal(t, "cream", a.theme(ctx))

	res = a.dispatcher.Dispatch(ctx, "who")
	assert.Equal(t, "webterm - By: Morgan Forge", res.PlainText())
}

func TestNewApp_ConfiguredDefaultTheme(t *testing.T) {
	isolate(t)
	cfg := config.Default()
	cfg.UI.DefaultTheme = "cream"

	a, err := newApp(context.Background(), cfg, zap.NewNop(), "1.0.0")
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, "cream", a.theme(context.Background()))
}

func TestNewApp_Persistent(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	cfg := config.Default()
	cfg.Filesystem.Persistent = true
	cfg.Filesystem.Root = root
	ctx := context.Background()

	a, err := newApp(ctx, cfg, zap.NewNop(), "1.0.0")
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, vfs.Persistent, a.fsys.Type())
	a.dispatcher.Dispatch(ctx, "mkdir kept")
	info, err := os.Stat(filepath.Join(root, "kept"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewApp_PersistentDefaultsToSandboxDir(t *testing.T) {
	home := isolate(t)
	cfg := config.Default()
	cfg.Filesystem.Persistent = true

	a, err := newApp(context.Background(), cfg, zap.NewNop(), "1.0.0")
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, filepath.Join(home, "sandbox"), a.fsys.HostDir())
}

func TestImportAtStart(t *testing.T) {
	isolate(t)
	src := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0600))

	ctx := context.Background()
	a, err := newApp(ctx, config.Default(), zap.NewNop(), "1.0.0")
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.importAtStart(ctx, "file://"+filepath.ToSlash(src)))
	res := a.dispatcher.Dispatch(ctx, "cat notes.txt")
	assert.Equal(t, "hello", res.PlainText())

	err = a.importAtStart(ctx, "file:///does/not/exist.txt")
	assert.Error(t, err)
}
