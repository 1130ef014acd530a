// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package install

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeBinary(t *testing.T) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "webterm-build")
	require.NoError(t, os.WriteFile(src, []byte("#!/bin/sh\necho hi\n"), 0755))
	return src
}

func newTestInstaller(t *testing.T, src string) *Installer {
	return &Installer{
		BinDir:     filepath.Join(t.TempDir(), "bin"),
		Executable: func() (string, error) { return src, nil },
		FreeSpace:  func(string) (uint64, error) { return 1 << 30, nil },
	}
}

func TestInstall_CopiesBinary(t *testing.T) {
	src := fakeBinary(t)
	inst := newTestInstaller(t, src)

	res, err := inst.Install(context.Background())
	require.NoError(t, err)
	assert.False(t, res.AlreadyInstalled)

	want := filepath.Join(inst.BinDir, "webterm")
	if runtime.GOOS == "windows" {
		want += ".exe"
	}
	assert.Equal(t, want, res.Path)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho hi\n", string(data))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(res.Path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	}
}

func TestInstall_AlreadyInstalled(t *testing.T) {
	inst := newTestInstaller(t, fakeBinary(t))

	_, err := inst.Install(context.Background())
	require.NoError(t, err)
	assert.True(t, inst.Installed())

	res, err := inst.Install(context.Background())
	require.NoError(t, err)
	assert.True(t, res.AlreadyInstalled)
}

func TestInstall_InsufficientSpace(t *testing.T) {
	inst := newTestInstaller(t, fakeBinary(t))
	inst.FreeSpace = func(string) (uint64, error) { return 1, nil }

	_, err := inst.Install(context.Background())
	assert.ErrorIs(t, err, ErrInsufficientSpace)
	assert.False(t, inst.Installed())
}

func TestInstall_CancelledContext(t *testing.T) {
	inst := newTestInstaller(t, fakeBinary(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := inst.Install(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTarget_CustomName(t *testing.T) {
	inst := &Installer{BinDir: "/opt/bin", Name: "term"}
	target, err := inst.Target()
	require.NoError(t, err)
	if runtime.GOOS == "windows" {
		assert.Equal(t, filepath.Join("/opt/bin", "term.exe"), target)
	} else {
		assert.Equal(t, "/opt/bin/term", target)
	}
}

func TestGetFreeDiskSpace(t *testing.T) {
	free, err := getFreeDiskSpace(t.TempDir())
	require.NoError(t, err)
	assert.Greater(t, free, uint64(0))
}
