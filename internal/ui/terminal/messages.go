// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/webterm/internal/commands"
	"github.com/jeranaias/webterm/internal/ui/styles"
	"github.com/jeranaias/webterm/internal/vfs"
	"github.com/jeranaias/webterm/internal/visualizer"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// TreeMsg delivers a visualizer snapshot or status message.
type TreeMsg struct {
	Response visualizer.Response
	Err      error
}

// ChangedMsg reports that the sandbox changed on disk.
type ChangedMsg struct{}

// ProbeMsg carries the startup filesystem check.
type ProbeMsg struct {
	Result commands.Result
}

// MagicWordMsg is one beat of the magic word loop.
type MagicWordMsg struct{}

// FlickerMsg advances the screen flicker animation.
type FlickerMsg struct{}

// SpinnerMsg advances the status bar spinner while commands run.
type SpinnerMsg struct{}

// =============================================================================
// COMMANDS
// =============================================================================

// ReadTreeCmd asks the walker for a snapshot of fsys.
func ReadTreeCmd(ctx context.Context, walker commands.TreeWalker, fsys *vfs.FileSystem) tea.Cmd {
	return func() tea.Msg {
		resp, err := walker.Do(ctx, visualizer.Request{
			Cmd:  visualizer.CmdRead,
			Type: fsys.Type(),
			Size: fsys.Quota(),
		})
		return TreeMsg{Response: resp, Err: err}
	}
}

// WaitForChangeCmd blocks until the watcher reports a change. Returns nil
// once the watcher is closed.
func WaitForChangeCmd(w visualizer.Watcher) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-w.Changes(); !ok {
			return nil
		}
		return ChangedMsg{}
	}
}

// ProbeCmd runs the startup write check.
func ProbeCmd(ctx context.Context, d *commands.Dispatcher) tea.Cmd {
	return func() tea.Msg {
		return ProbeMsg{Result: d.Probe(ctx)}
	}
}

// BellCmd writes a BEL byte to w.
func BellCmd(w io.Writer) tea.Cmd {
	return func() tea.Msg {
		_, _ = io.WriteString(w, "\a")
		return nil
	}
}

func magicWordTick() tea.Cmd {
	return tea.Tick(styles.MagicWordInterval, func(time.Time) tea.Msg {
		return MagicWordMsg{}
	})
}

func flickerTick() tea.Cmd {
	return tea.Tick(styles.FlickerInterval, func(time.Time) tea.Msg {
		return FlickerMsg{}
	})
}

func spinnerTick() tea.Cmd {
	return tea.Tick(styles.LineSpinner.Duration(), func(time.Time) tea.Msg {
		return SpinnerMsg{}
	})
}
