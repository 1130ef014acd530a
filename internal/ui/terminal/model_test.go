// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/jeranaias/webterm/internal/commands"
	"github.com/jeranaias/webterm/internal/session"
	"github.com/jeranaias/webterm/internal/ui/components"
	"github.com/jeranaias/webterm/internal/vfs"
	"github.com/jeranaias/webterm/internal/visualizer"
)

// =============================================================================
// HELPERS
// =============================================================================

type harness struct {
	m    Model
	d    *commands.Dispatcher
	fsys *vfs.FileSystem
	bell *bytes.Buffer
}

func newHarness(t *testing.T, walker commands.TreeWalker) *harness {
	t.Helper()
	fsys := vfs.NewMemory(vfs.Options{Quota: 1 << 20})
	d := commands.NewDispatcher(session.New(fsys), commands.Options{
		Title:  "webterm",
		Author: "Morgan Forge",
		Walker: walker,
	})
	bell := &bytes.Buffer{}
	m := New(Options{Dispatcher: d, Walker: walker, Bell: bell, Logger: zap.NewNop()})
	h := &harness{m: m, d: d, fsys: fsys, bell: bell}
	h.send(tea.WindowSizeMsg{Width: 100, Height: 30})
	return h
}

// send feeds msg to Update and returns the resulting command.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

func (h *harness) typeText(s string) {
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) key(t tea.KeyType) tea.Cmd {
	return h.send(tea.KeyMsg{Type: t})
}

// run dispatches line synchronously and delivers the result.
func (h *harness) run(line string) tea.Cmd {
	return h.send(commands.ResultMsg{Line: line, Result: h.d.Dispatch(context.Background(), line)})
}

// drain executes cmd and every command it batches, returning the messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func find[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// =============================================================================
// TESTS
// =============================================================================

func TestNew_PrintsWelcome(t *testing.T) {
	h := newHarness(t, nil)
	out := h.m.Output()
	assert.Contains(t, out, "Welcome to webterm! (v1.0.0)")
	assert.Contains(t, out, `Documentation: type "help"`)
}

func TestView_BeforeResize(t *testing.T) {
	fsys := vfs.NewMemory(vfs.Options{})
	d := commands.NewDispatcher(session.New(fsys), commands.Options{})
	m := New(Options{Dispatcher: d})
	assert.Equal(t, "Initializing...", m.View())
	assert.NotNil(t, m.Init())
}

func TestSubmit_EchoesAndDispatches(t *testing.T) {
	h := newHarness(t, nil)
	h.typeText("mkdir docs")
	cmd := h.key(tea.KeyEnter)
	require.NotNil(t, cmd)

	assert.Equal(t, 1, h.m.Busy())
	assert.Empty(t, h.m.Input())
	assert.Contains(t, h.m.Output(), "$> mkdir docs")
	assert.Equal(t, []string{"mkdir docs"}, h.d.Session().History().Entries())

	res, ok := find[commands.ResultMsg](drain(cmd))
	require.True(t, ok)
	h.send(res)
	assert.Equal(t, 0, h.m.Busy())

	h.run("ls")
	assert.Contains(t, h.m.Output(), "docs")
}

func TestSubmit_EmptyLineOnlyEchoes(t *testing.T) {
	h := newHarness(t, nil)
	cmd := h.key(tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.Equal(t, 0, h.m.Busy())
	assert.True(t, strings.HasSuffix(h.m.Output(), "$> "))
}

func TestResult_UnknownVerb(t *testing.T) {
	h := newHarness(t, nil)
	h.run("frobnicate")
	assert.Contains(t, h.m.Output(), "frobnicate: command not found")
}

func TestResult_Clear(t *testing.T) {
	h := newHarness(t, nil)
	h.run("pwd")
	h.run("clear")
	assert.Empty(t, h.m.Output())
}

func TestResult_Theme(t *testing.T) {
	h := newHarness(t, nil)
	assert.Equal(t, "default", h.m.Theme().Name)

	h.run("theme cream")
	assert.Equal(t, "cream", h.m.Theme().Name)

	h.run("theme neon")
	assert.Equal(t, "cream", h.m.Theme().Name)
	assert.Contains(t, h.m.Output(), "Error - Unrecognized theme used")
}

func TestMagicWordLoop(t *testing.T) {
	h := newHarness(t, nil)

	cmd := h.run("sudo rm -rf /")
	assert.True(t, h.m.MagicWord())
	require.NotNil(t, cmd)

	msgs := drain(cmd)
	assert.Equal(t, "\a", h.bell.String())
	_, ok := find[MagicWordMsg](msgs)
	require.True(t, ok)

	next := h.send(MagicWordMsg{})
	assert.NotNil(t, next)
	assert.Contains(t, h.m.Output(), commands.MagicWordLine)

	h.run("exit")
	assert.False(t, h.m.MagicWord())
	assert.Nil(t, h.send(MagicWordMsg{}))

	// A second sudo restarts the loop
	cmd = h.run("sudo")
	assert.True(t, h.m.MagicWord())
	assert.NotNil(t, cmd)
}

func TestVisualizerOverlay(t *testing.T) {
	defer goleak.VerifyNone(t)

	fsys := vfs.NewMemory(vfs.Options{Quota: 1 << 20})
	worker := visualizer.NewWorker(fsys, zap.NewNop())
	defer worker.Close()

	d := commands.NewDispatcher(session.New(fsys), commands.Options{Title: "webterm", Walker: worker})
	m := New(Options{Dispatcher: d, Walker: worker, Bell: &bytes.Buffer{}})
	h := &harness{m: m, d: d, fsys: fsys}
	h.send(tea.WindowSizeMsg{Width: 100, Height: 30})

	h.run("mkdir docs")
	cmd := h.run("3d")
	assert.True(t, h.m.OverlayVisible())
	assert.Equal(t, "Hold on to your butts!", h.m.Output())

	tree, ok := find[TreeMsg](drain(cmd))
	require.True(t, ok)
	require.NoError(t, tree.Err)
	h.send(tree)

	view := h.m.View()
	assert.Contains(t, view, components.OverlayTitle)
	assert.Contains(t, view, "docs")

	// init seeds content and refreshes the open overlay
	cmd = h.run("init")
	_, ok = find[TreeMsg](drain(cmd))
	assert.True(t, ok)

	h.run("3d")
	assert.False(t, h.m.OverlayVisible())
	assert.NotContains(t, h.m.View(), components.OverlayTitle)
}

func TestVisualizerOverlay_NoWalker(t *testing.T) {
	h := newHarness(t, nil)
	cmd := h.run("3d")
	assert.Nil(t, cmd)
	assert.True(t, h.m.OverlayVisible())
	assert.Contains(t, h.m.View(), "The visualizer is not running.")
}

func TestExitClosesOverlay(t *testing.T) {
	h := newHarness(t, nil)
	h.run("3d")
	require.True(t, h.m.OverlayVisible())
	h.run("exit")
	assert.False(t, h.m.OverlayVisible())
}

func TestFlickerToggle(t *testing.T) {
	h := newHarness(t, nil)

	cmd := h.key(tea.KeyCtrlS)
	assert.True(t, h.m.Flicker())
	assert.NotNil(t, cmd)
	assert.Contains(t, h.m.Output(), "Screen flicker: on")

	assert.NotNil(t, h.send(FlickerMsg{}))

	cmd = h.key(tea.KeyCtrlS)
	assert.False(t, h.m.Flicker())
	assert.Nil(t, cmd)
	assert.Contains(t, h.m.Output(), "Screen flicker: off")
	assert.Nil(t, h.send(FlickerMsg{}))
}

func TestBackspaceOnEmptyLineRingsBell(t *testing.T) {
	h := newHarness(t, nil)
	cmd := h.key(tea.KeyBackspace)
	require.NotNil(t, cmd)
	drain(cmd)
	assert.Equal(t, "\a", h.bell.String())

	h.typeText("l")
	h.bell.Reset()
	h.key(tea.KeyBackspace)
	assert.Empty(t, h.m.Input())
	assert.Empty(t, h.bell.String())
}

func TestHistoryNavigation(t *testing.T) {
	h := newHarness(t, nil)
	for _, line := range []string{"ls", "pwd"} {
		h.typeText(line)
		h.key(tea.KeyEnter)
	}

	h.typeText("da")
	h.key(tea.KeyUp)
	assert.Equal(t, "pwd", h.m.Input())
	h.key(tea.KeyUp)
	assert.Equal(t, "ls", h.m.Input())
	h.key(tea.KeyDown)
	assert.Equal(t, "pwd", h.m.Input())
	h.key(tea.KeyDown)
	assert.Equal(t, "da", h.m.Input())
}

func TestTabCompletion_Single(t *testing.T) {
	h := newHarness(t, nil)
	h.typeText("pw")
	h.key(tea.KeyTab)
	assert.Equal(t, "pwd ", h.m.Input())
	assert.False(t, h.m.Completion().Visible)
}

func TestTabCompletion_Popup(t *testing.T) {
	h := newHarness(t, nil)
	h.typeText("c")
	h.key(tea.KeyTab)
	require.True(t, h.m.Completion().Visible)
	assert.Greater(t, len(h.m.Completion().Completions), 1)

	first := h.m.Completion().Completions[0].Value
	assert.Contains(t, h.m.View(), h.m.Completion().Completions[0].Description)

	h.key(tea.KeyEnter)
	assert.False(t, h.m.Completion().Visible)
	assert.Equal(t, first, h.m.Input())
	assert.Equal(t, 0, h.m.Busy())
}

func TestTabCompletion_NoMatchRingsBell(t *testing.T) {
	h := newHarness(t, nil)
	h.typeText("zz")
	drain(h.key(tea.KeyTab))
	assert.Equal(t, "\a", h.bell.String())
}

func TestProbeMsg(t *testing.T) {
	h := newHarness(t, nil)
	before := h.m.Output()
	h.send(ProbeMsg{})
	assert.Equal(t, before, h.m.Output())

	h.send(ProbeMsg{Result: commands.Result{Fragments: []commands.Fragment{
		{Kind: commands.KindError, Text: "ERROR: Write access to the FileSystem is unavailable."},
	}}})
	assert.Contains(t, h.m.Output(), "Write access to the FileSystem is unavailable")
}

func TestScrollbackIsBounded(t *testing.T) {
	h := newHarness(t, nil)
	h.run("sudo")
	for i := 0; i < maxEntries+20; i++ {
		h.send(MagicWordMsg{})
	}
	assert.Len(t, h.m.entries, maxEntries)
	assert.Len(t, h.m.rendered, maxEntries)
}

func TestOverlayBottom(t *testing.T) {
	assert.Equal(t, "a\nb\nc", overlayBottom("a\nb\nc", ""))
	assert.Equal(t, "a\nX\nY", overlayBottom("a\nb\nc", "X\nY"))
	assert.Equal(t, "X\nY\nZ", overlayBottom("a\nb", "X\nY\nZ"))
}
