// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/webterm/internal/commands"
	"github.com/jeranaias/webterm/internal/ui/styles"
	"github.com/jeranaias/webterm/internal/util"
)

// =============================================================================
// RESIZE
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	// Prompt line and status bar take one row each
	m.viewport.Width = msg.Width
	m.viewport.Height = max(msg.Height-2, 1)
	m.input.Width = max(msg.Width-util.StringWidth(m.prompt)-1, 1)

	m.renderer.SetWidth(msg.Width)
	m.status.SetWidth(msg.Width)
	m.popup.SetWidth(min(60, msg.Width-4))

	m.rerender()
	return m, nil
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Flicker):
		return m.toggleFlicker()

	case key.Matches(msg, m.keyMap.Clear):
		m.clearOutput()
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keyMap.Complete):
		return m.complete()

	case key.Matches(msg, m.keyMap.CompletePrev):
		if m.completion.Visible {
			m.completion.Prev()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Dismiss):
		m.completion.Clear()
		return m, nil

	case key.Matches(msg, m.keyMap.HistoryPrev):
		if m.completion.Visible {
			m.completion.Prev()
			return m, nil
		}
		m.setInput(m.sess.History().Prev(m.input.Value()))
		return m, nil

	case key.Matches(msg, m.keyMap.HistoryNext):
		if m.completion.Visible {
			m.completion.Next()
			return m, nil
		}
		m.setInput(m.sess.History().Next(m.input.Value()))
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		if m.completion.Visible {
			m.acceptCompletion()
			return m, nil
		}
		return m.submit()
	}

	if msg.Type == tea.KeyBackspace && m.input.Value() == "" {
		return m, BellCmd(m.bell)
	}

	// Typing invalidates the candidates
	m.completion.Clear()

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) setInput(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
}

// submit echoes the line and hands it to the dispatcher.
func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.Reset()
	m.sess.History().Append(strings.TrimSpace(line))
	m.appendEntry(entry{echo: true, line: line})

	cmd := m.d.Cmd(m.ctx, line)
	if cmd == nil {
		return m, nil
	}
	m.busy++
	m.refreshStatus()
	if m.spinning {
		return m, cmd
	}
	m.spinning = true
	return m, tea.Batch(cmd, spinnerTick())
}

// =============================================================================
// COMPLETION
// =============================================================================

func (m Model) complete() (tea.Model, tea.Cmd) {
	if m.completion.Visible {
		m.completion.Next()
		return m, nil
	}

	input := m.input.Value()
	comps := m.completer.Complete(m.ctx, input, m.input.Position())
	switch len(comps) {
	case 0:
		return m, BellCmd(m.bell)
	case 1:
		m.setInput(commands.Apply(input, comps[0]))
	default:
		m.completion.Update(input, comps)
	}
	return m, nil
}

func (m *Model) acceptCompletion() {
	if sel := m.completion.GetSelected(); sel != nil {
		m.setInput(commands.Apply(m.completion.OriginalInput, *sel))
	}
	m.completion.Clear()
}

// =============================================================================
// SCREEN FLICKER
// =============================================================================

func (m Model) toggleFlicker() (tea.Model, tea.Cmd) {
	m.flicker = !m.flicker
	m.status.Flicker = m.flicker
	state := "off"
	if m.flicker {
		state = "on"
	}
	m.appendEntry(entry{note: "Screen flicker: " + state})

	if !m.flicker || m.flickerRunning {
		return m, nil
	}
	m.flickerRunning = true
	return m, flickerTick()
}

// =============================================================================
// COMMAND RESULTS
// =============================================================================

func (m Model) handleResult(msg commands.ResultMsg) (tea.Model, tea.Cmd) {
	res := msg.Result
	if m.busy > 0 {
		m.busy--
	}
	m.log.Debug("command finished",
		zap.String("verb", res.Verb),
		zap.Uint("effects", uint(res.Effects)),
		zap.Int("pending", m.busy))

	if res.Has(commands.EffectClear) {
		m.clearOutput()
	}
	if res.Has(commands.EffectTheme) {
		m.applyTheme(res.Theme)
	}
	if len(res.Fragments) > 0 {
		m.appendEntry(entry{result: res})
	}
	m.refreshStatus()

	var cmds []tea.Cmd
	if res.Has(commands.EffectStopMagicWord) {
		m.magic = false
		m.overlay = false
	}
	if res.Has(commands.EffectToggleVisualizer) {
		m.overlay = !m.overlay
		if m.overlay {
			m.tree, m.treeMsg = nil, ""
			cmds = append(cmds, m.readTree())
		}
	} else if res.Has(commands.EffectTreeChanged) && m.overlay {
		cmds = append(cmds, m.readTree())
	}
	if res.Has(commands.EffectStartMagicWord) {
		m.magic = true
		if !m.magicRunning {
			m.magicRunning = true
			cmds = append(cmds, magicWordTick())
		}
	}
	if res.Has(commands.EffectBell) {
		cmds = append(cmds, BellCmd(m.bell))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleTree(msg TreeMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Err != nil:
		m.log.Warn("visualizer read failed", zap.Error(msg.Err))
		m.treeMsg = "Error: " + msg.Err.Error()
	case msg.Response.Entries != nil:
		m.tree = msg.Response.Entries
		m.treeMsg = msg.Response.Msg
	default:
		m.treeMsg = msg.Response.Msg
	}
	return m, nil
}

func (m *Model) readTree() tea.Cmd {
	if m.walker == nil {
		m.treeMsg = "The visualizer is not running."
		return nil
	}
	return ReadTreeCmd(m.ctx, m.walker, m.sess.Filesystem())
}

// =============================================================================
// THEME
// =============================================================================

func (m *Model) applyTheme(name string) {
	theme := styles.NewTheme(name)
	theme.SetSize(m.width, m.height)
	m.theme = theme
	m.renderer.SetTheme(theme)
	m.popup.SetTheme(theme)
	m.status.SetTheme(theme)
	m.styleInput()
	m.rerender()
}

func (m *Model) styleInput() {
	m.input.PromptStyle = m.theme.Prompt
	m.input.TextStyle = m.theme.Input
	m.input.PlaceholderStyle = m.theme.Placeholder
	m.input.Cursor.Style = m.theme.Prompt
}

// =============================================================================
// SCROLLBACK
// =============================================================================

func (m *Model) appendEntry(e entry) {
	m.entries = append(m.entries, e)
	m.rendered = append(m.rendered, m.renderEntry(e))
	if over := len(m.entries) - maxEntries; over > 0 {
		m.entries = append([]entry(nil), m.entries[over:]...)
		m.rendered = append([]string(nil), m.rendered[over:]...)
	}
	m.refreshViewport()
}

func (m *Model) clearOutput() {
	m.entries = nil
	m.rendered = nil
	m.refreshViewport()
}

func (m *Model) renderEntry(e entry) string {
	switch {
	case e.echo:
		return m.renderer.Echo(m.prompt, e.line)
	case e.note != "":
		return m.theme.Text.Render(e.note)
	default:
		return m.renderer.Result(e.result)
	}
}

// rerender redraws every entry after a theme or width change.
func (m *Model) rerender() {
	for i, e := range m.entries {
		m.rendered[i] = m.renderEntry(e)
	}
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	m.viewport.SetContent(strings.Join(m.rendered, "\n"))
	m.viewport.GotoBottom()
}

func (m *Model) refreshStatus() {
	fsys := m.sess.Filesystem()
	m.status.Cwd = m.sess.Cwd().FullPath()
	m.status.FSType = fsys.Type().String()
	m.status.Usage = fsys.Usage()
	m.status.Quota = fsys.Quota()
	m.status.Busy = m.busy
	m.status.Flicker = m.flicker
}

func plainScrollback(prompt string, entries []entry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		switch {
		case e.echo:
			lines = append(lines, prompt+e.line)
		case e.note != "":
			lines = append(lines, e.note)
		default:
			if text := e.result.PlainText(); text != "" {
				lines = append(lines, text)
			}
		}
	}
	return strings.Join(lines, "\n")
}
