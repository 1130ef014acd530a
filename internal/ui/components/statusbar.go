// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/webterm/internal/ui/styles"
	"github.com/jeranaias/webterm/internal/visualizer"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar shows where the session is and what the sandbox holds.
type StatusBar struct {
	theme *styles.Theme
	width int

	Cwd    string
	FSType string
	Usage  int64
	Quota  int64

	// Busy is the number of commands still running
	Busy  int
	Frame int

	Flicker bool
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme, Cwd: "/"}
}

// SetTheme switches the bar's theme.
func (s *StatusBar) SetTheme(theme *styles.Theme) { s.theme = theme }

// SetWidth sets the bar width.
func (s *StatusBar) SetWidth(width int) { s.width = width }

// View renders the bar on a single line.
func (s *StatusBar) View() string {
	t := s.theme

	left := []string{t.ShortcutKey.Render(s.Cwd)}
	if s.FSType != "" {
		usage := visualizer.HumanSize(s.Usage)
		if s.Quota > 0 {
			usage += " / " + visualizer.HumanSize(s.Quota)
		}
		left = append(left, t.ShortcutDesc.Render(s.FSType+" "+usage))
	}
	if s.Busy > 0 {
		left = append(left, t.ShortcutKey.Render(styles.LineSpinner.Frame(s.Frame)))
	}

	hints := []string{
		t.ShortcutKey.Render("Tab") + " " + t.ShortcutDesc.Render("complete"),
		t.ShortcutKey.Render("^S") + " " + t.ShortcutDesc.Render(flickerLabel(s.Flicker)),
		t.ShortcutKey.Render("^C") + " " + t.ShortcutDesc.Render("quit"),
	}

	leftStr := strings.Join(left, "  ")
	rightStr := strings.Join(hints, "  ")

	inner := s.width - 2
	gap := inner - lipgloss.Width(leftStr) - lipgloss.Width(rightStr)
	if gap < 1 {
		// Drop the hints before squeezing the path
		rightStr = ""
		gap = max(inner-lipgloss.Width(leftStr), 0)
	}

	bar := t.StatusBar
	if s.width > 0 {
		bar = bar.Width(s.width).MaxWidth(s.width)
	}
	return bar.Render(leftStr + strings.Repeat(" ", gap) + rightStr)
}

func flickerLabel(on bool) string {
	if on {
		return "flicker on"
	}
	return "flicker off"
}
