// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/webterm/internal/visualizer"
)

// Theme holds all the styled components for the terminal.
type Theme struct {
	Name    string
	Palette Palette
	IsDark  bool

	// Terminal capabilities
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	chroma  string
	glamour string

	// ==========================================================================
	// OUTPUT
	// ==========================================================================

	App   lipgloss.Style
	Text  lipgloss.Style
	Error lipgloss.Style
	Dir   lipgloss.Style
	File  lipgloss.Style
	// Raw is the wget response body
	Raw lipgloss.Style
	// Echo is a previous command line in the scrollback
	Echo lipgloss.Style

	CodeLineNum lipgloss.Style
	CodeHeader  lipgloss.Style

	// ==========================================================================
	// INPUT
	// ==========================================================================

	Prompt      lipgloss.Style
	Input       lipgloss.Style
	Placeholder lipgloss.Style

	// ==========================================================================
	// STATUS BAR
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// VISUALIZER OVERLAY
	// ==========================================================================

	Overlay        lipgloss.Style
	OverlayTitle   lipgloss.Style
	TreeRoot       lipgloss.Style
	TreeDir        lipgloss.Style
	TreeFile       lipgloss.Style
	TreeEnumerator lipgloss.Style

	// ==========================================================================
	// COMPLETION POPUP
	// ==========================================================================

	CompletionPopup    lipgloss.Style
	CompletionItem     lipgloss.Style
	CompletionSelected lipgloss.Style
	CompletionDesc     lipgloss.Style

	// Flicker replaces Text on alternate frames while screen flicker is on
	Flicker lipgloss.Style
}

// NewTheme creates a theme by name. Unknown names fall back to the default
// theme.
func NewTheme(name string) *Theme {
	def, ok := themes[name]
	if !ok {
		name = DefaultThemeName
		def = themes[name]
	}

	t := &Theme{
		Name:         name,
		Palette:      def.palette,
		IsDark:       def.dark,
		ColorProfile: termenv.ColorProfile(),
		chroma:       def.chroma,
		glamour:      def.glamour,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles from the palette.
func (t *Theme) initStyles() {
	p := t.Palette

	t.App = lipgloss.NewStyle().
		Background(p.Background).
		Foreground(p.Foreground)

	t.Text = lipgloss.NewStyle().Foreground(p.Foreground)
	t.Error = lipgloss.NewStyle().Foreground(p.Error).Bold(true)
	t.Dir = lipgloss.NewStyle().Foreground(p.Dir).Bold(true)
	t.File = lipgloss.NewStyle().Foreground(p.Foreground)
	t.Raw = lipgloss.NewStyle().Foreground(p.Dim)
	t.Echo = lipgloss.NewStyle().Foreground(p.Accent)

	t.CodeLineNum = lipgloss.NewStyle().
		Foreground(p.Dim).
		Width(4).
		Align(lipgloss.Right).
		MarginRight(1)

	t.CodeHeader = lipgloss.NewStyle().
		Foreground(p.Background).
		Background(p.Dim).
		Padding(0, 1).
		Bold(true)

	// Input
	t.Prompt = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)
	t.Input = lipgloss.NewStyle().Foreground(p.Foreground)
	t.Placeholder = lipgloss.NewStyle().Foreground(p.Dim).Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(p.Surface).
		Foreground(p.Dim).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(p.Dim)

	// Visualizer overlay
	t.Overlay = lipgloss.NewStyle().
		Background(p.Surface).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		Padding(1, 2)

	t.OverlayTitle = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)
	t.TreeRoot = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)
	t.TreeDir = lipgloss.NewStyle().Foreground(p.Dir).Bold(true)
	t.TreeFile = lipgloss.NewStyle().Foreground(p.Foreground)
	t.TreeEnumerator = lipgloss.NewStyle().Foreground(p.Dim).PaddingRight(1)

	// Completion popup
	t.CompletionPopup = lipgloss.NewStyle().
		Background(p.Surface).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Dim).
		Padding(0, 1)

	t.CompletionItem = lipgloss.NewStyle().Foreground(p.Foreground)
	t.CompletionSelected = lipgloss.NewStyle().
		Background(p.Accent).
		Foreground(p.Background).
		Bold(true)
	t.CompletionDesc = lipgloss.NewStyle().Foreground(p.Dim).Italic(true)

	t.Flicker = lipgloss.NewStyle().Foreground(p.Dim)
}

// SetSize updates the theme dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// ChromaStyle names the syntax highlighting style for cat.
func (t *Theme) ChromaStyle() string { return t.chroma }

// GlamourStyle names the glamour standard style for help.
func (t *Theme) GlamourStyle() string { return t.glamour }

// TreeStyles returns the visualizer render styles for this theme.
func (t *Theme) TreeStyles(showSizes bool) visualizer.Styles {
	return visualizer.Styles{
		Root:       t.TreeRoot,
		Dir:        t.TreeDir,
		File:       t.TreeFile,
		Enumerator: t.TreeEnumerator,
		ShowSizes:  showSizes,
	}
}
