// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PALETTES
// =============================================================================

// Palette is the set of colors one theme is drawn with.
type Palette struct {
	Background lipgloss.Color
	Foreground lipgloss.Color

	// Dim is used for secondary text, borders and the flicker frame
	Dim lipgloss.Color

	// Accent is used for the prompt and selections
	Accent lipgloss.Color

	Dir   lipgloss.Color
	Error lipgloss.Color

	// Surface is the overlay and popup background
	Surface lipgloss.Color
}

// DefaultPalette is green phosphor on black.
var DefaultPalette = Palette{
	Background: lipgloss.Color("#050A05"),
	Foreground: lipgloss.Color("#33FF66"),
	Dim:        lipgloss.Color("#1E8C3A"),
	Accent:     lipgloss.Color("#B6FFC8"),
	Dir:        lipgloss.Color("#3DA5FF"),
	Error:      lipgloss.Color("#FF5F5F"),
	Surface:    lipgloss.Color("#0F1F12"),
}

// CreamPalette is dark ink on paper.
var CreamPalette = Palette{
	Background: lipgloss.Color("#FFF8E7"),
	Foreground: lipgloss.Color("#3B2F2F"),
	Dim:        lipgloss.Color("#9C8A78"),
	Accent:     lipgloss.Color("#A0522D"),
	Dir:        lipgloss.Color("#1F5FA6"),
	Error:      lipgloss.Color("#B00020"),
	Surface:    lipgloss.Color("#F3E9D2"),
}

// themeSpec ties a palette to the chroma and glamour styles that suit it.
type themeSpec struct {
	palette Palette
	chroma  string
	glamour string
	dark    bool
}

var themes = map[string]themeSpec{
	"default": {palette: DefaultPalette, chroma: "monokai", glamour: "dark", dark: true},
	"cream":   {palette: CreamPalette, chroma: "solarized-light", glamour: "light", dark: false},
}

// DefaultThemeName is used for unknown names.
const DefaultThemeName = "default"

// Names lists the theme names in display order.
func Names() []string {
	return []string{"default", "cream"}
}

// IsTheme reports whether name is a known theme.
func IsTheme(name string) bool {
	_, ok := themes[name]
	return ok
}
