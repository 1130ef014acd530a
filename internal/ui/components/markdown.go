// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// MarkdownRenderer wraps a glamour renderer and rebuilds it when the style
// or width changes.
type MarkdownRenderer struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	style    string
	width    int
}

// Render renders md with the given glamour standard style and wrap width.
// Returns md unchanged if the renderer cannot be built.
func (m *MarkdownRenderer) Render(md, style string, width int) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.renderer == nil || m.style != style || m.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		m.renderer, m.style, m.width = r, style, width
	}

	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
