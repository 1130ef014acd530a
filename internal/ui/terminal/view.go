// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jeranaias/webterm/internal/ui/components"
	"github.com/jeranaias/webterm/internal/ui/styles"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the output area, the prompt line and the status bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	body := m.viewport.View()
	if m.overlay {
		box := components.RenderOverlay(m.theme, m.tree, m.treeMsg, m.showSizes, m.width-2, m.viewport.Height)
		body = lipgloss.Place(m.width, m.viewport.Height, lipgloss.Center, lipgloss.Center, box)
	}
	body = overlayBottom(body, m.popup.View(m.completion))

	frame := lipgloss.JoinVertical(lipgloss.Left,
		body,
		m.input.View(),
		m.status.View(),
	)

	if m.flicker && styles.FlickerDim(m.flickerStep) {
		return m.theme.Flicker.Render(ansi.Strip(frame))
	}
	return frame
}

// overlayBottom replaces the last lines of body with popup.
func overlayBottom(body, popup string) string {
	if popup == "" {
		return body
	}
	lines := strings.Split(body, "\n")
	popupLines := strings.Split(popup, "\n")
	if len(popupLines) >= len(lines) {
		return popup
	}
	lines = append(lines[:len(lines)-len(popupLines)], popupLines...)
	return strings.Join(lines, "\n")
}
