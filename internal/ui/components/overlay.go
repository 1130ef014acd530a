// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/webterm/internal/ui/styles"
	"github.com/jeranaias/webterm/internal/visualizer"
)

// OverlayTitle heads the visualizer box.
const OverlayTitle = "3D visualizer"

// RenderOverlay draws the visualizer: the sandbox tree, or msg while no tree
// has arrived. The box is clipped to width x height.
func RenderOverlay(theme *styles.Theme, tree *visualizer.Node, msg string, showSizes bool, width, height int) string {
	var body string
	switch {
	case tree != nil:
		body = visualizer.Render(tree, theme.TreeStyles(showSizes))
		body += "\n\n" + theme.ShortcutDesc.Render(fmt.Sprintf("%d entries", tree.Count()))
	case msg != "":
		body = theme.Text.Render(msg)
	default:
		body = theme.ShortcutDesc.Render("Reading filesystem...")
	}
	if msg != "" && tree != nil {
		body += "\n" + theme.Text.Render(msg)
	}

	content := theme.OverlayTitle.Render(OverlayTitle) + "\n\n" + body

	// Border (2) and vertical padding (2) take four lines
	if height > 4 {
		lines := strings.Split(content, "\n")
		if len(lines) > height-4 {
			lines = append(lines[:height-5], theme.ShortcutDesc.Render("..."))
			content = strings.Join(lines, "\n")
		}
	}

	box := theme.Overlay
	if width > 0 {
		box = box.MaxWidth(width)
	}
	return lipgloss.NewStyle().MarginLeft(1).Render(box.Render(content))
}
