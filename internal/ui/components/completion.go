// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/webterm/internal/commands"
	"github.com/jeranaias/webterm/internal/ui/styles"
	"github.com/jeranaias/webterm/internal/util"
)

// =============================================================================
// COMPLETION POPUP COMPONENT
// =============================================================================

// CompletionPopup displays the candidates of a completion state.
type CompletionPopup struct {
	maxVisible int
	width      int
	theme      *styles.Theme
}

// NewCompletionPopup creates a new completion popup.
func NewCompletionPopup(theme *styles.Theme) *CompletionPopup {
	return &CompletionPopup{
		maxVisible: 8,
		width:      40,
		theme:      theme,
	}
}

// SetTheme switches the popup's theme.
func (c *CompletionPopup) SetTheme(theme *styles.Theme) { c.theme = theme }

// SetWidth sets the popup width.
func (c *CompletionPopup) SetWidth(width int) {
	c.width = max(width, 20)
}

// SetMaxVisible sets the maximum number of visible completions.
func (c *CompletionPopup) SetMaxVisible(n int) {
	c.maxVisible = max(n, 1)
}

// View renders the popup, or "" when nothing is visible.
func (c *CompletionPopup) View(state *commands.CompletionState) string {
	if state == nil || !state.Visible || len(state.Completions) == 0 {
		return ""
	}
	comps := state.Completions

	// Scrolling window centered on the selection
	start, end := 0, len(comps)
	if len(comps) > c.maxVisible {
		start = max(state.Selected-c.maxVisible/2, 0)
		end = start + c.maxVisible
		if end > len(comps) {
			end = len(comps)
			start = end - c.maxVisible
		}
	}

	items := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		items = append(items, c.renderItem(comps[i], i == state.Selected))
	}
	if len(comps) > c.maxVisible {
		items = append(items, c.theme.CompletionDesc.Render(fmt.Sprintf("%d/%d", state.Selected+1, len(comps))))
	}

	return c.theme.CompletionPopup.
		Width(c.width).
		Render(strings.Join(items, "\n"))
}

func (c *CompletionPopup) renderItem(comp commands.Completion, selected bool) string {
	valueWidth := min(20, c.width/2)

	value := comp.Display
	if value == "" {
		value = comp.Value
	}
	value = util.TruncateWidth(value, valueWidth)
	desc := util.TruncateWidth(comp.Description, max(c.width-valueWidth-4, 0))

	valueStyle := c.theme.CompletionItem.Width(valueWidth)
	indicator := "  "
	if selected {
		valueStyle = c.theme.CompletionSelected.Width(valueWidth)
		indicator = "> "
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		c.theme.CompletionDesc.Render(indicator),
		valueStyle.Render(value),
		" ",
		c.theme.CompletionDesc.Render(desc),
	)
}
