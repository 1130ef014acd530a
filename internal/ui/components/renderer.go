// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/webterm/internal/commands"
	"github.com/jeranaias/webterm/internal/ui/styles"
)

// =============================================================================
// FRAGMENT RENDERER
// =============================================================================

// Renderer turns command output into styled scrollback text.
type Renderer struct {
	theme    *styles.Theme
	width    int
	markdown MarkdownRenderer
}

// NewRenderer creates a renderer for theme.
func NewRenderer(theme *styles.Theme) *Renderer {
	return &Renderer{theme: theme, width: 80}
}

// SetTheme switches the theme used for later renders.
func (r *Renderer) SetTheme(theme *styles.Theme) {
	r.theme = theme
}

// SetWidth sets the wrap width.
func (r *Renderer) SetWidth(width int) {
	if width > 0 {
		r.width = width
	}
}

// Echo renders a submitted command line after its prompt.
func (r *Renderer) Echo(prompt, line string) string {
	return r.theme.Prompt.Render(prompt) + r.theme.Echo.Render(line)
}

// Result renders every fragment of res, one block per fragment.
func (r *Renderer) Result(res commands.Result) string {
	blocks := make([]string, 0, len(res.Fragments))
	for _, f := range res.Fragments {
		if out := r.Fragment(f); out != "" {
			blocks = append(blocks, out)
		}
	}
	return strings.Join(blocks, "\n")
}

// Fragment renders one fragment according to its kind.
func (r *Renderer) Fragment(f commands.Fragment) string {
	switch f.Kind {
	case commands.KindError:
		return r.theme.Error.Render(f.Text)
	case commands.KindListing:
		return RenderListing(r.theme, f.Entries, r.width)
	case commands.KindFile:
		return RenderFile(r.theme, f.Name, f.Text)
	case commands.KindRaw:
		return r.theme.Raw.Render(strings.TrimRight(f.Text, "\n"))
	case commands.KindHelp:
		if f.Markdown != "" {
			return r.markdown.Render(f.Markdown, r.theme.GlamourStyle(), r.width)
		}
		return RenderListing(r.theme, f.Entries, r.width) + "\n" + r.theme.Text.Render(f.Text)
	default:
		return r.theme.Text.Render(f.Text)
	}
}
