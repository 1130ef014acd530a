// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/termenv"

	"github.com/jeranaias/webterm/internal/ui/styles"
)

// =============================================================================
// FILE VIEWER
// =============================================================================

// RenderFile renders cat output: a name badge, then the highlighted content
// with line numbers.
func RenderFile(theme *styles.Theme, name, text string) string {
	lexer := lexerFor(name, text)
	body := text
	if lexer != nil {
		body = HighlightFile(theme, lexer, text)
	}

	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	rendered := make([]string, 0, len(lines)+1)
	rendered = append(rendered, theme.CodeHeader.Render(name))
	for i, line := range lines {
		rendered = append(rendered, theme.CodeLineNum.Render(fmt.Sprint(i+1))+line)
	}
	return strings.Join(rendered, "\n")
}

// lexerFor picks a lexer by file name, then by content. Plain text gets nil
// so it is printed untouched.
func lexerFor(name, text string) chroma.Lexer {
	lexer := lexers.Match(name)
	if lexer == nil {
		lexer = lexers.Analyse(text)
	}
	if lexer == nil || lexer.Config().Name == "plaintext" {
		return nil
	}
	return lexer
}

// HighlightFile applies syntax highlighting with the theme's chroma style.
// Returns the original text if highlighting fails.
func HighlightFile(theme *styles.Theme, lexer chroma.Lexer, text string) string {
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get(theme.ChromaStyle())
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get(formatterName(theme.ColorProfile))
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return text
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return text
	}
	return buf.String()
}

func formatterName(profile termenv.Profile) string {
	switch profile {
	case termenv.TrueColor:
		return "terminal16m"
	case termenv.ANSI256:
		return "terminal256"
	case termenv.ANSI:
		return "terminal16"
	default:
		return "noop"
	}
}
