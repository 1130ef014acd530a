// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// ColumnGap is the number of spaces between listing columns.
const ColumnGap = 2

// StringWidth returns the display width of s in terminal cells.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateWidth cuts s to at most maxWidth cells, ending in "..." when
// there is room for it.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// Columns lays names out row by row in equal-width columns that fit in
// width cells, like ls does on a terminal. decorate, if non-nil, styles a
// cell after padding; it receives the index into names.
func Columns(names []string, width int, decorate func(i int, cell string) string) []string {
	if len(names) == 0 {
		return nil
	}

	colWidth := 0
	for _, n := range names {
		colWidth = max(colWidth, runewidth.StringWidth(n))
	}
	colWidth += ColumnGap

	perRow := 1
	if width > colWidth {
		perRow = width / colWidth
	}

	var lines []string
	var line strings.Builder
	for i, n := range names {
		cell := n
		last := (i+1)%perRow == 0 || i == len(names)-1
		if !last {
			cell = runewidth.FillRight(n, colWidth)
		}
		if decorate != nil {
			cell = decorate(i, cell)
		}
		line.WriteString(cell)
		if last {
			lines = append(lines, line.String())
			line.Reset()
		}
	}
	return lines
}
