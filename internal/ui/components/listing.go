// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/webterm/internal/commands"
	"github.com/jeranaias/webterm/internal/ui/styles"
	"github.com/jeranaias/webterm/internal/util"
)

// RenderListing lays ls entries out in columns that fit width. Folders use
// the Dir style.
func RenderListing(theme *styles.Theme, entries []commands.ListEntry, width int) string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}

	lines := util.Columns(names, width, func(i int, cell string) string {
		if entries[i].IsDir {
			return theme.Dir.Render(cell)
		}
		return theme.File.Render(cell)
	})
	return strings.Join(lines, "\n")
}
