// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the webterm terminal.

# Palettes (colors.go)

Two palettes are selectable with the theme verb:

	default - green phosphor on black
	cream   - dark ink on paper

Each palette also names the chroma style used by cat and the glamour style
used by help.

# Theme (theme.go)

	theme := styles.NewTheme("cream")
	line := theme.Dir.Render("docs/")

# Animations (animations.go)

	LineSpinner       - busy indicator in the status bar
	FlickerDim        - frame pattern of the screen flicker toggle
	MagicWordInterval - pace of the sudo loop
*/
package styles
