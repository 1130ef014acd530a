// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package terminal provides the full-screen Bubble Tea model for webterm.
//
// The model owns the scrollback viewport, the prompt line and the visualizer
// overlay. Command lines are handed to a commands.Dispatcher, which runs them
// in tea.Cmd goroutines; results come back as commands.ResultMsg and their
// effects (clear, theme, overlay, magic word, bell) are applied in Update.
//
// # Key Bindings
//
//   - Enter: run the line, or accept the selected completion
//   - Tab / Shift+Tab: complete verbs and paths
//   - Up / Down: history, or move through completions
//   - PgUp / PgDn: scroll the output
//   - Ctrl+L: clear the output
//   - Ctrl+S: toggle screen flicker
//   - Ctrl+C: quit
package terminal
