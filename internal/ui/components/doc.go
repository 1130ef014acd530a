// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components renders command output and the terminal's chrome.
//
// # Key Types
//
//   - Renderer: turns command fragments into styled scrollback lines
//   - CompletionPopup: tab completion candidates above the prompt
//   - StatusBar: working directory, sandbox usage and key hints
//
// # Helpers
//
//   - HighlightFile: chroma highlighting chosen by file name
//   - RenderListing: ls output in columns
//   - RenderOverlay: the visualizer tree box
package components
