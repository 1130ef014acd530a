// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides helpers shared by the terminal front ends and the
// host-side writers.
//
// # Key Functions
//
// File Operations:
//   - AtomicWriteFile, AtomicWriteReader: crash-safe writes with fsync
//
// Text Layout:
//   - StringWidth, TruncateWidth: cell-width aware measuring (go-runewidth)
//   - Columns: ls-style column layout
//
// # Usage
//
//	err := util.AtomicWriteFile(path, data, 0600)
//
//	for _, line := range util.Columns(names, 80, nil) {
//	    fmt.Println(line)
//	}
package util
