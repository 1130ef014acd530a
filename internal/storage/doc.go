// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists user preferences for the terminal.
//
// Preferences live in a small SQLite database as string key/value pairs.
// The terminal stores the selected theme there, so it survives restarts
// the way a browser's local storage would.
//
// # Usage
//
//	prefs, err := storage.Open(storage.DefaultPath())
//	if err != nil {
//		return err
//	}
//	defer prefs.Close()
//
//	theme, err := prefs.Theme(ctx)
//	err = prefs.SetTheme(ctx, "cream")
//
// # Storage Location
//
// The database is stored at ~/.webterm/prefs.db.
package storage
