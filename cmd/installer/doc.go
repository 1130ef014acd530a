// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Command installer is webterm-install, a small setup helper for webterm.

It copies the webterm binary into the per-user bin directory (the same
operation as the "install" verb inside the terminal) and writes a default
~/.webterm/config.toml when none exists.

# Building

	go build -o webterm-install ./cmd/installer

# Usage

	webterm-install [--source PATH] [--bin-dir DIR] [--no-config]

By default the source is the webterm binary next to webterm-install.
*/
package main
