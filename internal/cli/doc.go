// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the plain line-mode front end for webterm.
//
// The REPL is used when stdout is not a terminal or when --plain is given.
// It reads lines with liner (history and line editing) when stdin is a
// terminal and with a plain scanner otherwise, runs each line through the
// dispatcher synchronously and prints fragments as unstyled text.
//
// # Usage
//
//	repl := cli.NewREPL(dispatcher, cli.Options{Prompt: "$> "})
//	defer repl.Close()
//	return repl.Run(ctx)
package cli
