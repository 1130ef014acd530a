// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands implements the terminal's command dispatcher.
//
// A line is split on whitespace; the case-folded first token selects a verb
// from the Registry, whose Parse function validates the arguments and
// returns a typed Invocation (LsCmd, MkdirCmd, TransferCmd, ...). The
// Dispatcher executes invocations against the session's working directory
// and returns a Result: output fragments plus effects for the UI to apply.
//
// # Key Types
//
//   - Registry: the fixed verb table
//   - Parser / ParseResult: line to invocation
//   - Dispatcher: executes invocations, synchronously or as a tea.Cmd
//   - Result / Fragment: output and UI effects
//   - Completer: tab completion for verbs and sandbox paths
//
// # Usage
//
//	d := commands.NewDispatcher(sess, commands.Options{Title: "webterm"})
//	res := d.Dispatch(ctx, "mkdir -p a/b/c")
//	fmt.Println(res.PlainText())
//
// Inside Bubble Tea:
//
//	return m, d.Cmd(ctx, line) // delivers a commands.ResultMsg
//
// Errors never escape as Go errors: unknown verbs, usage problems and
// filesystem faults all become error fragments.
package commands
