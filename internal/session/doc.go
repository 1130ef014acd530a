// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the per-terminal state shared by the dispatcher and
// the UI.
//
// # Key Types
//
//   - Session: working directory, history and identity of one terminal
//   - History: typed lines with an up/down navigation cursor
//
// # Usage
//
//	sess := session.New(fsys)
//	cwd := sess.Cwd()          // snapshot for one command
//	sess.SetCwd(dir)           // after a successful cd
//	sess.History().Append(line)
//
// There is exactly one working directory per session. Commands take a
// snapshot when they are dispatched, so a later cd never retargets a
// command that is still running.
package session
