// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import "sync"

// History is the ordered list of submitted lines plus a navigation cursor.
//
// Navigating away from a line keeps whatever was typed there: edits to a
// recalled entry are written back, and the line being composed before the
// first Prev is saved and returned when navigating past the newest entry.
type History struct {
	mu      sync.Mutex
	entries []string
	pos     int
	draft   string
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{}
}

// Append records a submitted line and resets the cursor. Empty lines are
// not recorded.
func (h *History) Append(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if line != "" {
		h.entries = append(h.entries, line)
	}
	h.pos = len(h.entries)
	h.draft = ""
}

// Prev moves the cursor to the previous entry and returns it. current is
// the text in the prompt. At the oldest entry the cursor stays put.
func (h *History) Prev(current string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return current
	}
	h.save(current)
	if h.pos == 0 {
		return h.entries[0]
	}
	h.pos--
	return h.entries[h.pos]
}

// Next moves the cursor to the next entry and returns it, or the saved
// draft once past the newest entry.
func (h *History) Next(current string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pos >= len(h.entries) {
		return current
	}
	h.save(current)
	h.pos++
	if h.pos == len(h.entries) {
		return h.draft
	}
	return h.entries[h.pos]
}

func (h *History) save(current string) {
	if h.pos < len(h.entries) {
		h.entries[h.pos] = current
	} else {
		h.draft = current
	}
}

// Entries returns a copy of the recorded lines, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of recorded lines.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
