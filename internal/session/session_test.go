// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/jeranaias/webterm/internal/vfs"
)

// =============================================================================
// SESSION TESTS
// =============================================================================

func TestNew(t *testing.T) {
	s := New(vfs.NewMemory(vfs.Options{}))

	if !strings.HasPrefix(s.ID(), "sess_") {
		t.Errorf("ID should start with 'sess_', got %q", s.ID())
	}
	if s.StartTime().IsZero() {
		t.Error("StartTime should not be zero")
	}
	if got := s.Cwd().FullPath(); got != "/" {
		t.Errorf("Cwd = %q, want /", got)
	}
}

func TestSession_UniqueIDs(t *testing.T) {
	fsys := vfs.NewMemory(vfs.Options{})
	if New(fsys).ID() == New(fsys).ID() {
		t.Error("sessions should not share IDs")
	}
}

func TestSession_SetCwd(t *testing.T) {
	ctx := context.Background()
	fsys := vfs.NewMemory(vfs.Options{})
	s := New(fsys)

	docs, err := fsys.Root().GetDirectory(ctx, "docs", vfs.Flags{Create: true})
	if err != nil {
		t.Fatalf("GetDirectory: %v", err)
	}
	s.SetCwd(docs)
	if got := s.Cwd().FullPath(); got != "/docs" {
		t.Errorf("Cwd = %q, want /docs", got)
	}

	file, err := docs.GetFile(ctx, "a.txt", vfs.Flags{Create: true})
	if err != nil {
		t.Fatalf("GetFile: %v", err)
	}
	s.SetCwd(file)
	s.SetCwd(nil)
	if got := s.Cwd().FullPath(); got != "/docs" {
		t.Errorf("Cwd = %q after invalid SetCwd, want /docs", got)
	}
}

func TestSession_ConcurrentAccess(t *testing.T) {
	fsys := vfs.NewMemory(vfs.Options{})
	s := New(fsys)
	root := fsys.Root()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetCwd(root)
		}()
		go func() {
			defer wg.Done()
			_ = s.Cwd()
			_ = s.GetStatus()
		}()
	}
	wg.Wait()
}

func TestSession_GetStatus(t *testing.T) {
	s := New(vfs.NewMemory(vfs.Options{}))
	s.History().Append("ls")
	s.History().Append("pwd")

	status := s.GetStatus()
	if status.SessionID != s.ID() {
		t.Errorf("SessionID = %q, want %q", status.SessionID, s.ID())
	}
	if status.Commands != 2 {
		t.Errorf("Commands = %d, want 2", status.Commands)
	}
	if status.Cwd != "/" {
		t.Errorf("Cwd = %q, want /", status.Cwd)
	}
}

// =============================================================================
// HISTORY TESTS
// =============================================================================

func TestHistory_AppendSkipsEmpty(t *testing.T) {
	h := NewHistory()
	h.Append("ls")
	h.Append("")
	h.Append("pwd")

	if h.Len() != 2 {
		t.Fatalf("Len = %d, want 2", h.Len())
	}
	entries := h.Entries()
	if entries[0] != "ls" || entries[1] != "pwd" {
		t.Errorf("Entries = %v", entries)
	}
}

func TestHistory_Navigation(t *testing.T) {
	h := NewHistory()
	h.Append("one")
	h.Append("two")
	h.Append("three")

	steps := []struct {
		name string
		op   func(string) string
		in   string
		want string
	}{
		{"prev from draft", h.Prev, "dra", "three"},
		{"prev", h.Prev, "three", "two"},
		{"prev", h.Prev, "two", "one"},
		{"prev at oldest", h.Prev, "one", "one"},
		{"next", h.Next, "one", "two"},
		{"next", h.Next, "two", "three"},
		{"next returns draft", h.Next, "three", "dra"},
		{"next past end", h.Next, "dra", "dra"},
	}
	for i, step := range steps {
		if got := step.op(step.in); got != step.want {
			t.Errorf("step %d (%s): got %q, want %q", i, step.name, got, step.want)
		}
	}
}

func TestHistory_EditsAreKept(t *testing.T) {
	h := NewHistory()
	h.Append("cat a.txt")
	h.Append("ls")

	h.Prev("")
	got := h.Prev("ls -edited")
	if got != "cat a.txt" {
		t.Fatalf("Prev = %q", got)
	}
	if got := h.Next("cat a.txt"); got != "ls -edited" {
		t.Errorf("edited entry should be recalled, got %q", got)
	}
}

func TestHistory_EditAtOldestIsKept(t *testing.T) {
	h := NewHistory()
	h.Append("a")
	h.Append("b")

	h.Prev("")
	h.Prev("b")
	if got := h.Prev("a-edited"); got != "a-edited" {
		t.Fatalf("Prev at oldest = %q, want a-edited", got)
	}
	if got := h.Next("a-edited"); got != "b" {
		t.Fatalf("Next = %q, want b", got)
	}
	if got := h.Prev("b"); got != "a-edited" {
		t.Errorf("edit to the oldest entry was lost, got %q", got)
	}
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory()
	if got := h.Prev("typed"); got != "typed" {
		t.Errorf("Prev on empty history = %q, want typed", got)
	}
	if got := h.Next("typed"); got != "typed" {
		t.Errorf("Next on empty history = %q, want typed", got)
	}
}
