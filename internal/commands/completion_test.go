// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"strings"
	"testing"

	"github.com/jeranaias/webterm/internal/session"
	"github.com/jeranaias/webterm/internal/vfs"
)

func newTestCompleter(t *testing.T) *Completer {
	t.Helper()
	ctx := context.Background()
	fsys := vfs.NewMemory(vfs.Options{})
	root := fsys.Root()

	alps, err := root.GetDirectory(ctx, "alps", vfs.Flags{Create: true})
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []struct {
		dir  *vfs.Entry
		name string
	}{{root, "alpha.txt"}, {root, "beta.txt"}, {alps, "peak.txt"}} {
		if _, err := p.dir.GetFile(ctx, p.name, vfs.Flags{Create: true}); err != nil {
			t.Fatal(err)
		}
	}
	return NewCompleter(NewRegistry(), session.New(fsys))
}

func values(comps []Completion) []string {
	out := make([]string, 0, len(comps))
	for _, c := range comps {
		out = append(out, c.Value)
	}
	return out
}

func TestComplete_Verbs(t *testing.T) {
	c := newTestCompleter(t)

	got := values(c.Complete(context.Background(), "c", 1))
	want := []string{"cd ", "cp ", "cat ", "clear "}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Complete(c) = %q, want %q", got, want)
	}

	for _, v := range values(c.Complete(context.Background(), "", 0)) {
		if v == "sudo " || v == "exit " || v == "init " {
			t.Errorf("hidden verb %q offered", v)
		}
	}
}

func TestComplete_Alias(t *testing.T) {
	c := newTestCompleter(t)
	comps := c.Complete(context.Background(), "ve", 2)
	if len(comps) != 2 {
		t.Fatalf("Complete(ve) = %v, want version and ver", values(comps))
	}
	if comps[0].Value != "version " {
		t.Errorf("first completion = %q, want the primary verb", comps[0].Value)
	}
	if comps[1].Display != "ver -> version" {
		t.Errorf("alias display = %q", comps[1].Display)
	}
}

func TestComplete_Paths(t *testing.T) {
	c := newTestCompleter(t)

	tests := []struct {
		input string
		want  []string
	}{
		{"cat al", []string{"alps/", "alpha.txt"}},
		{"cat be", []string{"beta.txt"}},
		{"cd alps/", []string{"alps/peak.txt"}},
		{"cd alps/pe", []string{"alps/peak.txt"}},
		{"cat zz", nil},
		{"cat missing/", nil},
	}

	for _, tc := range tests {
		got := values(c.Complete(context.Background(), tc.input, len(tc.input)))
		if strings.Join(got, ",") != strings.Join(tc.want, ",") {
			t.Errorf("Complete(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestComplete_SecondPathArgument(t *testing.T) {
	c := newTestCompleter(t)
	got := values(c.Complete(context.Background(), "cp alpha.txt b", 14))
	if len(got) != 1 || got[0] != "beta.txt" {
		t.Errorf("Complete(cp alpha.txt b) = %q, want [beta.txt]", got)
	}
}

func TestComplete_Theme(t *testing.T) {
	c := newTestCompleter(t)
	got := values(c.Complete(context.Background(), "theme c", 7))
	if len(got) != 1 || got[0] != "cream" {
		t.Errorf("Complete(theme c) = %q, want [cream]", got)
	}
}

func TestComplete_NoArgs(t *testing.T) {
	c := newTestCompleter(t)
	if got := c.Complete(context.Background(), "pwd ", 4); len(got) != 0 {
		t.Errorf("Complete(pwd ) = %v, want none", values(got))
	}
	if got := c.Complete(context.Background(), "nope x", 6); len(got) != 0 {
		t.Errorf("Complete(nope x) = %v, want none", values(got))
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		input string
		value string
		want  string
	}{
		{"", "ls ", "ls "},
		{"l", "ls ", "ls "},
		{"cat al", "alpha.txt", "cat alpha.txt"},
		{"cat ", "beta.txt", "cat beta.txt"},
	}
	for _, tc := range tests {
		if got := Apply(tc.input, Completion{Value: tc.value}); got != tc.want {
			t.Errorf("Apply(%q, %q) = %q, want %q", tc.input, tc.value, got, tc.want)
		}
	}
}

func TestCompletionState(t *testing.T) {
	cs := NewCompletionState()
	if cs.GetSelected() != nil {
		t.Error("new state should have no selection")
	}

	cs.Update("c", []Completion{{Value: "cd "}, {Value: "cp "}, {Value: "cat "}})
	if !cs.Visible || cs.GetSelected().Value != "cd " {
		t.Fatalf("Update should select the first completion")
	}
	cs.Next()
	cs.Next()
	cs.Next()
	if cs.GetSelected().Value != "cd " {
		t.Errorf("Next should wrap, got %q", cs.GetSelected().Value)
	}
	cs.Prev()
	if cs.GetSelected().Value != "cat " {
		t.Errorf("Prev should wrap, got %q", cs.GetSelected().Value)
	}
	cs.Clear()
	if cs.Visible || cs.GetSelected() != nil {
		t.Error("Clear should reset the state")
	}
}
