// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")
	data := []byte("hello, world!")

	if err := AtomicWriteFile(path, data, 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != string(data) {
		t.Errorf("Content mismatch: got %q, want %q", content, data)
	}
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "deep", "test.txt")

	if err := AtomicWriteFile(path, []byte("test data"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("File not created: %v", err)
	}
}

func TestAtomicWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")

	if err := AtomicWriteFile(path, []byte("initial"), 0644); err != nil {
		t.Fatalf("First write failed: %v", err)
	}
	if err := AtomicWriteFile(path, []byte("updated"), 0644); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "updated" {
		t.Errorf("Content = %q, want %q", content, "updated")
	}
}

func TestAtomicWriteFile_Permissions(t *testing.T) {
	if os.PathSeparator != '/' {
		t.Skip("permission bits are not meaningful on this platform")
	}
	path := filepath.Join(t.TempDir(), "secret.toml")

	if err := AtomicWriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("perm = %o, want 600", perm)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestAtomicWriteReader_FailureKeepsOldFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keep.txt")
	if err := AtomicWriteFile(path, []byte("original"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := AtomicWriteReader(path, failingReader{}, 0644); err == nil {
		t.Fatal("expected an error from a failing reader")
	}

	content, _ := os.ReadFile(path)
	if string(content) != "original" {
		t.Errorf("Content = %q, want original", content)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %v", entries)
	}
}

// =============================================================================
// TEXT LAYOUT TESTS
// =============================================================================

func TestStringWidth(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"hello", 5},
		{"日本", 4},
		{"a日b", 4},
	}
	for _, tt := range tests {
		if got := StringWidth(tt.input); got != tt.want {
			t.Errorf("StringWidth(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		input    string
		maxWidth int
		want     string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 0, ""},
		{"hello", 2, "he"},
		{"日本語テキスト", 7, "日本..."},
	}
	for _, tt := range tests {
		if got := TruncateWidth(tt.input, tt.maxWidth); got != tt.want {
			t.Errorf("TruncateWidth(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
		}
	}
}

func TestColumns(t *testing.T) {
	names := []string{"a.txt", "b.txt", "docs", "longer-name"}

	// colWidth = 11 + 2 = 13, two per row in 30 cells
	got := Columns(names, 30, nil)
	want := []string{
		"a.txt        b.txt",
		"docs         longer-name",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %q, want %q", got, want)
	}
}

func TestColumns_NarrowAndEmpty(t *testing.T) {
	if got := Columns(nil, 80, nil); got != nil {
		t.Errorf("Columns(nil) = %q, want nil", got)
	}

	got := Columns([]string{"alpha", "beta"}, 3, nil)
	if len(got) != 2 || got[0] != "alpha" || got[1] != "beta" {
		t.Errorf("narrow Columns() = %q", got)
	}
}

func TestColumns_Decorate(t *testing.T) {
	got := Columns([]string{"dir", "file"}, 80, func(i int, cell string) string {
		if i == 0 {
			return "[" + strings.TrimRight(cell, " ") + "]" + strings.Repeat(" ", len(cell)-len("dir"))
		}
		return cell
	})
	if len(got) != 1 || !strings.HasPrefix(got[0], "[dir]") || !strings.HasSuffix(got[0], "file") {
		t.Errorf("decorated Columns() = %q", got)
	}
}
