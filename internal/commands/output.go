// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strings"

	"github.com/jeranaias/webterm/internal/vfs"
)

// =============================================================================
// FRAGMENTS
// =============================================================================

// FragmentKind selects how a fragment is rendered.
type FragmentKind int

const (
	KindText    FragmentKind = iota // Plain line(s)
	KindError                       // Error message
	KindListing                     // Directory listing, see Entries
	KindFile                        // File contents, Name is the file name
	KindRaw                         // Raw network response
	KindHelp                        // Command list, Markdown holds a rich form
)

// ListEntry is one name in a listing fragment.
type ListEntry struct {
	Name  string
	IsDir bool
}

// Fragment is one unit of output.
type Fragment struct {
	Kind     FragmentKind
	Text     string
	Name     string
	Entries  []ListEntry
	Markdown string
}

// PlainText renders the fragment without styling.
func (f Fragment) PlainText() string {
	switch f.Kind {
	case KindListing, KindHelp:
		var b strings.Builder
		for i, e := range f.Entries {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(e.Name)
			if e.IsDir {
				b.WriteByte('/')
			}
		}
		if f.Text != "" {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(f.Text)
		}
		return b.String()
	default:
		return f.Text
	}
}

func textFragment(format string, args ...any) Fragment {
	return Fragment{Kind: KindText, Text: fmt.Sprintf(format, args...)}
}

func errorFragment(format string, args ...any) Fragment {
	return Fragment{Kind: KindError, Text: fmt.Sprintf(format, args...)}
}

// =============================================================================
// RESULT
// =============================================================================

// Effect is a change the UI applies after a command completes.
type Effect uint

const (
	EffectClear            Effect = 1 << iota // Clear the output area
	EffectTheme                               // Apply Result.Theme
	EffectToggleVisualizer                    // Show or hide the tree overlay
	EffectTreeChanged                         // Filesystem contents changed
	EffectStartMagicWord                      // Start the magic word loop
	EffectStopMagicWord                       // Stop the loop and close the overlay
	EffectBell                                // Ring the terminal bell
)

// Result is everything one command produced.
type Result struct {
	Verb      string
	Fragments []Fragment
	Effects   Effect
	Theme     string
}

// Has reports whether the result carries effect e.
func (r Result) Has(e Effect) bool {
	return r.Effects&e != 0
}

// PlainText renders all fragments separated by newlines.
func (r Result) PlainText() string {
	parts := make([]string, 0, len(r.Fragments))
	for _, f := range r.Fragments {
		parts = append(parts, f.PlainText())
	}
	return strings.Join(parts, "\n")
}

func (r *Result) add(f ...Fragment) {
	r.Fragments = append(r.Fragments, f...)
}

// =============================================================================
// ERROR RENDERING
// =============================================================================

// entryError renders a failed lookup of p the way a shell would. wantDir
// is the kind the command expected to find.
func entryError(verb, p string, wantDir bool, err error) Fragment {
	switch vfs.CodeOf(err) {
	case vfs.CodeNotFound:
		return errorFragment("%s: %s: No such file or directory", verb, p)
	case vfs.CodeTypeMismatch:
		if wantDir {
			return errorFragment("%s: %s: Not a directory", verb, p)
		}
		return errorFragment("%s: %s: is a directory", verb, p)
	case vfs.CodeInvalidModification:
		return errorFragment("%s: %s: File already exists", verb, p)
	default:
		return faultError(err)
	}
}

// faultError renders any filesystem fault as "Error: <CODE>".
func faultError(err error) Fragment {
	return errorFragment("Error: %s", vfs.CodeOf(err))
}
