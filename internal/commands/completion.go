// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jeranaias/webterm/internal/session"
	"github.com/jeranaias/webterm/internal/vfs"
)

// =============================================================================
// COMPLETER
// =============================================================================

// Completion is one candidate for the token under the cursor.
type Completion struct {
	// Value replaces the partial token
	Value string

	// Display is shown in the completion list
	Display string

	Description string
	Score       int
}

// Completer handles tab completion for verbs and sandbox paths.
type Completer struct {
	registry *Registry
	session  *session.Session
}

// NewCompleter creates a completer over the registry and session.
func NewCompleter(registry *Registry, sess *session.Session) *Completer {
	return &Completer{registry: registry, session: sess}
}

// Complete returns completions for the input up to cursorPos.
func (c *Completer) Complete(ctx context.Context, input string, cursorPos int) []Completion {
	if cursorPos >= 0 && cursorPos < len(input) {
		input = input[:cursorPos]
	}

	parts := Tokenize(input)
	trailingSpace := strings.HasSuffix(input, " ")
	if len(parts) == 0 {
		return c.completeCommands("")
	}

	// Still typing the verb?
	if len(parts) == 1 && !trailingSpace {
		return c.completeCommands(parts[0])
	}

	cmd := c.registry.Get(cases.Fold().String(parts[0]))
	if cmd == nil || len(cmd.Args) == 0 {
		return nil
	}

	argIndex := len(parts) - 2
	partial := parts[len(parts)-1]
	if trailingSpace {
		argIndex++
		partial = ""
	}

	// Flags and repeated arguments complete like the last declared argument.
	arg := cmd.Args[min(argIndex, len(cmd.Args)-1)]
	switch arg.Type {
	case ArgTypePath:
		return c.completePaths(ctx, partial)
	case ArgTypeEnum:
		return completeFromList(arg.Values, partial)
	default:
		return nil
	}
}

// Apply replaces the token under the cursor in input with the completion.
func Apply(input string, comp Completion) string {
	if strings.HasSuffix(input, " ") || input == "" {
		return input + comp.Value
	}
	idx := strings.LastIndex(input, " ")
	return input[:idx+1] + comp.Value
}

// =============================================================================
// VERB COMPLETION
// =============================================================================

func (c *Completer) completeCommands(partial string) []Completion {
	var completions []Completion

	partial = strings.ToLower(partial)

	for _, cmd := range c.registry.Visible() {
		if strings.HasPrefix(cmd.Name, partial) {
			completions = append(completions, Completion{
				Value:       cmd.Name + " ",
				Display:     cmd.Name,
				Description: cmd.Description,
				Score:       calculateScore(cmd.Name, partial),
			})
		}

		for _, alias := range cmd.Aliases {
			if strings.HasPrefix(alias, partial) {
				completions = append(completions, Completion{
					Value:       alias + " ",
					Display:     alias + " -> " + cmd.Name,
					Description: cmd.Description,
					Score:       calculateScore(alias, partial) - 10, // Slightly lower score for aliases
				})
			}
		}
	}

	sortCompletions(completions)
	return completions
}

// =============================================================================
// PATH COMPLETION
// =============================================================================

// completePaths lists entries of the directory named by partial's prefix
// whose names start with partial's last segment.
func (c *Completer) completePaths(ctx context.Context, partial string) []Completion {
	if c.session == nil {
		return nil
	}

	dirPart, base := "", partial
	if idx := strings.LastIndex(partial, "/"); idx >= 0 {
		dirPart, base = partial[:idx+1], partial[idx+1:]
	}

	dir := c.session.Cwd()
	if dirPart != "" {
		var err error
		dir, err = dir.GetDirectory(ctx, dirPart, vfs.Flags{})
		if err != nil {
			return nil
		}
	}

	reader, err := dir.CreateReader()
	if err != nil {
		return nil
	}
	var completions []Completion
	for {
		batch, err := reader.ReadEntries(ctx)
		if err != nil || len(batch) == 0 {
			break
		}
		for _, e := range batch {
			if !strings.HasPrefix(e.Name(), base) {
				continue
			}
			name := e.Name()
			desc := "file"
			if e.IsDirectory() {
				name += "/"
				desc = "directory"
			}
			completions = append(completions, Completion{
				Value:       dirPart + name,
				Display:     name,
				Description: desc,
				Score:       calculateScore(e.Name(), base),
			})
		}
	}

	sortCompletions(completions)
	return completions
}

func completeFromList(values []string, partial string) []Completion {
	var completions []Completion

	partial = strings.ToLower(partial)

	for _, value := range values {
		if strings.HasPrefix(strings.ToLower(value), partial) {
			completions = append(completions, Completion{
				Value:   value,
				Display: value,
				Score:   calculateScore(value, partial),
			})
		}
	}

	sortCompletions(completions)
	return completions
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// calculateScore calculates a match score for completion ranking.
// Higher score = better match.
func calculateScore(value, partial string) int {
	value = strings.ToLower(value)
	partial = strings.ToLower(partial)

	score := 100

	if value == partial {
		return score + 100
	}

	if strings.HasPrefix(value, partial) {
		score += 50
		// Bonus for shorter completions
		score += 20 - len(value)
	}

	score -= len(value) / 2

	return score
}

// sortCompletions sorts completions by score (descending), then alphabetically.
func sortCompletions(completions []Completion) {
	sort.Slice(completions, func(i, j int) bool {
		if completions[i].Score != completions[j].Score {
			return completions[i].Score > completions[j].Score
		}
		return completions[i].Value < completions[j].Value
	})
}

// =============================================================================
// COMPLETION NAVIGATION
// =============================================================================

// CompletionState holds the state for cycling through completions.
type CompletionState struct {
	// Original input before completion
	OriginalInput string

	Completions []Completion

	// Selected index (-1 for none)
	Selected int

	Visible bool
}

// NewCompletionState creates a new completion state.
func NewCompletionState() *CompletionState {
	return &CompletionState{Selected: -1}
}

// Update replaces the candidates and selects the first.
func (cs *CompletionState) Update(input string, completions []Completion) {
	cs.OriginalInput = input
	cs.Completions = completions
	cs.Selected = 0
	cs.Visible = len(completions) > 0
}

// Next moves to the next completion.
func (cs *CompletionState) Next() {
	if len(cs.Completions) == 0 {
		return
	}
	cs.Selected = (cs.Selected + 1) % len(cs.Completions)
}

// Prev moves to the previous completion.
func (cs *CompletionState) Prev() {
	if len(cs.Completions) == 0 {
		return
	}
	cs.Selected--
	if cs.Selected < 0 {
		cs.Selected = len(cs.Completions) - 1
	}
}

// Clear clears the completion state.
func (cs *CompletionState) Clear() {
	cs.OriginalInput = ""
	cs.Completions = nil
	cs.Selected = -1
	cs.Visible = false
}

// GetSelected returns the currently selected completion, or nil.
func (cs *CompletionState) GetSelected() *Completion {
	if cs.Selected < 0 || cs.Selected >= len(cs.Completions) {
		return nil
	}
	return &cs.Completions[cs.Selected]
}
