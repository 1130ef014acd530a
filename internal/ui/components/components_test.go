// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/webterm/internal/commands"
	"github.com/jeranaias/webterm/internal/ui/styles"
	"github.com/jeranaias/webterm/internal/visualizer"
)

func TestMain(m *testing.M) {
	// Plain output so assertions can match text
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func newTheme() *styles.Theme {
	theme := styles.NewTheme("default")
	theme.ColorProfile = termenv.Ascii
	return theme
}

func TestRenderListing(t *testing.T) {
	entries := []commands.ListEntry{
		{Name: "a.txt"},
		{Name: "docs", IsDir: true},
	}
	assert.Equal(t, "a.txt  docs", RenderListing(newTheme(), entries, 80))

	narrow := RenderListing(newTheme(), entries, 4)
	assert.Equal(t, "a.txt\ndocs", narrow)
}

func TestRenderFile_PlainText(t *testing.T) {
	out := RenderFile(newTheme(), "notes.txt", "hello\nworld\n")
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "notes.txt")
	assert.Equal(t, "   1 hello", lines[1])
	assert.Equal(t, "   2 world", lines[2])
}

func TestRenderFile_SourceKeepsText(t *testing.T) {
	out := RenderFile(newTheme(), "main.go", "package main\n\nfunc main() {}\n")
	assert.Contains(t, out, "package main")
	assert.Contains(t, out, "   3 func main() {}")
}

func TestLexerFor(t *testing.T) {
	assert.Nil(t, lexerFor("notes.txt", "just words"))
	require.NotNil(t, lexerFor("hello.go", "package main"))
	assert.Equal(t, "Go", lexerFor("hello.go", "package main").Config().Name)
}

func TestFormatterName(t *testing.T) {
	assert.Equal(t, "terminal16m", formatterName(termenv.TrueColor))
	assert.Equal(t, "terminal256", formatterName(termenv.ANSI256))
	assert.Equal(t, "noop", formatterName(termenv.Ascii))
}

func TestMarkdownRenderer(t *testing.T) {
	var md MarkdownRenderer
	out := md.Render("# Commands\n\n| command | usage |\n|---|---|\n| `ls` | ls |\n", "dark", 60)
	assert.Contains(t, out, "Commands")
	assert.Contains(t, out, "ls")

	// Width change rebuilds the renderer
	_ = md.Render("text", "light", 40)
	assert.Equal(t, "light", md.style)
	assert.Equal(t, 40, md.width)
}

func TestRenderer_Fragments(t *testing.T) {
	r := NewRenderer(newTheme())
	r.SetWidth(80)

	res := commands.Result{Fragments: []commands.Fragment{
		{Kind: commands.KindText, Text: "/docs"},
		{Kind: commands.KindError, Text: "cd: nope: No such file or directory"},
		{Kind: commands.KindRaw, Text: "<html></html>\n"},
	}}
	assert.Equal(t, "/docs\ncd: nope: No such file or directory\n<html></html>", r.Result(res))
	assert.Equal(t, "", r.Result(commands.Result{}))
}

func TestRenderer_HelpFallsBackToListing(t *testing.T) {
	r := NewRenderer(newTheme())
	out := r.Fragment(commands.Fragment{
		Kind:    commands.KindHelp,
		Text:    "Add files with: import <url>",
		Entries: []commands.ListEntry{{Name: "cat"}, {Name: "cd"}},
	})
	assert.Equal(t, "cat  cd\nAdd files with: import <url>", out)
}

func TestRenderer_Echo(t *testing.T) {
	r := NewRenderer(newTheme())
	assert.Equal(t, "$> ls -l", r.Echo("$> ", "ls -l"))
}

func TestCompletionPopup(t *testing.T) {
	popup := NewCompletionPopup(newTheme())
	assert.Empty(t, popup.View(nil))

	state := commands.NewCompletionState()
	state.Update("c", []commands.Completion{
		{Value: "cd ", Display: "cd", Description: "Change directory"},
		{Value: "cat ", Display: "cat", Description: "Print a file"},
	})
	out := popup.View(state)
	assert.Contains(t, out, "> cd")
	assert.Contains(t, out, "cat")
	assert.Contains(t, out, "Change directory")

	state.Clear()
	assert.Empty(t, popup.View(state))
}

func TestCompletionPopup_ScrollWindow(t *testing.T) {
	popup := NewCompletionPopup(newTheme())
	popup.SetMaxVisible(2)

	var comps []commands.Completion
	for _, n := range []string{"a1", "a2", "a3", "a4"} {
		comps = append(comps, commands.Completion{Value: n, Display: n})
	}
	state := commands.NewCompletionState()
	state.Update("a", comps)
	state.Next()
	state.Next()
	state.Next()

	out := popup.View(state)
	assert.Contains(t, out, "> a4")
	assert.NotContains(t, out, "a1")
	assert.Contains(t, out, "4/4")
}

func TestStatusBar(t *testing.T) {
	bar := NewStatusBar(newTheme())
	bar.SetWidth(100)
	bar.Cwd = "/docs"
	bar.FSType = "temporary"
	bar.Usage = 12
	bar.Quota = 1024

	out := bar.View()
	assert.Contains(t, out, "/docs")
	assert.Contains(t, out, "temporary 12 B / 1.0 KiB")
	assert.Contains(t, out, "flicker off")

	bar.Flicker = true
	bar.Busy = 1
	bar.Frame = 2
	out = bar.View()
	assert.Contains(t, out, "flicker on")
	assert.Contains(t, out, "KiB  -")

	bar.SetWidth(30)
	assert.NotContains(t, bar.View(), "quit")
}

func TestRenderOverlay(t *testing.T) {
	tree := &visualizer.Node{Name: "/", Path: "/", IsDir: true, Children: []*visualizer.Node{
		{Name: "docs", Path: "/docs", IsDir: true},
		{Name: "a.txt", Path: "/a.txt", Size: 3},
	}}

	out := RenderOverlay(newTheme(), tree, "", false, 60, 0)
	assert.Contains(t, out, OverlayTitle)
	assert.Contains(t, out, "docs")
	assert.Contains(t, out, "a.txt")
	assert.Contains(t, out, "2 entries")

	waiting := RenderOverlay(newTheme(), nil, "", false, 60, 0)
	assert.Contains(t, waiting, "Reading filesystem...")

	msg := RenderOverlay(newTheme(), nil, "Created 5 folders and 4 files in /demo", false, 60, 0)
	assert.Contains(t, msg, "Created 5 folders")
}

func TestRenderOverlay_ClipsToHeight(t *testing.T) {
	root := &visualizer.Node{Name: "/", Path: "/", IsDir: true}
	for _, n := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		root.Children = append(root.Children, &visualizer.Node{Name: n, Path: "/" + n})
	}
	out := RenderOverlay(newTheme(), root, "", false, 60, 10)
	assert.LessOrEqual(t, lipgloss.Height(out), 10)
	assert.Contains(t, out, "...")
}
