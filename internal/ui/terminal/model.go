// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/webterm/internal/commands"
	"github.com/jeranaias/webterm/internal/session"
	"github.com/jeranaias/webterm/internal/ui/components"
	"github.com/jeranaias/webterm/internal/ui/styles"
	"github.com/jeranaias/webterm/internal/visualizer"
)

// DefaultPrompt is used when Options.Prompt is empty.
const DefaultPrompt = "$> "

// maxEntries bounds the scrollback.
const maxEntries = 500

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a Model.
type Options struct {
	Dispatcher *commands.Dispatcher

	// Walker answers overlay snapshots. Nil disables the 3d overlay tree.
	Walker commands.TreeWalker

	// Watcher triggers overlay refreshes. Optional.
	Watcher visualizer.Watcher

	Prompt    string
	Theme     string
	Flicker   bool
	ShowSizes bool

	// Bell receives BEL bytes. Defaults to os.Stderr.
	Bell io.Writer

	Context context.Context
	Logger  *zap.Logger
}

// =============================================================================
// TERMINAL MODEL
// =============================================================================

// entry is one block of scrollback.
type entry struct {
	echo   bool
	line   string
	result commands.Result
	note   string
}

// Model is the Bubble Tea model for the terminal.
type Model struct {
	ctx     context.Context
	d       *commands.Dispatcher
	sess    *session.Session
	walker  commands.TreeWalker
	watcher visualizer.Watcher
	bell    io.Writer
	log     *zap.Logger

	// Styling
	theme    *styles.Theme
	renderer *components.Renderer
	popup    *components.CompletionPopup
	status   *components.StatusBar
	keyMap   KeyMap

	// Dimensions
	width  int
	height int

	// UI Components
	viewport viewport.Model
	input    textinput.Model
	prompt   string

	// Scrollback, with a rendered copy of each entry
	entries  []entry
	rendered []string

	// Tab completion
	completer  *commands.Completer
	completion *commands.CompletionState

	// Commands in flight and the spinner that shows them
	busy     int
	spinning bool

	// Screen flicker
	flicker        bool
	flickerStep    int
	flickerRunning bool

	// Magic word loop
	magic        bool
	magicRunning bool

	// Visualizer overlay
	overlay   bool
	tree      *visualizer.Node
	treeMsg   string
	showSizes bool
}

// New creates a terminal model and prints the welcome banner.
func New(opts Options) Model {
	if opts.Prompt == "" {
		opts.Prompt = DefaultPrompt
	}
	if opts.Bell == nil {
		opts.Bell = os.Stderr
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	theme := styles.NewTheme(opts.Theme)
	sess := opts.Dispatcher.Session()

	ti := textinput.New()
	ti.Prompt = opts.Prompt
	ti.CharLimit = 4096
	ti.Cursor.BlinkSpeed = styles.CursorBlinkRate
	ti.Focus()

	m := Model{
		ctx:        opts.Context,
		d:          opts.Dispatcher,
		sess:       sess,
		walker:     opts.Walker,
		watcher:    opts.Watcher,
		bell:       opts.Bell,
		log:        opts.Logger,
		theme:      theme,
		renderer:   components.NewRenderer(theme),
		popup:      components.NewCompletionPopup(theme),
		status:     components.NewStatusBar(theme),
		keyMap:     DefaultKeyMap(),
		viewport:   viewport.New(80, 20),
		input:      ti,
		prompt:     opts.Prompt,
		completer:  commands.NewCompleter(opts.Dispatcher.Registry(), sess),
		completion: commands.NewCompletionState(),
		flicker:    opts.Flicker,
		showSizes:  opts.ShowSizes,

		// Init starts the first flicker tick
		flickerRunning: opts.Flicker,
	}
	m.styleInput()
	m.refreshStatus()
	m.appendEntry(entry{result: opts.Dispatcher.Welcome()})
	return m
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor blink, the write probe, and the watcher loop.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, ProbeCmd(m.ctx, m.d)}
	if m.watcher != nil {
		cmds = append(cmds, WaitForChangeCmd(m.watcher))
	}
	if m.flicker {
		cmds = append(cmds, flickerTick())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case commands.ResultMsg:
		return m.handleResult(msg)

	case ProbeMsg:
		if len(msg.Result.Fragments) > 0 {
			m.appendEntry(entry{result: msg.Result})
		}
		return m, nil

	case TreeMsg:
		return m.handleTree(msg)

	case ChangedMsg:
		m.refreshStatus()
		cmds := []tea.Cmd{WaitForChangeCmd(m.watcher)}
		if m.overlay {
			cmds = append(cmds, m.readTree())
		}
		return m, tea.Batch(cmds...)

	case MagicWordMsg:
		if !m.magic {
			m.magicRunning = false
			return m, nil
		}
		m.appendEntry(entry{note: commands.MagicWordLine})
		return m, magicWordTick()

	case FlickerMsg:
		if !m.flicker {
			m.flickerRunning = false
			return m, nil
		}
		m.flickerStep++
		return m, flickerTick()

	case SpinnerMsg:
		if m.busy == 0 {
			m.spinning = false
			return m, nil
		}
		m.status.Frame++
		return m, spinnerTick()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Theme returns the active theme.
func (m Model) Theme() *styles.Theme { return m.theme }

// Busy returns the number of commands still running.
func (m Model) Busy() int { return m.busy }

// OverlayVisible reports whether the visualizer is shown.
func (m Model) OverlayVisible() bool { return m.overlay }

// MagicWord reports whether the magic word loop is running.
func (m Model) MagicWord() bool { return m.magic }

// Flicker reports whether screen flicker is on.
func (m Model) Flicker() bool { return m.flicker }

// Input returns the text on the prompt line.
func (m Model) Input() string { return m.input.Value() }

// Completion returns the completion state.
func (m Model) Completion() *commands.CompletionState { return m.completion }

// Output returns the scrollback as plain text, one block per line group.
func (m Model) Output() string {
	return plainScrollback(m.prompt, m.entries)
}
