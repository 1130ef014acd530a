// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/webterm/internal/fetch"
	"github.com/jeranaias/webterm/internal/install"
	"github.com/jeranaias/webterm/internal/session"
	"github.com/jeranaias/webterm/internal/vfs"
	"github.com/jeranaias/webterm/internal/visualizer"
)

// DefaultVersion is reported by the version verb.
const DefaultVersion = "1.0.0"

// DateLayout is the format printed by date and the welcome banner.
const DateLayout = "1/2/2006, 3:04:05 PM"

// MagicWordLine is repeated while the sudo loop runs.
const MagicWordLine = "YOU DIDN'T SAY THE MAGIC WORD!"

// =============================================================================
// COLLABORATORS
// =============================================================================

// Fetcher retrieves a URL for wget.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetch.Response, error)
}

// Opener hands a host file to the desktop's default application.
type Opener interface {
	Open(ctx context.Context, target string) error
}

// Installer copies the running binary into the user's bin directory.
type Installer interface {
	Install(ctx context.Context) (install.Result, error)
}

// ThemeStore persists the selected theme.
type ThemeStore interface {
	SetTheme(ctx context.Context, name string) error
}

// TreeWalker answers visualizer requests.
type TreeWalker interface {
	Do(ctx context.Context, req visualizer.Request) (visualizer.Response, error)
}

// Importer copies a remote file into a sandbox directory.
type Importer interface {
	Import(ctx context.Context, dir *vfs.Entry, rawURL string) (*vfs.Entry, error)
}

// Options configures a Dispatcher. Nil collaborators disable the verbs
// that need them.
type Options struct {
	Title   string
	Author  string
	Version string

	Fetcher   Fetcher
	Opener    Opener
	Installer Installer
	Themes    ThemeStore
	Walker    TreeWalker
	Importer  Importer

	// TempDir receives copies of in-memory files handed to Opener.
	TempDir string

	// Now is the clock used by date. Defaults to time.Now.
	Now func() time.Time

	Logger *zap.Logger
}

// =============================================================================
// DISPATCHER
// =============================================================================

// Dispatcher executes command lines against a session.
type Dispatcher struct {
	registry *Registry
	parser   *Parser
	session  *session.Session
	opts     Options
	log      *zap.Logger
}

// NewDispatcher creates a dispatcher with the built-in command table.
func NewDispatcher(sess *session.Session, opts Options) *Dispatcher {
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	registry := NewRegistry()
	return &Dispatcher{
		registry: registry,
		parser:   NewParser(registry),
		session:  sess,
		opts:     opts,
		log:      opts.Logger,
	}
}

// Registry returns the command table.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Session returns the session commands run against.
func (d *Dispatcher) Session() *session.Session { return d.session }

// Parse parses a line without executing it.
func (d *Dispatcher) Parse(line string) ParseResult {
	return d.parser.Parse(line)
}

// Dispatch parses and executes a line synchronously.
func (d *Dispatcher) Dispatch(ctx context.Context, line string) Result {
	parsed := d.parser.Parse(line)
	if res, done := parseFailure(parsed); done {
		return res
	}
	return d.Execute(ctx, parsed.Invocation, d.session.Cwd())
}

// Cmd parses line immediately and returns a tea.Cmd that executes it off
// the UI goroutine. The working directory is captured now, so a cd issued
// later does not affect this command. Empty lines return nil.
func (d *Dispatcher) Cmd(ctx context.Context, line string) tea.Cmd {
	parsed := d.parser.Parse(line)
	if parsed.Empty() {
		return nil
	}
	if res, done := parseFailure(parsed); done {
		return func() tea.Msg {
			return ResultMsg{Line: line, Result: res}
		}
	}
	inv := parsed.Invocation
	cwd := d.session.Cwd()
	return func() tea.Msg {
		return ResultMsg{Line: line, Result: d.Execute(ctx, inv, cwd)}
	}
}

// parseFailure converts an empty or invalid parse into a final result.
func parseFailure(parsed ParseResult) (Result, bool) {
	res := Result{Verb: parsed.Verb}
	if parsed.Empty() {
		return res, true
	}
	if parsed.Error != nil {
		res.add(errorFragment("%s", parsed.Error.Error()))
		return res, true
	}
	return res, false
}

// Execute runs a parsed invocation with cwd as the working directory.
func (d *Dispatcher) Execute(ctx context.Context, inv Invocation, cwd *vfs.Entry) Result {
	start := time.Now()
	res := Result{Verb: inv.Verb()}

	switch c := inv.(type) {
	// Filesystem
	case *LsCmd:
		d.ls(ctx, cwd, &res)
	case *PwdCmd:
		res.add(textFragment("%s", cwd.FullPath()))
	case *CdCmd:
		d.cd(ctx, cwd, c, &res)
	case *MkdirCmd:
		d.mkdir(ctx, cwd, c, &res)
	case *TransferCmd:
		d.transfer(ctx, cwd, c, &res)
	case *RmCmd:
		d.rm(ctx, cwd, c, &res)
	case *RmdirCmd:
		d.rmdir(ctx, cwd, c, &res)
	case *CatCmd:
		d.cat(ctx, cwd, c, &res)
	case *OpenCmd:
		d.open(ctx, cwd, c, &res)
	case *ImportCmd:
		d.importURLs(ctx, cwd, c, &res)

	// Terminal
	case *ClearCmd:
		res.Effects |= EffectClear
	case *DateCmd:
		res.add(textFragment("%s", d.opts.Now().Format(DateLayout)))
	case *ThemeCmd:
		d.theme(ctx, c, &res)
	case *VersionCmd:
		res.add(textFragment("%s", d.opts.Version))
	case *HelpCmd:
		d.help(&res)
	case *WhoCmd:
		res.add(textFragment("%s - By: %s", d.opts.Title, d.opts.Author))
	case *WgetCmd:
		d.wget(ctx, c, &res)
	case *ThreeDCmd:
		res.Effects |= EffectClear | EffectToggleVisualizer
		res.add(textFragment("Hold on to your butts!"))
	case *InstallCmd:
		d.install(ctx, &res)
	case *SudoCmd:
		res.Effects |= EffectStartMagicWord | EffectBell
	case *ExitCmd:
		res.Effects |= EffectStopMagicWord
	case *InitCmd:
		d.initTree(ctx, cwd, &res)

	default:
		res.add(errorFragment("%s: command not found", inv.Verb()))
	}

	d.log.Debug("command executed",
		zap.String("verb", res.Verb),
		zap.String("cwd", cwd.FullPath()),
		zap.Int("fragments", len(res.Fragments)),
		zap.Duration("duration", time.Since(start)))
	return res
}

// =============================================================================
// SESSION START
// =============================================================================

// Welcome returns the banner printed when the terminal starts.
func (d *Dispatcher) Welcome() Result {
	res := Result{Verb: "welcome"}
	res.add(
		textFragment("Welcome to %s! (v%s)", d.opts.Title, d.opts.Version),
		textFragment("%s", d.opts.Now().Format(DateLayout)),
		textFragment(`Documentation: type "help"`),
	)
	return res
}

// Probe checks that the sandbox accepts writes and explains when it does
// not.
func (d *Dispatcher) Probe(ctx context.Context) Result {
	res := Result{Verb: "probe"}
	err := d.session.Filesystem().Probe(ctx)
	if err == nil {
		return res
	}
	d.log.Warn("filesystem probe failed", zap.Error(err))
	switch vfs.CodeOf(err) {
	case vfs.CodeQuotaExceeded, vfs.CodeSecurity:
		res.add(
			errorFragment("ERROR: Write access to the FileSystem is unavailable."),
			errorFragment(`Type "install" or raise filesystem.quota_bytes in the config.`),
		)
	default:
		res.add(faultError(err))
	}
	return res
}

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// ResultMsg carries a finished command back to the Update loop.
type ResultMsg struct {
	Line   string
	Result Result
}
