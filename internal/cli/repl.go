// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/jeranaias/webterm/internal/commands"
	"github.com/jeranaias/webterm/internal/util"
	"github.com/jeranaias/webterm/internal/visualizer"
)

// magicWordBurst is how many times the REPL prints the magic word line.
// There is no tick loop in line mode.
const magicWordBurst = 10

// Options configures a REPL.
type Options struct {
	Prompt string

	// In and Out default to os.Stdin and os.Stdout. Line editing is only
	// available when In is a terminal.
	In  io.Reader
	Out io.Writer

	// Walker prints tree snapshots for 3d. Optional.
	Walker commands.TreeWalker

	Logger *zap.Logger
}

// =============================================================================
// REPL
// =============================================================================

// REPL is the line-mode front end.
type REPL struct {
	d         *commands.Dispatcher
	opts      Options
	line      *liner.State
	scanner   *bufio.Scanner
	completer *commands.Completer
	out       *termenv.Output
	tty       bool
	overlay   bool
	log       *zap.Logger
}

// NewREPL creates a REPL over d.
func NewREPL(d *commands.Dispatcher, opts Options) *REPL {
	if opts.Prompt == "" {
		opts.Prompt = "$> "
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	r := &REPL{
		d:         d,
		opts:      opts,
		completer: commands.NewCompleter(d.Registry(), d.Session()),
		out:       termenv.NewOutput(opts.Out),
		tty:       isTerminal(opts.Out),
		log:       opts.Logger,
	}

	if isTerminal(opts.In) {
		r.line = liner.NewLiner()
		r.line.SetCtrlCAborts(true)
		r.line.SetCompleter(r.complete)
	} else {
		r.scanner = bufio.NewScanner(opts.In)
	}
	return r
}

// Close restores the terminal.
func (r *REPL) Close() error {
	if r.line != nil {
		return r.line.Close()
	}
	return nil
}

// Run prints the welcome banner and evaluates lines until EOF, Ctrl+C or
// ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	r.printResult(r.d.Welcome())
	r.printResult(r.d.Probe(ctx))

	for ctx.Err() == nil {
		line, err := r.readLine()
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			if r.line != nil {
				fmt.Fprintln(r.opts.Out)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		r.Eval(ctx, line)
	}
	return nil
}

func (r *REPL) readLine() (string, error) {
	if r.line != nil {
		line, err := r.line.Prompt(r.opts.Prompt)
		if err == nil && strings.TrimSpace(line) != "" {
			r.line.AppendHistory(line)
		}
		return line, err
	}

	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

func (r *REPL) complete(line string) []string {
	comps := r.completer.Complete(context.Background(), line, len(line))
	out := make([]string, len(comps))
	for i, c := range comps {
		out[i] = commands.Apply(line, c)
	}
	return out
}

// Eval runs one line and prints its output.
func (r *REPL) Eval(ctx context.Context, line string) {
	r.d.Session().History().Append(strings.TrimSpace(line))
	res := r.d.Dispatch(ctx, line)
	r.log.Debug("line evaluated", zap.String("verb", res.Verb), zap.Int("fragments", len(res.Fragments)))
	r.apply(ctx, res)
}

func (r *REPL) apply(ctx context.Context, res commands.Result) {
	if res.Has(commands.EffectClear) && r.tty {
		r.out.ClearScreen()
	}
	r.printResult(res)

	if res.Has(commands.EffectStopMagicWord) {
		r.overlay = false
	}
	if res.Has(commands.EffectToggleVisualizer) {
		r.overlay = !r.overlay
		if r.overlay {
			r.printTree(ctx)
		}
	} else if res.Has(commands.EffectTreeChanged) && r.overlay {
		r.printTree(ctx)
	}
	if res.Has(commands.EffectStartMagicWord) {
		for range magicWordBurst {
			fmt.Fprintln(r.opts.Out, commands.MagicWordLine)
		}
	}
	if res.Has(commands.EffectBell) && r.tty {
		fmt.Fprint(r.opts.Out, "\a")
	}
}

// =============================================================================
// OUTPUT
// =============================================================================

func (r *REPL) printResult(res commands.Result) {
	if text := FormatResult(res, TerminalWidth(r.opts.Out)); text != "" {
		fmt.Fprintln(r.opts.Out, text)
	}
}

// FormatResult renders res as plain text. Listings are laid out in columns
// that fit width, with a trailing "/" on folders.
func FormatResult(res commands.Result, width int) string {
	blocks := make([]string, 0, len(res.Fragments))
	for _, f := range res.Fragments {
		var text string
		if f.Kind == commands.KindListing {
			names := make([]string, len(f.Entries))
			for i, e := range f.Entries {
				names[i] = e.Name
				if e.IsDir {
					names[i] += "/"
				}
			}
			text = strings.Join(util.Columns(names, width, nil), "\n")
		} else {
			text = f.PlainText()
		}
		if text != "" {
			blocks = append(blocks, text)
		}
	}
	return strings.Join(blocks, "\n")
}

func (r *REPL) printTree(ctx context.Context) {
	if r.opts.Walker == nil {
		fmt.Fprintln(r.opts.Out, "The visualizer is not running.")
		return
	}
	fsys := r.d.Session().Filesystem()
	resp, err := r.opts.Walker.Do(ctx, visualizer.Request{
		Cmd:  visualizer.CmdRead,
		Type: fsys.Type(),
		Size: fsys.Quota(),
	})
	if err != nil {
		r.log.Warn("visualizer read failed", zap.Error(err))
		fmt.Fprintf(r.opts.Out, "Error: %v\n", err)
		return
	}
	if resp.Entries != nil {
		fmt.Fprintln(r.opts.Out, visualizer.Render(resp.Entries, visualizer.Styles{ShowSizes: true}))
	}
	if resp.Msg != "" {
		fmt.Fprintln(r.opts.Out, resp.Msg)
	}
}
