// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/webterm/internal/fetch"
	"github.com/jeranaias/webterm/internal/vfs"
	"github.com/jeranaias/webterm/internal/visualizer"
)

// =============================================================================
// THEME
// =============================================================================

func (d *Dispatcher) theme(ctx context.Context, c *ThemeCmd, res *Result) {
	if !slices.Contains(Themes, c.Theme) {
		res.add(errorFragment("Error - Unrecognized theme used"))
		return
	}
	if d.opts.Themes != nil {
		if err := d.opts.Themes.SetTheme(ctx, c.Theme); err != nil {
			d.log.Warn("failed to persist theme", zap.String("theme", c.Theme), zap.Error(err))
			res.add(errorFragment("%s: %v", c.Verb(), err))
			return
		}
	}
	res.Effects |= EffectTheme
	res.Theme = c.Theme
}

// =============================================================================
// HELP
// =============================================================================

func (d *Dispatcher) help(res *Result) {
	frag := Fragment{
		Kind: KindHelp,
		Text: "Add files with: import <url>",
	}

	var md strings.Builder
	md.WriteString("| command | usage | description |\n")
	md.WriteString("|---|---|---|\n")
	for _, cmd := range d.registry.Visible() {
		frag.Entries = append(frag.Entries, ListEntry{Name: cmd.Name})

		usage := cmd.Name
		if cmd.Usage != "" {
			usage += " " + strings.ReplaceAll(cmd.Usage, "\n", " | "+cmd.Name+" ")
		}
		usage = strings.ReplaceAll(usage, "|", `\|`)
		fmt.Fprintf(&md, "| `%s` | %s | %s |\n", cmd.Name, usage, cmd.Description)
	}
	md.WriteString("\n" + frag.Text + "\n")
	frag.Markdown = md.String()
	res.add(frag)
}

// =============================================================================
// NETWORK
// =============================================================================

func (d *Dispatcher) wget(ctx context.Context, c *WgetCmd, res *Result) {
	if d.opts.Fetcher == nil {
		res.add(errorFragment("%s: network access is disabled", c.Verb()))
		return
	}
	target := fetch.NormalizeURL(c.URL)
	resp, err := d.opts.Fetcher.Fetch(ctx, target)
	if err != nil {
		d.log.Debug("wget failed", zap.String("url", target), zap.Error(err))
		res.add(
			errorFragment("ERROR: %v", err),
			errorFragment("Could not fetch %s", target),
		)
		return
	}
	if resp.Status != http.StatusOK {
		res.add(errorFragment("ERROR: %d %s", resp.Status, resp.StatusText))
		return
	}
	res.add(Fragment{Kind: KindRaw, Name: target, Text: resp.Body})
}

// =============================================================================
// INSTALL
// =============================================================================

func (d *Dispatcher) install(ctx context.Context, res *Result) {
	if d.opts.Installer == nil {
		return
	}
	result, err := d.opts.Installer.Install(ctx)
	if err != nil {
		res.add(errorFragment("install: %v", err))
		return
	}
	if result.AlreadyInstalled {
		res.add(textFragment("This app is already installed."))
		return
	}
	res.add(textFragment("Installed %s to %s", d.opts.Title, result.Path))
}

// =============================================================================
// VISUALIZER
// =============================================================================

func (d *Dispatcher) initTree(ctx context.Context, cwd *vfs.Entry, res *Result) {
	if d.opts.Walker == nil {
		res.add(errorFragment("init: visualizer is not running"))
		return
	}
	fsys := cwd.Filesystem()
	resp, err := d.opts.Walker.Do(ctx, visualizer.Request{
		Cmd:  visualizer.CmdInit,
		Type: fsys.Type(),
		Size: fsys.Quota(),
	})
	if err != nil {
		res.add(errorFragment("init: %v", err))
		return
	}
	if resp.Msg != "" {
		res.add(textFragment("%s", resp.Msg))
	}
	res.Effects |= EffectTreeChanged
}
