// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"slices"
	"strings"
)

// =============================================================================
// INVOCATIONS
// =============================================================================

// Invocation is one parsed command line, ready to execute. Each verb has
// its own concrete type carrying validated arguments.
type Invocation interface {
	// Verb is the verb as typed, used in messages.
	Verb() string
}

// Base carries the typed verb for every invocation.
type Base struct {
	Name string
}

// Verb returns the verb as typed.
func (b Base) Verb() string { return b.Name }

// LsCmd lists the working directory.
type LsCmd struct{ Base }

// PwdCmd prints the working directory.
type PwdCmd struct{ Base }

// CdCmd changes the working directory.
type CdCmd struct {
	Base
	Path string
}

// MkdirCmd creates directories.
type MkdirCmd struct {
	Base
	Parents bool
	Dirs    []string
}

// TransferCmd copies or moves Src to Dest.
type TransferCmd struct {
	Base
	Move bool
	Src  string
	Dest string
}

// RmCmd removes files, and directories when Recursive is set.
type RmCmd struct {
	Base
	Recursive bool
	Files     []string
}

// RmdirCmd removes empty directories.
type RmdirCmd struct {
	Base
	Dirs []string
}

// CatCmd displays a file.
type CatCmd struct {
	Base
	Path string
}

// OpenCmd hands a file to the host opener.
type OpenCmd struct {
	Base
	Path string
}

// ImportCmd copies remote files into the working directory.
type ImportCmd struct {
	Base
	URLs []string
}

// ClearCmd clears the screen.
type ClearCmd struct{ Base }

// DateCmd prints the current time.
type DateCmd struct{ Base }

// ThemeCmd switches the theme.
type ThemeCmd struct {
	Base
	Theme string
}

// VersionCmd prints the version.
type VersionCmd struct{ Base }

// HelpCmd lists the verbs.
type HelpCmd struct{ Base }

// WhoCmd prints the title and author.
type WhoCmd struct{ Base }

// WgetCmd fetches a URL.
type WgetCmd struct {
	Base
	URL string
}

// ThreeDCmd toggles the visualizer.
type ThreeDCmd struct{ Base }

// InstallCmd installs the binary.
type InstallCmd struct{ Base }

// SudoCmd starts the magic word loop.
type SudoCmd struct{ Base }

// ExitCmd stops the magic word loop and closes the visualizer.
type ExitCmd struct{ Base }

// InitCmd asks the tree walker to seed demo content.
type InitCmd struct{ Base }

// Themes are the names accepted by the theme verb. The first is the default.
var Themes = []string{"default", "cream"}

// =============================================================================
// ARGUMENT PARSERS
// =============================================================================

func parseLs(verb string, _ []string) (Invocation, error) {
	return &LsCmd{Base{verb}}, nil
}

func parsePwd(verb string, _ []string) (Invocation, error) {
	return &PwdCmd{Base{verb}}, nil
}

func parseCd(verb string, args []string) (Invocation, error) {
	dest := strings.Join(args, " ")
	if dest == "" {
		dest = "/"
	}
	return &CdCmd{Base: Base{verb}, Path: dest}, nil
}

func parseMkdir(verb string, args []string) (Invocation, error) {
	cmd := &MkdirCmd{Base: Base{verb}}
	for _, arg := range args {
		if arg == "-p" {
			cmd.Parents = true
			continue
		}
		cmd.Dirs = append(cmd.Dirs, arg)
	}
	if len(cmd.Dirs) == 0 {
		return nil, newUsageError(verb)
	}
	return cmd, nil
}

func parseTransfer(verb string, args []string) (Invocation, error) {
	if len(args) < 2 {
		return nil, newUsageError(verb)
	}
	return &TransferCmd{
		Base: Base{verb},
		Move: verb == "mv",
		Src:  args[0],
		Dest: args[1],
	}, nil
}

var rmFlags = []string{"-r", "-f", "-rf", "-fr"}

func parseRm(verb string, args []string) (Invocation, error) {
	cmd := &RmCmd{Base: Base{verb}}
	for _, arg := range args {
		if slices.Contains(rmFlags, arg) {
			cmd.Recursive = true
			continue
		}
		cmd.Files = append(cmd.Files, arg)
	}
	if len(cmd.Files) == 0 {
		return nil, newUsageError(verb)
	}
	return cmd, nil
}

func parseRmdir(verb string, args []string) (Invocation, error) {
	if len(args) == 0 {
		return nil, newUsageError(verb)
	}
	return &RmdirCmd{Base: Base{verb}, Dirs: args}, nil
}

func parseCat(verb string, args []string) (Invocation, error) {
	name := strings.Join(args, " ")
	if name == "" {
		return nil, newUsageError(verb)
	}
	return &CatCmd{Base: Base{verb}, Path: name}, nil
}

func parseOpen(verb string, args []string) (Invocation, error) {
	name := strings.Join(args, " ")
	if name == "" {
		return nil, newUsageError(verb)
	}
	return &OpenCmd{Base: Base{verb}, Path: name}, nil
}

func parseImport(verb string, args []string) (Invocation, error) {
	if len(args) == 0 {
		return nil, newUsageError(verb)
	}
	return &ImportCmd{Base: Base{verb}, URLs: args}, nil
}

func parseClear(verb string, _ []string) (Invocation, error) {
	return &ClearCmd{Base{verb}}, nil
}

func parseDate(verb string, _ []string) (Invocation, error) {
	return &DateCmd{Base{verb}}, nil
}

func parseTheme(verb string, args []string) (Invocation, error) {
	name := strings.Join(args, " ")
	if name == "" {
		return nil, newUsageError(verb)
	}
	return &ThemeCmd{Base: Base{verb}, Theme: name}, nil
}

func parseVersion(verb string, _ []string) (Invocation, error) {
	return &VersionCmd{Base{verb}}, nil
}

func parseHelp(verb string, _ []string) (Invocation, error) {
	return &HelpCmd{Base{verb}}, nil
}

func parseWho(verb string, _ []string) (Invocation, error) {
	return &WhoCmd{Base{verb}}, nil
}

func parseWget(verb string, args []string) (Invocation, error) {
	if len(args) == 0 {
		return nil, newUsageError(verb)
	}
	return &WgetCmd{Base: Base{verb}, URL: args[0]}, nil
}

func parseThreeD(verb string, _ []string) (Invocation, error) {
	return &ThreeDCmd{Base{verb}}, nil
}

func parseInstall(verb string, _ []string) (Invocation, error) {
	return &InstallCmd{Base{verb}}, nil
}

func parseSudo(verb string, _ []string) (Invocation, error) {
	return &SudoCmd{Base{verb}}, nil
}

func parseExit(verb string, _ []string) (Invocation, error) {
	return &ExitCmd{Base{verb}}, nil
}

func parseInit(verb string, _ []string) (Invocation, error) {
	return &InitCmd{Base{verb}}, nil
}
