// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"
	"strings"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command describes one verb of the terminal.
type Command struct {
	// Name is the primary verb (e.g., "version")
	Name string

	// Aliases are alternative verbs (e.g., "ver")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax without the verb. Alternative forms are
	// separated by newlines.
	Usage string

	// Args defines the expected arguments, used for completion
	Args []ArgDef

	// Parse validates the arguments and builds the typed invocation.
	Parse func(verb string, args []string) (Invocation, error)

	// Hidden commands don't appear in help
	Hidden bool

	// Category for grouping in help display
	Category string
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	Name        string
	Required    bool
	Type        ArgType
	Description string
	Values      []string
}

// ArgType indicates what kind of completion to provide.
type ArgType int

const (
	ArgTypeString ArgType = iota // Free-form string
	ArgTypePath                  // Path inside the sandbox
	ArgTypeEnum                  // One of predefined values
	ArgTypeURL                   // Remote location
)

// UsageLines renders the usage text for verb, e.g.
// "usage: cp source target" followed by "       cp source directory/".
func (c *Command) UsageLines(verb string) []string {
	if c.Usage == "" {
		return []string{"usage: " + verb}
	}
	forms := strings.Split(c.Usage, "\n")
	lines := make([]string, 0, len(forms))
	for i, form := range forms {
		prefix := "usage: "
		if i > 0 {
			prefix = strings.Repeat(" ", len(prefix))
		}
		lines = append(lines, prefix+verb+" "+form)
	}
	return lines
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a new command registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands sorted by name.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// Visible returns the commands shown by help, sorted by name.
func (r *Registry) Visible() []*Command {
	var cmds []*Command
	for _, cmd := range r.All() {
		if !cmd.Hidden {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

// ByCategory returns visible commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.Visible() {
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	// Filesystem commands
	r.Register(&Command{
		Name:        "ls",
		Description: "List the current directory",
		Category:    "Filesystem",
		Parse:       parseLs,
	})

	r.Register(&Command{
		Name:        "pwd",
		Description: "Print the working directory",
		Category:    "Filesystem",
		Parse:       parsePwd,
	})

	r.Register(&Command{
		Name:        "cd",
		Description: "Change the working directory",
		Usage:       "[directory]",
		Args: []ArgDef{
			{Name: "directory", Type: ArgTypePath, Description: "Defaults to /"},
		},
		Category: "Filesystem",
		Parse:    parseCd,
	})

	r.Register(&Command{
		Name:        "mkdir",
		Description: "Create directories",
		Usage:       "[-p] directory",
		Args: []ArgDef{
			{Name: "directory", Required: true, Type: ArgTypePath, Description: "Directory to create"},
		},
		Category: "Filesystem",
		Parse:    parseMkdir,
	})

	for _, name := range []string{"cp", "mv"} {
		desc := "Copy a file or directory"
		if name == "mv" {
			desc = "Move or rename a file or directory"
		}
		r.Register(&Command{
			Name:        name,
			Description: desc,
			Usage:       "source target\nsource directory/",
			Args: []ArgDef{
				{Name: "source", Required: true, Type: ArgTypePath},
				{Name: "target", Required: true, Type: ArgTypePath},
			},
			Category: "Filesystem",
			Parse:    parseTransfer,
		})
	}

	r.Register(&Command{
		Name:        "rm",
		Description: "Remove files, or directories with -r",
		Usage:       "[-r|-f|-rf|-fr] file...",
		Args: []ArgDef{
			{Name: "file", Required: true, Type: ArgTypePath},
		},
		Category: "Filesystem",
		Parse:    parseRm,
	})

	r.Register(&Command{
		Name:        "rmdir",
		Description: "Remove empty directories",
		Usage:       "directory...",
		Args: []ArgDef{
			{Name: "directory", Required: true, Type: ArgTypePath},
		},
		Category: "Filesystem",
		Parse:    parseRmdir,
	})

	r.Register(&Command{
		Name:        "cat",
		Description: "Display a file",
		Usage:       "filename",
		Args: []ArgDef{
			{Name: "filename", Required: true, Type: ArgTypePath},
		},
		Category: "Filesystem",
		Parse:    parseCat,
	})

	r.Register(&Command{
		Name:        "open",
		Description: "Open a file with the system viewer",
		Usage:       "filename",
		Args: []ArgDef{
			{Name: "filename", Required: true, Type: ArgTypePath},
		},
		Category: "Filesystem",
		Parse:    parseOpen,
	})

	r.Register(&Command{
		Name:        "import",
		Description: "Copy files from a URL into the current directory",
		Usage:       "url...",
		Args: []ArgDef{
			{Name: "url", Required: true, Type: ArgTypeURL},
		},
		Category: "Filesystem",
		Parse:    parseImport,
	})

	// Terminal commands
	r.Register(&Command{
		Name:        "clear",
		Description: "Clear the screen",
		Category:    "Terminal",
		Parse:       parseClear,
	})

	r.Register(&Command{
		Name:        "date",
		Description: "Show the current date and time",
		Category:    "Terminal",
		Parse:       parseDate,
	})

	r.Register(&Command{
		Name:        "theme",
		Description: "Switch the color theme",
		Usage:       strings.Join(Themes, ","),
		Args: []ArgDef{
			{Name: "name", Required: true, Type: ArgTypeEnum, Values: Themes},
		},
		Category: "Terminal",
		Parse:    parseTheme,
	})

	r.Register(&Command{
		Name:        "version",
		Aliases:     []string{"ver"},
		Description: "Show the version",
		Category:    "Terminal",
		Parse:       parseVersion,
	})

	r.Register(&Command{
		Name:        "help",
		Description: "List available commands",
		Category:    "Terminal",
		Parse:       parseHelp,
	})

	r.Register(&Command{
		Name:        "who",
		Description: "Show who made this",
		Category:    "Terminal",
		Parse:       parseWho,
	})

	r.Register(&Command{
		Name:        "wget",
		Description: "Fetch a URL and show the response",
		Usage:       "missing URL",
		Args: []ArgDef{
			{Name: "url", Required: true, Type: ArgTypeURL},
		},
		Category: "Network",
		Parse:    parseWget,
	})

	r.Register(&Command{
		Name:        "3d",
		Description: "Toggle the filesystem visualizer",
		Category:    "Terminal",
		Parse:       parseThreeD,
	})

	r.Register(&Command{
		Name:        "install",
		Description: "Install webterm into your bin directory",
		Category:    "Terminal",
		Parse:       parseInstall,
	})

	// Easter eggs, not listed by help
	r.Register(&Command{
		Name:     "sudo",
		Hidden:   true,
		Category: "Terminal",
		Parse:    parseSudo,
	})

	r.Register(&Command{
		Name:     "exit",
		Hidden:   true,
		Category: "Terminal",
		Parse:    parseExit,
	})

	r.Register(&Command{
		Name:        "init",
		Description: "Seed the filesystem with demo content",
		Hidden:      true,
		Category:    "Filesystem",
		Parse:       parseInit,
	})
}
