// webterm - a novelty terminal over a sandboxed filesystem.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/webterm/internal/cli"
	"github.com/jeranaias/webterm/internal/commands"
	"github.com/jeranaias/webterm/internal/config"
	"github.com/jeranaias/webterm/internal/logging"
	"github.com/jeranaias/webterm/internal/ui/terminal"
)

// Version information (set at build time)
var (
	Version   = commands.DefaultVersion
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// flags holds the root command's flags.
type flags struct {
	configPath string
	plain      bool
	persistent bool
	root       string
	quota      int64
	imports    []string
	debug      bool
}

func newRootCmd() *cobra.Command {
	var f flags

	rootCmd := &cobra.Command{
		Use:   "webterm",
		Short: "webterm - a novelty terminal over a sandboxed filesystem",
		Long: `webterm is a fake terminal. It understands a small set of shell-like
commands (ls, cd, mkdir, cp, mv, rm, cat, wget, ...) and runs them against a
sandboxed virtual filesystem. The sandbox lives in memory unless --persistent
is given.

Type "help" at the prompt for the command list, or "3d" for the visualizer.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), f)
		},
	}

	rootCmd.PersistentFlags().StringVar(&f.configPath, "config", "", "Config file (default: ~/.webterm/config.toml)")
	rootCmd.Flags().BoolVar(&f.plain, "plain", false, "Use the line-mode REPL instead of the full-screen UI")
	rootCmd.Flags().BoolVar(&f.persistent, "persistent", false, "Keep the sandbox in a host directory")
	rootCmd.Flags().StringVar(&f.root, "root", "", "Host directory of a persistent sandbox (default: ~/.webterm/sandbox)")
	rootCmd.Flags().Int64Var(&f.quota, "quota", 0, "Sandbox quota in bytes")
	rootCmd.Flags().StringSliceVar(&f.imports, "import", nil, "Copy files from URLs into the sandbox root at startup")
	rootCmd.Flags().BoolVar(&f.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newConfigCmd(&f))
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "webterm %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
		},
	})

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads the config file and layers the command-line flags over
// it.
func loadConfig(f flags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFromPath(f.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	overrides := &config.Config{}
	overrides.Filesystem.Persistent = f.persistent || f.root != ""
	overrides.Filesystem.Root = f.root
	overrides.Filesystem.QuotaBytes = f.quota
	cfg.Merge(overrides)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	config.SetGlobal(cfg)
	return cfg, nil
}

func run(ctx context.Context, f flags) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}

	log := logging.NewOrNop(logging.FromConfig(cfg.Logging, f.debug))
	defer func() { _ = log.Sync() }()

	a, err := newApp(ctx, cfg, log, Version)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, rawURL := range f.imports {
		if err := a.importAtStart(ctx, rawURL); err != nil {
			fmt.Fprintf(os.Stderr, "import: %v\n", err)
		}
	}

	log.Info("webterm started",
		zap.String("version", Version),
		zap.String("filesystem", a.fsys.Type().String()),
		zap.Bool("tui", cli.UseTUI(f.plain)))

	if !cli.UseTUI(f.plain) {
		repl := cli.NewREPL(a.dispatcher, cli.Options{
			Prompt: cfg.Terminal.Prompt,
			Walker: a.worker,
			Logger: log,
		})
		defer repl.Close()
		return repl.Run(ctx)
	}

	m := terminal.New(terminal.Options{
		Dispatcher: a.dispatcher,
		Walker:     a.worker,
		Watcher:    a.watcher,
		Prompt:     cfg.Terminal.Prompt,
		Theme:      a.theme(ctx),
		Flicker:    cfg.UI.ScreenFlicker,
		ShowSizes:  cfg.UI.ShowSizes,
		Context:    ctx,
		Logger:     log,
	})

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("error running webterm: %w", err)
	}
	return nil
}
