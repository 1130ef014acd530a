// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jeranaias/webterm/internal/config"
	"github.com/jeranaias/webterm/internal/install"
	"github.com/jeranaias/webterm/internal/logging"
)

const version = "1.0.0"

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#33ff66")).Bold(true)
	skipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7a8a7a"))
)

type options struct {
	source   string
	binDir   string
	noConfig bool
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:          "webterm-install",
		Short:        "Install webterm into your bin directory",
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInstall(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.source, "source", "", "webterm binary to install (default: next to this program)")
	cmd.Flags().StringVar(&opts.binDir, "bin-dir", "", "Destination directory (default: ~/.local/bin)")
	cmd.Flags().BoolVar(&opts.noConfig, "no-config", false, "Do not write a default config file")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// defaultSource returns the webterm binary next to the running program.
func defaultSource() (string, error) {
	self, err := os.Executable()
	if err != nil {
		return "", err
	}
	name := install.DefaultName
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(filepath.Dir(self), name), nil
}

func runInstall(cmd *cobra.Command, opts options) error {
	out := cmd.OutOrStdout()
	log := logging.NewOrNop(logging.Options{Level: "info"})
	defer func() { _ = log.Sync() }()

	inst := install.New(log)
	inst.BinDir = opts.binDir
	if opts.source != "" {
		src := opts.source
		inst.Executable = func() (string, error) { return src, nil }
	} else {
		inst.Executable = defaultSource
	}

	res, err := inst.Install(cmd.Context())
	if err != nil {
		return fmt.Errorf("install failed: %w", err)
	}
	if res.AlreadyInstalled {
		fmt.Fprintln(out, skipStyle.Render("Already installed: "+res.Path))
	} else {
		fmt.Fprintln(out, okStyle.Render("Installed: "+res.Path))
	}

	if opts.noConfig {
		return nil
	}
	return writeDefaultConfig(out)
}

// writeDefaultConfig saves config.Default() unless a config file exists.
func writeDefaultConfig(out io.Writer) error {
	for _, pathFn := range []func() (string, error){config.ConfigPathTOML, config.ConfigPathJSON} {
		path, err := pathFn()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintln(out, skipStyle.Render("Config exists: "+path))
			return nil
		}
	}

	if err := config.Save(config.Default()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	path, _ := config.ConfigPathTOML()
	fmt.Fprintln(out, okStyle.Render("Wrote config: "+path))
	return nil
}
