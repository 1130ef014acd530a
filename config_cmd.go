// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jeranaias/webterm/internal/config"
)

// =============================================================================
// CONFIG SUBCOMMAND
// =============================================================================

var (
	configKeyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#33ff66"))
	configOKStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#33ff66")).Bold(true)
)

// newConfigCmd builds "webterm config" with show, list, get, set and path.
func newConfigCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return configShow(cmd, f)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration as JSON",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return configShow(cmd, f)
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "Print every key with its effective value",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := loadEffective(f)
				if err != nil {
					return err
				}
				for _, key := range config.GetAllKeys() {
					v, err := cfg.Get(key)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", configKeyStyle.Render(key), v)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one effective value, e.g. filesystem.quota_bytes",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadEffective(f)
				if err != nil {
					return err
				}
				v, err := cfg.Get(normalizeKey(args[0]))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Change one value in the configuration file",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return configSet(cmd, f, normalizeKey(args[0]), args[1])
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				path, err := editPath(f)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
	)
	return cmd
}

// normalizeKey accepts "ui.default-theme" and "UI.Default_Theme" alike.
func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}

// loadEffective loads the configuration the terminal would run with,
// environment overrides included.
func loadEffective(f *flags) (*config.Config, error) {
	if f.configPath != "" {
		return config.LoadFromPath(f.configPath)
	}
	return config.Load()
}

func configShow(cmd *cobra.Command, f *flags) error {
	cfg, err := loadEffective(f)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), cfg.String())
	return nil
}

// editPath is the file "config set" writes: --config when given, else the
// existing JSON file if there is no TOML one, else config.toml.
func editPath(f *flags) (string, error) {
	if f.configPath != "" {
		return f.configPath, nil
	}
	tomlPath, err := config.ConfigPathTOML()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath, nil
	}
	jsonPath, err := config.ConfigPathJSON()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(jsonPath); err == nil {
		return jsonPath, nil
	}
	return tomlPath, nil
}

func configSet(cmd *cobra.Command, f *flags, key, value string) error {
	path, err := editPath(f)
	if err != nil {
		return err
	}
	current, err := config.LoadForEdit(path)
	if err != nil {
		return err
	}

	updated := current.Clone()
	if err := updated.Set(key, value); err != nil {
		return err
	}
	if err := updated.Validate(); err != nil {
		return fmt.Errorf("invalid configuration value: %w", err)
	}

	if strings.HasSuffix(path, ".json") {
		err = config.SaveJSON(updated, path)
	} else {
		err = config.SaveTOML(updated, path)
	}
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	v, _ := updated.Get(key)
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %v\n", configOKStyle.Render("[OK]"), key, v)
	return nil
}
