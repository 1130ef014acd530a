// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for webterm.
//
// # Key Types
//
//   - Config: Main configuration structure
//   - FilesystemConfig: Sandbox backend, quota and reader batch size
//   - NetworkConfig: wget limits
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command-line flags (merged by the caller with Merge)
//   - Environment variables (WEBTERM_*)
//   - ~/.webterm/config.toml
//   - ~/.webterm/config.json
//   - Built-in defaults
//
// WEBTERM_HOME relocates the whole ~/.webterm directory.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	quota := cfg.Filesystem.QuotaBytes
package config
