// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for webterm.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.webterm/config.toml
//   - ~/.webterm/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"

	"github.com/jeranaias/webterm/internal/util"
)

// CurrentVersion is the config file format version written by Save.
const CurrentVersion = "1.0.0"

// HomeEnv overrides the configuration directory. Used by tests and portable
// installs.
const HomeEnv = "WEBTERM_HOME"

// Themes lists the accepted ui.default_theme values.
var Themes = []string{"default", "cream"}

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete webterm configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Terminal identity shown by who, version and the banner
	Terminal TerminalConfig `toml:"terminal" json:"terminal"`

	// Sandbox backend
	Filesystem FilesystemConfig `toml:"filesystem" json:"filesystem"`

	UI UIConfig `toml:"ui" json:"ui"`

	// wget and http(s) imports
	Network NetworkConfig `toml:"network" json:"network"`

	Logging LoggingConfig `toml:"logging" json:"logging"`

	Install InstallConfig `toml:"install" json:"install"`
}

// TerminalConfig contains the terminal's identity.
type TerminalConfig struct {
	// Title is printed by who and the welcome banner
	Title string `toml:"title" json:"title"`
	// Author is printed by who
	Author string `toml:"author" json:"author"`
	// Prompt precedes the input line
	Prompt string `toml:"prompt" json:"prompt"`
}

// FilesystemConfig contains sandbox configuration.
type FilesystemConfig struct {
	// Persistent selects a host directory backend instead of memory
	Persistent bool `toml:"persistent" json:"persistent"`
	// Root is the host directory of a persistent sandbox
	Root string `toml:"root" json:"root"`
	// QuotaBytes caps total file content (0 = unlimited)
	QuotaBytes int64 `toml:"quota_bytes" json:"quota_bytes"`
	// ReaderBatchSize is the number of entries per directory read
	ReaderBatchSize int `toml:"reader_batch_size" json:"reader_batch_size"`
	// ReadOnly rejects every modification
	ReadOnly bool `toml:"read_only" json:"read_only"`
	// ImportMaxBytes caps a single imported file
	ImportMaxBytes int64 `toml:"import_max_bytes" json:"import_max_bytes"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// DefaultTheme is used when no theme preference is stored: "default", "cream"
	DefaultTheme string `toml:"default_theme" json:"default_theme"`
	// AltScreen runs the UI in the terminal's alternate screen
	AltScreen bool `toml:"alt_screen" json:"alt_screen"`
	// ScreenFlicker starts with the flicker effect on
	ScreenFlicker bool `toml:"screen_flicker" json:"screen_flicker"`
	// ShowSizes prints file sizes in the visualizer tree
	ShowSizes bool `toml:"show_sizes" json:"show_sizes"`
}

// NetworkConfig contains wget configuration.
type NetworkConfig struct {
	// Enabled allows wget and http(s) imports
	Enabled bool `toml:"enabled" json:"enabled"`
	// TimeoutSecs bounds a single request
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// MaxBytes caps the body printed by wget
	MaxBytes int64 `toml:"max_bytes" json:"max_bytes"`
	// RequestsPerSecond limits outbound requests
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second"`
	// Burst is the limiter's bucket size
	Burst int `toml:"burst" json:"burst"`
	// MaxRedirects is the number of redirects followed
	MaxRedirects int `toml:"max_redirects" json:"max_redirects"`
	UserAgent    string `toml:"user_agent" json:"user_agent"`
}

// LoggingConfig contains log output configuration.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `toml:"level" json:"level"`
	// File is the log destination. Empty means ~/.webterm/logs/webterm.log
	File string `toml:"file" json:"file"`
}

// InstallConfig contains install verb configuration.
type InstallConfig struct {
	// BinDir receives the installed binary. Empty means the platform default
	BinDir string `toml:"bin_dir" json:"bin_dir"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,

		Terminal: TerminalConfig{
			Title:  "webterm",
			Author: "Morgan Forge",
			Prompt: "$> ",
		},

		Filesystem: FilesystemConfig{
			Persistent:      false,
			Root:            "",
			QuotaBytes:      5 * 1024 * 1024,
			ReaderBatchSize: 10,
			ReadOnly:        false,
			ImportMaxBytes:  10 * 1024 * 1024,
		},

		UI: UIConfig{
			DefaultTheme:  "default",
			AltScreen:     true,
			ScreenFlicker: false,
			ShowSizes:     true,
		},

		Network: NetworkConfig{
			Enabled:           true,
			TimeoutSecs:       30,
			MaxBytes:          1 << 20,
			RequestsPerSecond: 2,
			Burst:             4,
			MaxRedirects:      5,
			UserAgent:         "webterm-wget/1.0",
		},

		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the webterm configuration directory path.
func ConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".webterm"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// SandboxDir returns the default root of a persistent sandbox.
func SandboxDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sandbox"), nil
}

// LogPath returns the default log file path.
func LogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs", "webterm.log"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions tightens a config file to 0600.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	for _, candidate := range []struct {
		path func() (string, error)
		load func(*Config, string) error
		kind string
	}{
		{ConfigPathTOML, LoadTOML, "TOML"},
		{ConfigPathJSON, LoadJSON, "JSON"},
	} {
		path, err := candidate.path()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		if err := candidate.load(cfg, path); err != nil {
			loadErr = fmt.Errorf("failed to load %s config: %w", candidate.kind, err)
			cfg = Default()
			continue
		}
		if err := cfg.finish(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if err := cfg.finish(); err != nil {
		return nil, err
	}

	// Defaults, with any load error for informational purposes
	return cfg, loadErr
}

// finish applies env overrides, migration, defaults and validation.
func (c *Config) finish() error {
	c.ApplyEnvOverrides()
	if err := c.Migrate(); err != nil {
		return fmt.Errorf("config migration failed: %w", err)
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		// Permissions might not be fixable on all systems
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadFromPath loads configuration from a specific file path with full
// validation. Used by the --config flag.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadForEdit loads the file at path for "webterm config set". Environment
// overrides are not applied, so saving the result back writes only what the
// file and the edit contain. A missing file yields the defaults.
func LoadForEdit(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		load := LoadTOML
		if strings.HasSuffix(path, ".json") {
			load = LoadJSON
		}
		if err := load(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	if err := cfg.Migrate(); err != nil {
		return nil, fmt.Errorf("config migration failed: %w", err)
	}
	cfg.SetDefaults()
	return cfg, nil
}

// fillDefaults fills in any missing string and size values with defaults.
// Booleans are left alone: a file that says false means false.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	// Terminal
	if cfg.Terminal.Title == "" {
		cfg.Terminal.Title = defaults.Terminal.Title
	}
	if cfg.Terminal.Author == "" {
		cfg.Terminal.Author = defaults.Terminal.Author
	}
	if cfg.Terminal.Prompt == "" {
		cfg.Terminal.Prompt = defaults.Terminal.Prompt
	}

	// Filesystem
	if cfg.Filesystem.ReaderBatchSize == 0 {
		cfg.Filesystem.ReaderBatchSize = defaults.Filesystem.ReaderBatchSize
	}
	if cfg.Filesystem.ImportMaxBytes == 0 {
		cfg.Filesystem.ImportMaxBytes = defaults.Filesystem.ImportMaxBytes
	}

	// UI
	if cfg.UI.DefaultTheme == "" {
		cfg.UI.DefaultTheme = defaults.UI.DefaultTheme
	}

	// Network
	if cfg.Network.TimeoutSecs == 0 {
		cfg.Network.TimeoutSecs = defaults.Network.TimeoutSecs
	}
	if cfg.Network.MaxBytes == 0 {
		cfg.Network.MaxBytes = defaults.Network.MaxBytes
	}
	if cfg.Network.RequestsPerSecond == 0 {
		cfg.Network.RequestsPerSecond = defaults.Network.RequestsPerSecond
	}
	if cfg.Network.Burst == 0 {
		cfg.Network.Burst = defaults.Network.Burst
	}
	if cfg.Network.UserAgent == "" {
		cfg.Network.UserAgent = defaults.Network.UserAgent
	}

	// Logging
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}

	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	// The file may have existed with wider permissions
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# webterm configuration file")
	fmt.Fprintln(file, "# Generated by webterm - edit with care")
	fmt.Fprintln(file, "#")
	fmt.Fprintln(file, "# Documentation: https://github.com/jeranaias/webterm")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file atomically with 0600
// permissions.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects every problem found by Validate.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Terminal
	if strings.ContainsAny(c.Terminal.Prompt, "\r\n") {
		errs = append(errs, ValidationError{
			Field:   "terminal.prompt",
			Message: "prompt must be a single line",
		})
	}

	// Filesystem
	if c.Filesystem.QuotaBytes < 0 {
		errs = append(errs, ValidationError{
			Field:   "filesystem.quota_bytes",
			Message: "quota cannot be negative (use 0 for unlimited)",
		})
	}
	if c.Filesystem.ReaderBatchSize < 1 || c.Filesystem.ReaderBatchSize > 1000 {
		errs = append(errs, ValidationError{
			Field:   "filesystem.reader_batch_size",
			Message: fmt.Sprintf("batch size %d out of range, must be 1-1000", c.Filesystem.ReaderBatchSize),
		})
	}
	if c.Filesystem.ImportMaxBytes < 0 {
		errs = append(errs, ValidationError{
			Field:   "filesystem.import_max_bytes",
			Message: "import limit cannot be negative",
		})
	}

	// UI
	if !isTheme(c.UI.DefaultTheme) {
		errs = append(errs, ValidationError{
			Field:   "ui.default_theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: %s", c.UI.DefaultTheme, strings.Join(Themes, ", ")),
		})
	}

	// Network
	if c.Network.TimeoutSecs < 1 || c.Network.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "network.timeout_secs",
			Message: fmt.Sprintf("timeout %d out of range, must be 1-600 seconds", c.Network.TimeoutSecs),
		})
	}
	if c.Network.MaxBytes < 1 {
		errs = append(errs, ValidationError{
			Field:   "network.max_bytes",
			Message: "max_bytes must be positive",
		})
	}
	if c.Network.RequestsPerSecond <= 0 {
		errs = append(errs, ValidationError{
			Field:   "network.requests_per_second",
			Message: "requests_per_second must be positive",
		})
	}
	if c.Network.Burst < 1 {
		errs = append(errs, ValidationError{
			Field:   "network.burst",
			Message: "burst must be at least 1",
		})
	}
	if c.Network.MaxRedirects < 0 {
		errs = append(errs, ValidationError{
			Field:   "network.max_redirects",
			Message: "max_redirects cannot be negative",
		})
	}

	// Logging
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Logging.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func isTheme(name string) bool {
	for _, t := range Themes {
		if t == name {
			return true
		}
	}
	return false
}

// SetDefaults fills zero values left after loading and clamps the reader
// batch size.
func (c *Config) SetDefaults() {
	_ = fillDefaults(c)
	if c.Filesystem.ReaderBatchSize < 1 {
		c.Filesystem.ReaderBatchSize = Default().Filesystem.ReaderBatchSize
	}
}

// Migrate handles migration from old configuration formats to new ones.
func (c *Config) Migrate() error {
	// Earlier builds called the phosphor theme "green"
	theme := strings.ToLower(c.UI.DefaultTheme)
	if theme == "green" {
		theme = "default"
	}
	c.UI.DefaultTheme = theme

	c.Logging.Level = strings.ToLower(c.Logging.Level)
	if c.Logging.Level == "warning" {
		c.Logging.Level = "warn"
	}

	if c.Version == "" {
		c.Version = CurrentVersion
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - WEBTERM_TITLE: overrides terminal.title
//   - WEBTERM_PERSISTENT: set to "1" or "true" for a host-backed sandbox
//   - WEBTERM_ROOT: overrides filesystem.root
//   - WEBTERM_QUOTA: overrides filesystem.quota_bytes
//   - WEBTERM_THEME: overrides ui.default_theme
//   - WEBTERM_OFFLINE: set to "1" or "true" to disable wget
//   - WEBTERM_LOG_LEVEL: overrides logging.level
//   - WEBTERM_BIN_DIR: overrides install.bin_dir
func (c *Config) ApplyEnvOverrides() {
	if title := os.Getenv("WEBTERM_TITLE"); title != "" {
		c.Terminal.Title = title
	}

	if persistent := os.Getenv("WEBTERM_PERSISTENT"); persistent != "" {
		c.Filesystem.Persistent = envBool(persistent)
	}

	if root := os.Getenv("WEBTERM_ROOT"); root != "" {
		c.Filesystem.Root = root
	}

	if quota := os.Getenv("WEBTERM_QUOTA"); quota != "" {
		if n, err := strconv.ParseInt(quota, 10, 64); err == nil {
			c.Filesystem.QuotaBytes = n
		}
	}

	if theme := os.Getenv("WEBTERM_THEME"); theme != "" {
		c.UI.DefaultTheme = theme
	}

	if offline := os.Getenv("WEBTERM_OFFLINE"); offline != "" {
		c.Network.Enabled = !envBool(offline)
	}

	if level := os.Getenv("WEBTERM_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}

	if dir := os.Getenv("WEBTERM_BIN_DIR"); dir != "" {
		c.Install.BinDir = dir
	}
}

func envBool(v string) bool {
	return v == "1" || strings.ToLower(v) == "true"
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "filesystem.quota_bytes").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "ui.default_theme").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// lookup walks the dotted key down the struct tree.
func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			return field, nil
		}

		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}

	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(strVal == "1" || lower == "true" || lower == "yes")
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && field.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"terminal.title",
		"terminal.author",
		"terminal.prompt",
		"filesystem.persistent",
		"filesystem.root",
		"filesystem.quota_bytes",
		"filesystem.reader_batch_size",
		"filesystem.read_only",
		"filesystem.import_max_bytes",
		"ui.default_theme",
		"ui.alt_screen",
		"ui.screen_flicker",
		"ui.show_sizes",
		"network.enabled",
		"network.timeout_secs",
		"network.max_bytes",
		"network.requests_per_second",
		"network.burst",
		"network.max_redirects",
		"network.user_agent",
		"logging.level",
		"logging.file",
		"install.bin_dir",
	}
}

// Merge merges another config into this one, overwriting only non-zero
// values. Used to layer command-line flags over the loaded file.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Version != "" {
		c.Version = other.Version
	}

	// Terminal
	if other.Terminal.Title != "" {
		c.Terminal.Title = other.Terminal.Title
	}
	if other.Terminal.Author != "" {
		c.Terminal.Author = other.Terminal.Author
	}
	if other.Terminal.Prompt != "" {
		c.Terminal.Prompt = other.Terminal.Prompt
	}

	// Filesystem
	if other.Filesystem.Persistent {
		c.Filesystem.Persistent = true
	}
	if other.Filesystem.Root != "" {
		c.Filesystem.Root = other.Filesystem.Root
	}
	if other.Filesystem.QuotaBytes != 0 {
		c.Filesystem.QuotaBytes = other.Filesystem.QuotaBytes
	}
	if other.Filesystem.ReaderBatchSize != 0 {
		c.Filesystem.ReaderBatchSize = other.Filesystem.ReaderBatchSize
	}
	if other.Filesystem.ReadOnly {
		c.Filesystem.ReadOnly = true
	}
	if other.Filesystem.ImportMaxBytes != 0 {
		c.Filesystem.ImportMaxBytes = other.Filesystem.ImportMaxBytes
	}

	// UI
	if other.UI.DefaultTheme != "" {
		c.UI.DefaultTheme = other.UI.DefaultTheme
	}
	if other.UI.ScreenFlicker {
		c.UI.ScreenFlicker = true
	}

	// Network
	if other.Network.TimeoutSecs != 0 {
		c.Network.TimeoutSecs = other.Network.TimeoutSecs
	}
	if other.Network.MaxBytes != 0 {
		c.Network.MaxBytes = other.Network.MaxBytes
	}
	if other.Network.RequestsPerSecond != 0 {
		c.Network.RequestsPerSecond = other.Network.RequestsPerSecond
	}
	if other.Network.Burst != 0 {
		c.Network.Burst = other.Network.Burst
	}
	if other.Network.UserAgent != "" {
		c.Network.UserAgent = other.Network.UserAgent
	}

	// Logging
	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Logging.File != "" {
		c.Logging.File = other.Logging.File
	}

	// Install
	if other.Install.BinDir != "" {
		c.Install.BinDir = other.Install.BinDir
	}
}

// Clone returns a copy of the configuration. Config holds no maps or
// slices, so a value copy is deep.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns an indented JSON representation for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			if cfg == nil {
				cfg = Default()
			}
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
