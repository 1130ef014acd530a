// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ThemeKey holds the selected theme.
const ThemeKey = "theme"

// DefaultTheme is the theme used when none is stored. Selecting it removes
// the stored key.
const DefaultTheme = "default"

// ErrClosed is returned after Close.
var ErrClosed = errors.New("storage: preferences closed")

const schema = `
CREATE TABLE IF NOT EXISTS prefs (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// =============================================================================
// PREFERENCES STORE
// =============================================================================

// Prefs is a string key/value store.
type Prefs struct {
	db *sql.DB
}

// DefaultPath returns ~/.webterm/prefs.db, or a path in the working
// directory when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".webterm", "prefs.db")
	}
	return filepath.Join(home, ".webterm", "prefs.db")
}

// Open opens or creates the database at path. ":memory:" opens a private
// in-memory database.
func Open(path string) (*Prefs, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Prefs{db: db}, nil
}

// Close closes the database.
func (p *Prefs) Close() error {
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}

// Get returns the value for key and whether it was set.
func (p *Prefs) Get(ctx context.Context, key string) (string, bool, error) {
	if p.db == nil {
		return "", false, ErrClosed
	}
	var value string
	err := p.db.QueryRowContext(ctx, "SELECT value FROM prefs WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key.
func (p *Prefs) Set(ctx context.Context, key, value string) error {
	if p.db == nil {
		return ErrClosed
	}
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO prefs (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (p *Prefs) Delete(ctx context.Context, key string) error {
	if p.db == nil {
		return ErrClosed
	}
	if _, err := p.db.ExecContext(ctx, "DELETE FROM prefs WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// =============================================================================
// THEME
// =============================================================================

// Theme returns the stored theme, or DefaultTheme.
func (p *Prefs) Theme(ctx context.Context) (string, error) {
	value, ok, err := p.Get(ctx, ThemeKey)
	if err != nil || !ok {
		return DefaultTheme, err
	}
	return value, nil
}

// SetTheme stores the selected theme. The default theme clears the key.
func (p *Prefs) SetTheme(ctx context.Context, name string) error {
	if name == DefaultTheme {
		return p.Delete(ctx, ThemeKey)
	}
	return p.Set(ctx, ThemeKey, name)
}
