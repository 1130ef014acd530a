// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/webterm/internal/vfs"
)

// =============================================================================
// SESSION
// =============================================================================

// Session tracks the state of one terminal.
type Session struct {
	mu sync.RWMutex

	id        string
	startTime time.Time
	fsys      *vfs.FileSystem
	cwd       *vfs.Entry
	history   *History
}

// New creates a session whose working directory is the filesystem root.
func New(fsys *vfs.FileSystem) *Session {
	return &Session{
		id:        generateSessionID(),
		startTime: time.Now(),
		fsys:      fsys,
		cwd:       fsys.Root(),
		history:   NewHistory(),
	}
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// StartTime returns when the session started.
func (s *Session) StartTime() time.Time {
	return s.startTime
}

// Filesystem returns the sandbox the session operates on.
func (s *Session) Filesystem() *vfs.FileSystem {
	return s.fsys
}

// Cwd returns the current working directory.
func (s *Session) Cwd() *vfs.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cwd
}

// SetCwd replaces the working directory. Non-directories are ignored.
func (s *Session) SetCwd(dir *vfs.Entry) {
	if dir == nil || !dir.IsDirectory() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cwd = dir
}

// History returns the command history.
func (s *Session) History() *History {
	return s.history
}

// =============================================================================
// SESSION STATUS
// =============================================================================

// Status is a point-in-time summary of the session, used for logging.
type Status struct {
	SessionID string
	StartTime time.Time
	Duration  time.Duration
	Cwd       string
	Commands  int
}

// GetStatus returns the current session status.
func (s *Session) GetStatus() Status {
	return Status{
		SessionID: s.id,
		StartTime: s.startTime,
		Duration:  time.Since(s.startTime),
		Cwd:       s.Cwd().FullPath(),
		Commands:  s.history.Len(),
	}
}

// generateSessionID creates a unique session ID.
func generateSessionID() string {
	return "sess_" + uuid.NewString()
}
