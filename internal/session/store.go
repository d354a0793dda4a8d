// Package session persists and restores the single authenticated session.
//
// The store holds exactly one session record in a local JSON file, the
// authoritative in-memory copy guarded by a mutex. There is no client-side
// expiry: an invalid token only surfaces when the backend rejects a call.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"leavedesk/internal/domain"
)

// Store is the file-backed session store.
type Store struct {
	path string

	mu  sync.RWMutex
	cur *domain.Session
}

// NewStore creates a store persisting to the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted session once at process start. A missing or
// malformed file means "no session"; Load never fails.
func (s *Store) Load() *domain.Session {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Session file unreadable, starting signed out", "path", s.path, "error", err)
		}
		return nil
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		slog.Warn("Session file malformed, starting signed out", "path", s.path, "error", err)
		return nil
	}
	if sess.Token == "" || sess.User.ID == "" || !sess.User.Role.Valid() {
		slog.Warn("Session file incomplete, starting signed out", "path", s.path)
		return nil
	}

	s.mu.Lock()
	s.cur = &sess
	s.mu.Unlock()
	return &sess
}

// Save persists the session and makes it the current one. The write goes
// through a temp file and rename so a crash never leaves a torn record.
func (s *Store) Save(sess *domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "session-*.json")
	if err != nil {
		return fmt.Errorf("failed to create session temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close session temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to restrict session file mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.mu.Lock()
	s.cur = sess
	s.mu.Unlock()
	return nil
}

// Clear removes the persisted session and resets the in-memory one.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.cur = nil
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// Current returns the held session, or nil when signed out.
func (s *Store) Current() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}
