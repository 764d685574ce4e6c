// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks the active chat session and schedules
// auto-save.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/jeranaias/docchat-tui/internal/model"
	"github.com/jeranaias/docchat-tui/internal/storage"
)

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager owns the active session and its persistence.
type Manager struct {
	mu sync.Mutex

	store  *storage.Store
	active *model.Session

	// Auto-save bookkeeping
	autoSaveInterval time.Duration
	lastAutoSave     time.Time
	isDirty          bool
}

// Config holds configuration for the session manager.
type Config struct {
	// AutoSaveInterval is how often MaybeAutoSave flushes a dirty
	// session (default: 30 seconds)
	AutoSaveInterval time.Duration
}

// DefaultConfig returns the default session manager configuration.
func DefaultConfig() Config {
	return Config{
		AutoSaveInterval: 30 * time.Second,
	}
}

// NewManager creates a manager bound to a store. The active session
// is restored from the store's recorded active ID when possible,
// otherwise a fresh session is started.
func NewManager(store *storage.Store, cfg Config) *Manager {
	if cfg.AutoSaveInterval <= 0 {
		cfg.AutoSaveInterval = 30 * time.Second
	}

	m := &Manager{
		store:            store,
		autoSaveInterval: cfg.AutoSaveInterval,
		lastAutoSave:     time.Now(),
	}

	if store != nil {
		if id, err := store.ActiveSession(); err == nil && id != "" {
			if sess, err := store.LoadSession(id); err == nil {
				m.active = sess
			}
		}
	}
	if m.active == nil {
		m.active = model.NewSession()
	}
	return m
}

// =============================================================================
// ACTIVE SESSION
// =============================================================================

// Store returns the backing store, which may be nil.
func (m *Manager) Store() *storage.Store {
	return m.store
}

// Active returns the current session.
func (m *Manager) Active() *model.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// MarkDirty records that the active session changed and should be
// persisted on the next auto-save.
func (m *Manager) MarkDirty() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isDirty = true
}

// NewSession flushes the current session and switches to a fresh one.
func (m *Manager) NewSession() *model.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saveLocked()
	m.active = model.NewSession()
	m.isDirty = false
	m.recordActiveLocked()
	return m.active
}

// Switch flushes the current session and loads another by ID.
func (m *Manager) Switch(id string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.store == nil {
		return nil, errors.New("no session store configured")
	}

	sess, err := m.store.LoadSession(id)
	if err != nil {
		return nil, err
	}

	m.saveLocked()
	m.active = sess
	m.isDirty = false
	m.recordActiveLocked()
	return sess, nil
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// Save flushes the active session to storage unconditionally.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveLocked()
}

// MaybeAutoSave flushes the active session when it is dirty and the
// auto-save interval has elapsed. Returns whether a save happened.
func (m *Manager) MaybeAutoSave() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.isDirty || time.Since(m.lastAutoSave) < m.autoSaveInterval {
		return false, nil
	}
	if err := m.saveLocked(); err != nil {
		return false, err
	}
	return true, nil
}

// Shutdown flushes the session on exit. Empty sessions are not
// persisted.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveLocked()
}

// saveLocked persists the active session. Caller holds mu.
func (m *Manager) saveLocked() error {
	if m.store == nil || m.active == nil || m.active.IsEmpty() {
		return nil
	}
	if err := m.store.SaveSession(m.active); err != nil {
		return err
	}
	m.recordActiveLocked()
	m.isDirty = false
	m.lastAutoSave = time.Now()
	return nil
}

// recordActiveLocked records the active session ID for next startup.
// Caller holds mu.
func (m *Manager) recordActiveLocked() {
	if m.store != nil && m.active != nil {
		m.store.SetActiveSession(m.active.ID)
	}
}
