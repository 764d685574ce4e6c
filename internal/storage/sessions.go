// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides chat session persistence for the docchat
// TUI.
package storage

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/docchat-tui/internal/model"
	"github.com/jeranaias/docchat-tui/internal/util"
)

const (
	sessionKeyPrefix = "session:"
	activeSessionKey = "meta:active_session"
)

// MaxSessions limits stored sessions; oldest are pruned past this.
const MaxSessions = 100

// =============================================================================
// SESSION METADATA
// =============================================================================

// SessionMeta contains metadata for listing sessions.
type SessionMeta struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
	Preview      string    `json:"preview"`
}

// =============================================================================
// SESSION OPERATIONS
// =============================================================================

// SaveSession persists a session as a JSON blob keyed by its ID.
func (s *Store) SaveSession(sess *model.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.Put(sessionKeyPrefix+sess.ID, data); err != nil {
		return err
	}
	s.enforceLimit()
	return nil
}

// LoadSession retrieves a session by ID.
func (s *Store) LoadSession(id string) (*model.Session, error) {
	data, err := s.Get(sessionKeyPrefix + id)
	if err != nil {
		return nil, err
	}
	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// DeleteSession removes a session by ID.
func (s *Store) DeleteSession(id string) error {
	return s.Delete(sessionKeyPrefix + id)
}

// ListSessions returns metadata for all saved sessions, most recent
// first. Corrupted records are skipped.
func (s *Store) ListSessions() ([]SessionMeta, error) {
	keys, err := s.Keys(sessionKeyPrefix)
	if err != nil {
		return nil, err
	}

	metas := make([]SessionMeta, 0, len(keys))
	for _, key := range keys {
		sess, err := s.LoadSession(strings.TrimPrefix(key, sessionKeyPrefix))
		if err != nil {
			continue
		}
		metas = append(metas, metaOf(sess))
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})
	return metas, nil
}

// SearchSessions finds sessions whose title or message content matches
// the query, case- and accent-insensitively. Empty query lists all.
func (s *Store) SearchSessions(query string) ([]SessionMeta, error) {
	all, err := s.ListSessions()
	if err != nil {
		return nil, err
	}
	if query == "" {
		return all, nil
	}

	var results []SessionMeta
	for _, meta := range all {
		if util.ContainsFold(meta.Title, query) {
			results = append(results, meta)
			continue
		}
		sess, err := s.LoadSession(meta.ID)
		if err != nil {
			continue
		}
		for _, msg := range sess.Messages {
			if util.ContainsFold(msg.Content, query) {
				results = append(results, meta)
				break
			}
		}
	}
	return results, nil
}

// =============================================================================
// ACTIVE SESSION TRACKING
// =============================================================================

// SetActiveSession records which session the UI should resume.
func (s *Store) SetActiveSession(id string) error {
	return s.Put(activeSessionKey, []byte(id))
}

// ActiveSession returns the recorded active session ID, or "" when
// none was recorded.
func (s *Store) ActiveSession() (string, error) {
	data, err := s.Get(activeSessionKey)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// =============================================================================
// HELPERS
// =============================================================================

// metaOf builds listing metadata from a full session.
func metaOf(sess *model.Session) SessionMeta {
	preview := ""
	for _, msg := range sess.Messages {
		if msg.Role == model.RoleUser && msg.Content != "" {
			preview = util.TruncateRunes(msg.Content, 80)
			break
		}
	}
	return SessionMeta{
		ID:           sess.ID,
		Title:        sess.Title,
		CreatedAt:    sess.CreatedAt,
		UpdatedAt:    sess.UpdatedAt,
		MessageCount: len(sess.Messages),
		Preview:      preview,
	}
}

// enforceLimit removes the oldest sessions when over MaxSessions.
func (s *Store) enforceLimit() {
	metas, err := s.ListSessions()
	if err != nil || len(metas) <= MaxSessions {
		return
	}
	// ListSessions sorts most recent first, so the tail is oldest.
	for _, meta := range metas[MaxSessions:] {
		s.DeleteSession(meta.ID)
	}
}
