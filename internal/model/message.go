// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/jeranaias/docchat-tui/internal/api"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a session.
//
// Assistant messages are mutated in place while a stream is active:
// the controller appends revealed text to Content and replaces Sources
// wholesale as source frames arrive. Once finalized a message only
// changes through whole-session deletion.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content grows incrementally for streaming assistant messages.
	Content string `json:"content"`

	// Sources attached to an assistant answer. Replaced, never merged.
	Sources []api.Source `json:"sources,omitempty"`

	// Streaming state (not persisted)
	IsStreaming bool `json:"-"`

	// IsError marks an assistant message whose content is an error
	// notice rather than an answer.
	IsError bool `json:"is_error,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates an empty assistant placeholder in
// streaming state.
func NewAssistantMessage() *Message {
	return &Message{
		ID:          generateID(),
		Role:        RoleAssistant,
		Timestamp:   time.Now(),
		IsStreaming: true,
	}
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// AppendContent appends revealed text to a streaming message.
func (m *Message) AppendContent(text string) {
	m.Content += text
}

// SetSources replaces the message sources wholesale. Last write wins.
func (m *Message) SetSources(sources []api.Source) {
	m.Sources = sources
}

// FinishStreaming marks the message as complete.
func (m *Message) FinishStreaming() {
	m.IsStreaming = false
}

// FailWith replaces any partial content with an error notice.
// Partial output may be misleading without the rest, so it is
// discarded rather than kept alongside the notice.
func (m *Message) FailWith(notice string) {
	m.Content = notice
	m.Sources = nil
	m.IsStreaming = false
	m.IsError = true
}

// IsEmpty reports whether the message has no visible content.
func (m *Message) IsEmpty() bool {
	return m.Content == ""
}

// generateID creates a random 8-byte hex message ID.
func generateID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// Extremely unlikely; fall back to a timestamp-derived ID.
		return hex.EncodeToString([]byte(time.Now().Format("150405.000000000")))[:16]
	}
	return hex.EncodeToString(b)
}
