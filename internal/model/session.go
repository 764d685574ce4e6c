// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/docchat-tui/internal/api"
)

// MaxMessages is the maximum number of messages to keep in a session.
// When exceeded, old messages are pruned to prevent unbounded growth.
const MaxMessages = 1000

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session holds one complete conversation with history and metadata.
type Session struct {
	// Identity
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Messages
	Messages []*Message `json:"messages"`
}

// NewSession creates a new session with a generated ID.
func NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Title:     "New chat",
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]*Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message to the session.
func (s *Session) AddMessage(msg *Message) {
	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = time.Now()
	s.updateTitle()
	s.pruneOldMessages()
}

// AddUserMessage creates and appends a user message.
func (s *Session) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	s.AddMessage(msg)
	return msg
}

// AddAssistantMessage creates and appends a streaming assistant
// placeholder.
func (s *Session) AddAssistantMessage() *Message {
	msg := NewAssistantMessage()
	s.AddMessage(msg)
	return msg
}

// AddSystemMessage creates and appends a system message.
func (s *Session) AddSystemMessage(content string) *Message {
	msg := NewSystemMessage(content)
	s.AddMessage(msg)
	return msg
}

// LastMessage returns the most recent message, or nil when empty.
func (s *Session) LastMessage() *Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return s.Messages[len(s.Messages)-1]
}

// LastAssistantMessage returns the most recent assistant message, or
// nil when there is none.
func (s *Session) LastAssistantMessage() *Message {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleAssistant {
			return s.Messages[i]
		}
	}
	return nil
}

// ClearHistory removes all messages but keeps the session identity.
func (s *Session) ClearHistory() {
	s.Messages = make([]*Message, 0)
	s.UpdatedAt = time.Now()
}

// IsEmpty reports whether the session has no messages.
func (s *Session) IsEmpty() bool {
	return len(s.Messages) == 0
}

// =============================================================================
// WIRE CONVERSION
// =============================================================================

// History converts completed user/assistant turns into the wire shape
// for a chat request: role and content only, system messages and
// still-streaming placeholders excluded.
func (s *Session) History() []api.HistoryMessage {
	history := make([]api.HistoryMessage, 0, len(s.Messages))
	for _, msg := range s.Messages {
		if msg.Role != RoleUser && msg.Role != RoleAssistant {
			continue
		}
		if msg.IsStreaming || msg.IsError || msg.Content == "" {
			continue
		}
		history = append(history, api.HistoryMessage{
			Role:    msg.Role.String(),
			Content: msg.Content,
		})
	}
	return history
}

// =============================================================================
// INTERNAL HELPERS
// =============================================================================

// updateTitle derives the session title from the first user message.
func (s *Session) updateTitle() {
	if s.Title != "" && s.Title != "New chat" {
		return
	}
	for _, msg := range s.Messages {
		if msg.Role == RoleUser && msg.Content != "" {
			title := strings.Join(strings.Fields(msg.Content), " ")
			runes := []rune(title)
			if len(runes) > 50 {
				title = string(runes[:47]) + "..."
			}
			s.Title = title
			return
		}
	}
}

// pruneOldMessages drops the oldest messages beyond MaxMessages.
func (s *Session) pruneOldMessages() {
	if len(s.Messages) <= MaxMessages {
		return
	}
	excess := len(s.Messages) - MaxMessages
	s.Messages = append([]*Message(nil), s.Messages[excess:]...)
}
