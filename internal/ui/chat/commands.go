// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the docchat TUI.
//
// This file holds the tea.Cmd constructors: everything that leaves
// the update loop (network calls, timers) lives here and comes back
// as a typed message.
package chat

import (
	"context"
	"errors"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docchat-tui/internal/api"
)

// autoSaveCheckInterval is how often the auto-save timer fires. The
// session manager decides whether a save actually happens.
const autoSaveCheckInterval = 10 * time.Second

// statusNoticeDuration is how long transient status text stays up.
const statusNoticeDuration = 4 * time.Second

// =============================================================================
// STREAMING COMMANDS
// =============================================================================

// startStreamCmd opens a stream for the question and hands its event
// channel back to the update loop. The context is registered with the
// cancel manager before the request leaves. history holds prior
// turns only, never the question itself.
func (m *Model) startStreamCmd(streamID int, question string, history []api.HistoryMessage) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelMgr.set(cancel)

	client := m.client

	return func() tea.Msg {
		events := client.Stream(ctx, question, history)
		return streamStartedMsg{StreamID: streamID, Events: events}
	}
}

// waitForEvent pumps one event from the stream channel into the
// update loop. The update loop re-issues it after each event, which
// keeps exactly one outstanding read per stream.
func waitForEvent(streamID int, events <-chan api.StreamEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return streamClosedMsg{StreamID: streamID}
		}
		return streamEventMsg{StreamID: streamID, Event: ev}
	}
}

// =============================================================================
// BACKEND COMMANDS
// =============================================================================

// checkBackendCmd probes backend health.
func (m *Model) checkBackendCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := client.CheckRunning(ctx)
		return backendStatusMsg{Up: err == nil, Err: err}
	}
}

// loadDocumentsCmd fetches the indexed document listing.
func (m *Model) loadDocumentsCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		docs, err := client.ListDocuments(ctx)
		return documentsMsg{Documents: docs, Err: err}
	}
}

// uploadCmd uploads a local file to the backend.
func (m *Model) uploadCmd(path string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return uploadResultMsg{Path: path, Err: err}
		}
		defer f.Close()
		result, err := client.Upload(context.Background(), path, f)
		return uploadResultMsg{Result: result, Path: path, Err: err}
	}
}

// deleteDocCmd removes a document from the index.
func (m *Model) deleteDocCmd(filename string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_, err := client.DeleteDocument(ctx, filename)
		return deleteResultMsg{Filename: filename, Err: err}
	}
}

// reindexCmd asks the backend to rebuild its index.
func (m *Model) reindexCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		result, err := client.Reindex(context.Background())
		return reindexResultMsg{Result: result, Err: err}
	}
}

// =============================================================================
// SESSION COMMANDS
// =============================================================================

// listSessionsCmd loads saved session metadata. A non-empty query
// filters by title and message content.
func (m *Model) listSessionsCmd(query string) tea.Cmd {
	sessions := m.sessions
	return func() tea.Msg {
		store := sessions.Store()
		if store == nil {
			return sessionListMsg{Err: errors.New("session storage unavailable")}
		}
		metas, err := store.SearchSessions(query)
		return sessionListMsg{Sessions: metas, Err: err}
	}
}

// deleteSessionCmd removes a saved session.
func (m *Model) deleteSessionCmd(id string) tea.Cmd {
	sessions := m.sessions
	return func() tea.Msg {
		store := sessions.Store()
		if store == nil {
			return sessionDeletedMsg{ID: id, Err: errors.New("session storage unavailable")}
		}
		return sessionDeletedMsg{ID: id, Err: store.DeleteSession(id)}
	}
}

// switchSessionCmd switches the active session.
func (m *Model) switchSessionCmd(id string) tea.Cmd {
	sessions := m.sessions
	return func() tea.Msg {
		_, err := sessions.Switch(id)
		return sessionSwitchedMsg{ID: id, Err: err}
	}
}

// autoSaveTickCmd schedules the next auto-save check.
func autoSaveTickCmd() tea.Cmd {
	return tea.Tick(autoSaveCheckInterval, func(time.Time) tea.Msg {
		return autoSaveTickMsg{}
	})
}

// =============================================================================
// STATUS COMMANDS
// =============================================================================

// statusClearCmd clears the transient status line after a delay.
func statusClearCmd() tea.Cmd {
	return tea.Tick(statusNoticeDuration, func(time.Time) tea.Msg {
		return statusClearMsg{}
	})
}
