// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the docchat TUI.
//
// This file defines the Bubble Tea message types used by the chat
// view. Stream and tick messages carry the stream ID they belong to;
// the update loop drops any message whose ID is not current.
package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docchat-tui/internal/api"
	"github.com/jeranaias/docchat-tui/internal/storage"
)

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// streamStartedMsg hands the event channel of a newly opened stream
// to the update loop.
type streamStartedMsg struct {
	StreamID int
	Events   <-chan api.StreamEvent
}

// streamEventMsg delivers one decoded stream event.
type streamEventMsg struct {
	StreamID int
	Event    api.StreamEvent
}

// streamClosedMsg signals that the event channel closed without a
// terminal event. This happens on cancellation.
type streamClosedMsg struct {
	StreamID int
}

// =============================================================================
// TYPEWRITER MESSAGES
// =============================================================================

// typewriterTickMsg drives the character reveal cadence.
type typewriterTickMsg struct {
	StreamID int
	Time     time.Time
}

// =============================================================================
// BACKEND MESSAGES
// =============================================================================

// backendStatusMsg reports backend reachability.
type backendStatusMsg struct {
	Up  bool
	Err error
}

// documentsMsg delivers the indexed document listing.
type documentsMsg struct {
	Documents []api.DocumentInfo
	Err       error
}

// uploadResultMsg reports the outcome of an upload.
type uploadResultMsg struct {
	Result *api.UploadResult
	Path   string
	Err    error
}

// deleteResultMsg reports the outcome of a document deletion.
type deleteResultMsg struct {
	Filename string
	Err      error
}

// reindexResultMsg reports the outcome of a reindex request.
type reindexResultMsg struct {
	Result *api.ReindexResult
	Err    error
}

// watcherNoticeMsg reports a drop-folder upload outcome.
type watcherNoticeMsg struct {
	Path string
	Err  error
}

// WatcherNotice builds the message the drop-folder watcher sends into
// the program from outside the update loop.
func WatcherNotice(path string, err error) tea.Msg {
	return watcherNoticeMsg{Path: path, Err: err}
}

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// sessionListMsg delivers saved session metadata.
type sessionListMsg struct {
	Sessions []storage.SessionMeta
	Err      error
}

// sessionSwitchedMsg confirms a session switch.
type sessionSwitchedMsg struct {
	ID  string
	Err error
}

// sessionDeletedMsg reports the outcome of a session deletion.
type sessionDeletedMsg struct {
	ID  string
	Err error
}

// autoSaveTickMsg triggers a periodic auto-save check.
type autoSaveTickMsg struct{}

// =============================================================================
// UI MESSAGES
// =============================================================================

// statusNoticeMsg shows a transient line in the status bar.
type statusNoticeMsg struct {
	Text string
}

// statusClearMsg clears the transient status line.
type statusClearMsg struct{}
