// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the docchat TUI.
package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docchat-tui/internal/api"
	"github.com/jeranaias/docchat-tui/internal/config"
	"github.com/jeranaias/docchat-tui/internal/model"
	"github.com/jeranaias/docchat-tui/internal/session"
	"github.com/jeranaias/docchat-tui/internal/ui/components"
	"github.com/jeranaias/docchat-tui/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State is the question lifecycle state.
type State int

const (
	StateIdle       State = iota // Ready for input
	StateRequesting              // Request sent, no event yet
	StateStreaming               // Events arriving
	StateDraining                // Stream done, queue still revealing
)

// String returns the state name for the status bar.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "thinking"
	case StateStreaming:
		return "streaming"
	case StateDraining:
		return "streaming"
	default:
		return "unknown"
	}
}

// overlay selects which panel covers the chat, if any.
type overlay int

const (
	overlayNone overlay = iota
	overlayDocs
	overlaySessions
	overlayHelp
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// Lifecycle
	state State

	// Stream identity. Every stream attempt gets a fresh ID; events
	// and ticks carrying an older ID are dropped on arrival.
	streamID     int
	events       <-chan api.StreamEvent
	doneReceived bool

	// The assistant message being streamed into, nil outside a stream.
	streaming *messageRef

	// Typewriter reveal
	typewriter *Typewriter

	// Backend
	client    *api.Client
	cancelMgr *cancelManager

	// Session persistence
	sessions *session.Manager

	// Styling and dimensions
	theme  *styles.Theme
	width  int
	height int

	// UI components
	viewport  viewport.Model
	input     textinput.Model
	spinner   components.Spinner
	statusBar components.StatusBar
	docsPanel components.DocumentsPanel
	sessPanel components.SessionList
	overlay   overlay

	// Transient status line
	statusNotice string

	ready bool
}

// messageRef identifies the streaming assistant message without
// holding a stale pointer across session switches.
type messageRef struct {
	ID string
}

// New creates the chat model.
func New(client *api.Client, sessions *session.Manager, cfg *config.Config, theme *styles.Theme) Model {
	input := textinput.New()
	input.Placeholder = "Ask a question about your documents..."
	input.Prompt = "> "
	input.CharLimit = 4000
	input.Focus()

	tw := NewTypewriter(
		time.Duration(cfg.Typewriter.IntervalMs)*time.Millisecond,
		cfg.Typewriter.CharsPerTick,
	)

	return Model{
		state:      StateIdle,
		typewriter: tw,
		client:     client,
		cancelMgr:  newCancelManager(),
		sessions:   sessions,
		theme:      theme,
		input:      input,
		spinner:    components.NewSpinner(theme),
		statusBar:  components.NewStatusBar(theme),
		docsPanel:  components.NewDocumentsPanel(theme),
		sessPanel:  components.NewSessionList(theme),
	}
}

// Init starts the backend health check and auto-save timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.checkBackendCmd(),
		m.loadDocumentsCmd(),
		autoSaveTickCmd(),
		textinput.Blink,
	)
}

// Busy reports whether a question is in flight. Input is rejected and
// the spinner shown while busy; this tracks the typewriter, not the
// network, so it stays true through Draining.
func (m Model) Busy() bool {
	return m.state != StateIdle
}

// streamingMessage resolves the message being streamed into, or nil.
func (m *Model) streamingMessage() *model.Message {
	if m.streaming == nil {
		return nil
	}
	for _, msg := range m.sessions.Active().Messages {
		if msg.ID == m.streaming.ID {
			return msg
		}
	}
	return nil
}
