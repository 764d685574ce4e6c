// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the docchat TUI.
package chat

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docchat-tui/internal/api"
	"github.com/jeranaias/docchat-tui/internal/model"
	"github.com/jeranaias/docchat-tui/internal/ui/components"
	"github.com/jeranaias/docchat-tui/internal/uploader"
	"github.com/jeranaias/docchat-tui/internal/util"
)

// Update satisfies tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.update(msg)
}

// update routes all messages through the state machine.
func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case streamStartedMsg:
		return m.handleStreamStarted(msg)

	case streamEventMsg:
		return m.handleStreamEvent(msg)

	case streamClosedMsg:
		return m.handleStreamClosed(msg)

	case typewriterTickMsg:
		return m.handleTypewriterTick(msg)

	case backendStatusMsg:
		if msg.Up {
			m.statusBar.Backend = components.BackendUp
		} else {
			m.statusBar.Backend = components.BackendDown
		}
		return m, nil

	case documentsMsg:
		if msg.Err == nil {
			m.docsPanel.SetDocuments(msg.Documents)
			m.statusBar.DocCount = len(msg.Documents)
		}
		return m, nil

	case uploadResultMsg:
		return m.handleUploadResult(msg)

	case deleteResultMsg:
		if msg.Err != nil {
			return m.notice("Delete failed: " + friendlyError(msg.Err))
		}
		m2, cmd := m.notice("Deleted " + msg.Filename)
		return m2, tea.Batch(cmd, m2.loadDocumentsCmd())

	case reindexResultMsg:
		if msg.Err != nil {
			return m.notice("Reindex failed: " + friendlyError(msg.Err))
		}
		m2, cmd := m.notice("Reindex complete")
		return m2, tea.Batch(cmd, m2.loadDocumentsCmd())

	case watcherNoticeMsg:
		if msg.Err != nil {
			return m.notice("Auto-upload failed: " + friendlyError(msg.Err))
		}
		m2, cmd := m.notice("Auto-uploaded " + msg.Path)
		return m2, tea.Batch(cmd, m2.loadDocumentsCmd())

	case sessionListMsg:
		if msg.Err == nil {
			m.sessPanel.SetSessions(msg.Sessions)
			m.overlay = overlaySessions
		}
		return m, nil

	case sessionSwitchedMsg:
		m.overlay = overlayNone
		if msg.Err != nil {
			return m.notice("Switch failed: " + friendlyError(msg.Err))
		}
		m.refreshViewport(true)
		return m, nil

	case sessionDeletedMsg:
		if msg.Err != nil {
			return m.notice("Delete failed: " + friendlyError(msg.Err))
		}
		m2, cmd := m.notice("Deleted chat")
		return m2, tea.Batch(cmd, m2.listSessionsCmd(""))

	case autoSaveTickMsg:
		m.sessions.MaybeAutoSave()
		return m, autoSaveTickCmd()

	case statusNoticeMsg:
		return m.notice(msg.Text)

	case statusClearMsg:
		m.statusNotice = ""
		m.statusBar.Activity = ""
		return m, nil
	}

	// Remaining messages feed the input and spinner components.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	cmds = append(cmds, m.spinner.Update(msg))
	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.overlay != overlayNone {
		return m.handleOverlayKey(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		m.cancelStream()
		m.sessions.Shutdown()
		return m, tea.Quit

	case "esc":
		// Idempotent: esc outside a stream does nothing.
		if m.Busy() {
			m.cancelStream()
			return m.notice("Cancelled")
		}
		return m, nil

	case "enter":
		return m.handleSubmit()

	case "pgup":
		m.viewport.HalfViewUp()
		return m, nil

	case "pgdown":
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleOverlayKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.overlay = overlayNone
		return m, nil

	case "up", "k":
		switch m.overlay {
		case overlayDocs:
			m.docsPanel.MoveUp()
		case overlaySessions:
			m.sessPanel.MoveUp()
		}
		return m, nil

	case "down", "j":
		switch m.overlay {
		case overlayDocs:
			m.docsPanel.MoveDown()
		case overlaySessions:
			m.sessPanel.MoveDown()
		}
		return m, nil

	case "enter":
		switch m.overlay {
		case overlayDocs:
			if doc := m.docsPanel.SelectedDocument(); doc != nil {
				m.overlay = overlayNone
				return m, m.deleteDocCmd(doc.Filename)
			}
		case overlaySessions:
			if meta := m.sessPanel.SelectedSession(); meta != nil {
				// Switching abandons any in-flight answer; the new
				// session must start idle.
				if m.Busy() {
					m.cancelStream()
				}
				return m, m.switchSessionCmd(meta.ID)
			}
		}
		m.overlay = overlayNone
		return m, nil

	case "d":
		if m.overlay == overlaySessions {
			if meta := m.sessPanel.SelectedSession(); meta != nil {
				if meta.ID == m.sessions.Active().ID {
					return m.notice("Cannot delete the open chat")
				}
				return m, m.deleteSessionCmd(meta.ID)
			}
		}
		return m, nil

	case "r":
		if m.overlay == overlayDocs {
			m.overlay = overlayNone
			m2, clear := m.notice("Reindexing...")
			return m2, tea.Batch(clear, m2.reindexCmd())
		}
		return m, nil
	}
	return m, nil
}

// =============================================================================
// SUBMIT
// =============================================================================

func (m Model) handleSubmit() (Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		// Whitespace-only input never leaves the client.
		m.input.SetValue("")
		return m, nil
	}
	if strings.HasPrefix(text, "/") {
		m.input.SetValue("")
		return m.handleSlashCommand(text)
	}
	if m.Busy() {
		return m.notice("Still answering. Press esc to cancel first.")
	}

	m.input.SetValue("")

	sess := m.sessions.Active()
	// Snapshot history before this turn: the question rides in its
	// own field, not in chat_history.
	history := sess.History()
	sess.AddUserMessage(text)
	placeholder := sess.AddAssistantMessage()
	m.sessions.MarkDirty()

	// Fresh stream identity invalidates anything still in flight.
	m.streamID++
	m.state = StateRequesting
	m.doneReceived = false
	m.typewriter.Reset()
	m.streaming = &messageRef{ID: placeholder.ID}
	m.refreshViewport(true)

	return m, tea.Batch(
		m.startStreamCmd(m.streamID, text, history),
		m.spinner.Start("Thinking"),
	)
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func (m Model) handleSlashCommand(text string) (Model, tea.Cmd) {
	fields := strings.Fields(text)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/help":
		m.overlay = overlayHelp
		return m, nil

	case "/docs":
		m.overlay = overlayDocs
		return m, m.loadDocumentsCmd()

	case "/upload":
		if len(args) == 0 {
			return m.notice("Usage: /upload <path>")
		}
		path := strings.Join(args, " ")
		if err := uploader.Validate(path); err != nil {
			return m.notice(friendlyError(err))
		}
		m2, clear := m.notice("Uploading " + path + "...")
		return m2, tea.Batch(clear, m2.uploadCmd(path))

	case "/delete":
		if len(args) == 0 {
			return m.notice("Usage: /delete <filename>")
		}
		return m, m.deleteDocCmd(strings.Join(args, " "))

	case "/reindex":
		m2, clear := m.notice("Reindexing...")
		return m2, tea.Batch(clear, m2.reindexCmd())

	case "/sessions":
		return m, m.listSessionsCmd(strings.Join(args, " "))

	case "/new":
		if m.Busy() {
			m.cancelStream()
		}
		m.sessions.NewSession()
		m.refreshViewport(true)
		return m.notice("Started a new chat")

	case "/clear":
		if m.Busy() {
			m.cancelStream()
		}
		m.sessions.Active().ClearHistory()
		m.sessions.MarkDirty()
		m.refreshViewport(true)
		return m, nil

	case "/quit":
		m.cancelStream()
		m.sessions.Shutdown()
		return m, tea.Quit
	}

	return m.notice("Unknown command " + cmd + ". Try /help.")
}

// =============================================================================
// UPLOAD RESULTS
// =============================================================================

func (m Model) handleUploadResult(msg uploadResultMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		return m.notice("Upload failed: " + friendlyError(msg.Err))
	}
	text := "Uploaded " + msg.Result.Filename
	if msg.Result.ChunksCount > 0 {
		text += " (" + util.IntToStr(msg.Result.ChunksCount) + " chunks)"
	}
	m2, clear := m.notice(text)
	return m2, tea.Batch(clear, m2.loadDocumentsCmd())
}

// =============================================================================
// STREAM EVENT HANDLING
// =============================================================================

func (m Model) handleStreamStarted(msg streamStartedMsg) (Model, tea.Cmd) {
	if msg.StreamID != m.streamID {
		return m, nil
	}
	m.events = msg.Events
	return m, tea.Batch(
		waitForEvent(msg.StreamID, msg.Events),
		m.typewriter.TickCmd(msg.StreamID),
	)
}

func (m Model) handleStreamEvent(msg streamEventMsg) (Model, tea.Cmd) {
	// Stale stream: a cancel or resubmit moved on without this one.
	if msg.StreamID != m.streamID || !m.Busy() {
		return m, nil
	}

	target := m.streamingMessage()
	if target == nil {
		return m, nil
	}

	switch msg.Event.Type {
	case api.EventToken:
		m.state = StateStreaming
		m.typewriter.Push(msg.Event.Token)
		return m, waitForEvent(msg.StreamID, m.events)

	case api.EventSources:
		m.state = StateStreaming
		target.SetSources(msg.Event.Sources)
		m.refreshViewport(false)
		return m, waitForEvent(msg.StreamID, m.events)

	case api.EventDone:
		m.doneReceived = true
		if m.typewriter.Drained() {
			m.finalizeStream(target)
			return m, nil
		}
		// Let the typewriter finish revealing what is queued.
		m.state = StateDraining
		return m, nil

	case api.EventError:
		// Queued text would be misleading without the rest: drop it
		// and replace the whole answer with the notice.
		m.typewriter.Reset()
		target.FailWith(errorNotice(msg.Event.Message))
		m.abandonStream()
		m.refreshViewport(true)
		return m, nil
	}

	return m, waitForEvent(msg.StreamID, m.events)
}

func (m Model) handleStreamClosed(msg streamClosedMsg) (Model, tea.Cmd) {
	if msg.StreamID != m.streamID || !m.Busy() {
		return m, nil
	}
	// Channel closed without a terminal event: cancellation cleanup.
	m.doneReceived = true
	if target := m.streamingMessage(); target != nil && m.typewriter.Drained() {
		m.finalizeStream(target)
		return m, nil
	}
	m.state = StateDraining
	return m, nil
}

// =============================================================================
// TYPEWRITER TICKS
// =============================================================================

func (m Model) handleTypewriterTick(msg typewriterTickMsg) (Model, tea.Cmd) {
	// A tick from a finished or abandoned stream must not touch the
	// current one.
	if msg.StreamID != m.streamID || !m.Busy() {
		return m, nil
	}

	target := m.streamingMessage()
	if target == nil {
		return m, nil
	}

	if chunk := m.typewriter.Next(); chunk != "" {
		target.AppendContent(chunk)
		m.refreshViewport(true)
	}

	if m.typewriter.Drained() && m.doneReceived {
		m.finalizeStream(target)
		return m, nil
	}
	return m, m.typewriter.TickCmd(msg.StreamID)
}

// =============================================================================
// STREAM LIFECYCLE HELPERS
// =============================================================================

// finalizeStream completes the answer normally.
func (m *Model) finalizeStream(target *model.Message) {
	target.FinishStreaming()
	m.abandonStream()
	m.sessions.MarkDirty()
	m.refreshViewport(true)
}

// cancelStream aborts the in-flight stream, keeping revealed text.
func (m *Model) cancelStream() {
	if !m.Busy() {
		return
	}
	m.typewriter.Reset()
	if target := m.streamingMessage(); target != nil {
		target.FinishStreaming()
	}
	m.abandonStream()
	m.sessions.MarkDirty()
}

// abandonStream drops all stream state and returns to Idle. Bumping
// the stream ID makes any in-flight event or tick stale.
func (m *Model) abandonStream() {
	m.cancelMgr.cancel()
	m.streamID++
	m.events = nil
	m.streaming = nil
	m.doneReceived = false
	m.state = StateIdle
	m.spinner.Stop()
}

// =============================================================================
// STATUS HELPERS
// =============================================================================

// notice shows a transient status line.
func (m Model) notice(text string) (Model, tea.Cmd) {
	m.statusNotice = text
	m.statusBar.Activity = text
	return m, statusClearCmd()
}

// errorNotice converts a backend error frame into the displayed
// notice.
func errorNotice(message string) string {
	if message == "" {
		return "The backend reported an error. Please try again."
	}
	return "Error: " + message
}

// friendlyError renders client errors for the status line.
func friendlyError(err error) string {
	var clientErr *api.ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Message
	}
	return err.Error()
}
