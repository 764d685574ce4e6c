// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the docchat TUI.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/docchat-tui/internal/ui/components"
)

// =============================================================================
// LAYOUT
// =============================================================================

// handleResize recomputes the layout for a new terminal size.
func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	headerHeight := 1
	inputHeight := 3
	statusHeight := 1
	vpHeight := msg.Height - headerHeight - inputHeight - statusHeight
	if vpHeight < 3 {
		vpHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = vpHeight
	}

	m.input.Width = msg.Width - 6
	m.statusBar.Width = msg.Width
	m.docsPanel.Width = minInt(msg.Width-4, 70)
	m.sessPanel.Width = minInt(msg.Width-4, 70)

	m.refreshViewport(false)
	return m
}

// refreshViewport re-renders the conversation into the viewport.
// gotoBottom keeps the latest text in view while streaming.
func (m *Model) refreshViewport(gotoBottom bool) {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	if gotoBottom {
		m.viewport.GotoBottom()
	}
}

// renderMessages renders the whole conversation.
func (m *Model) renderMessages() string {
	sess := m.sessions.Active()
	if sess.IsEmpty() {
		return m.renderWelcome()
	}

	var sb strings.Builder
	for i, msg := range sess.Messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		bubble := components.NewMessageBubble(msg, m.theme)
		bubble.SetWidth(m.viewport.Width)
		sb.WriteString(bubble.View())
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderWelcome renders the empty-state screen.
func (m *Model) renderWelcome() string {
	lines := []string{
		m.theme.HeaderTitle.Render("docchat"),
		"",
		"Ask questions about your uploaded documents.",
		"",
		m.theme.ShortcutKey.Render("/upload <path>") + "  add a document",
		m.theme.ShortcutKey.Render("/docs") + "           browse the index",
		m.theme.ShortcutKey.Render("/help") + "           all commands",
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the full chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.theme.Header.Width(m.width).Render("docchat - " + m.sessions.Active().Title)

	body := m.viewport.View()
	switch m.overlay {
	case overlayDocs:
		body = m.centerPanel(m.docsPanel.View())
	case overlaySessions:
		body = m.centerPanel(m.sessPanel.View())
	case overlayHelp:
		body = m.centerPanel(m.renderHelp())
	}

	var inputLine string
	if spin := m.spinner.View(); spin != "" {
		inputLine = m.theme.InputContainer.Width(m.width - 2).Render(spin)
	} else {
		inputLine = m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())
	}

	m.statusBar.Activity = m.statusNotice
	if m.Busy() {
		m.statusBar.Activity = m.state.String()
		if m.statusNotice != "" {
			m.statusBar.Activity = m.statusNotice
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		inputLine,
		m.statusBar.View(),
	)
}

// centerPanel places a panel in the chat body area.
func (m Model) centerPanel(panel string) string {
	return lipgloss.Place(m.viewport.Width, m.viewport.Height,
		lipgloss.Center, lipgloss.Center, panel)
}

// renderHelp renders the command reference overlay.
func (m Model) renderHelp() string {
	rows := [][2]string{
		{"/upload <path>", "upload a document (.pdf .docx .doc .txt)"},
		{"/docs", "list indexed documents"},
		{"/delete <name>", "remove a document from the index"},
		{"/reindex", "rebuild the backend index"},
		{"/sessions", "list and switch saved chats"},
		{"/new", "start a new chat"},
		{"/clear", "clear the current chat"},
		{"/quit", "exit"},
		{"esc", "cancel the current answer"},
		{"ctrl+c", "quit"},
	}

	var sb strings.Builder
	sb.WriteString(m.theme.PanelTitle.Render("Commands"))
	sb.WriteString("\n")
	for _, row := range rows {
		sb.WriteString(m.theme.ShortcutKey.Render(padRight(row[0], 16)))
		sb.WriteString(row[1])
		sb.WriteString("\n")
	}
	sb.WriteString(m.theme.SessionMeta.Render("esc: close"))
	return m.theme.PanelBox.Width(minInt(m.width-4, 64)).Render(sb.String())
}

func padRight(s string, width int) string {
	for len(s) < width {
		s += " "
	}
	return s
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
