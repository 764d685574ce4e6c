// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the docchat TUI.
package components

import (
	"strings"

	"github.com/jeranaias/docchat-tui/internal/storage"
	"github.com/jeranaias/docchat-tui/internal/ui/styles"
	"github.com/jeranaias/docchat-tui/internal/util"
)

// =============================================================================
// SESSION LIST PANEL
// =============================================================================

// SessionList renders saved sessions for switching.
type SessionList struct {
	Sessions []storage.SessionMeta
	Selected int
	Width    int
	theme    *styles.Theme
}

// NewSessionList creates a session list panel.
func NewSessionList(theme *styles.Theme) SessionList {
	return SessionList{
		Width: 60,
		theme: theme,
	}
}

// SetSessions replaces the listing and clamps the selection.
func (l *SessionList) SetSessions(metas []storage.SessionMeta) {
	l.Sessions = metas
	if l.Selected >= len(metas) {
		l.Selected = len(metas) - 1
	}
	if l.Selected < 0 {
		l.Selected = 0
	}
}

// MoveUp moves the selection up one row.
func (l *SessionList) MoveUp() {
	if l.Selected > 0 {
		l.Selected--
	}
}

// MoveDown moves the selection down one row.
func (l *SessionList) MoveDown() {
	if l.Selected < len(l.Sessions)-1 {
		l.Selected++
	}
}

// SelectedSession returns the highlighted session, or nil.
func (l *SessionList) SelectedSession() *storage.SessionMeta {
	if len(l.Sessions) == 0 || l.Selected < 0 || l.Selected >= len(l.Sessions) {
		return nil
	}
	return &l.Sessions[l.Selected]
}

// View renders the panel.
func (l SessionList) View() string {
	var sb strings.Builder
	sb.WriteString(l.theme.PanelTitle.Render("Sessions"))
	sb.WriteString("\n")

	if len(l.Sessions) == 0 {
		sb.WriteString(l.theme.SessionMeta.Render("No saved sessions."))
		return l.theme.PanelBox.Width(l.Width).Render(sb.String())
	}

	titleWidth := l.Width - 26
	if titleWidth < 16 {
		titleWidth = 16
	}

	for i, meta := range l.Sessions {
		title := util.PadWidth(util.TruncateWidth(meta.Title, titleWidth), titleWidth)
		when := meta.UpdatedAt.Format("01-02 15:04")
		count := util.IntToStr(meta.MessageCount)

		line := title + "  " + l.theme.SessionMeta.Render(when+"  "+count+" msgs")
		if i == l.Selected {
			line = l.theme.SessionSelected.Render("> ") + line
		} else {
			line = "  " + line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString(l.theme.SessionMeta.Render("enter: open  d: delete  esc: close"))
	return l.theme.PanelBox.Width(l.Width).Render(sb.String())
}
