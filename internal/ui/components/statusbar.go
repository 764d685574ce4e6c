// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the docchat TUI.
package components

import (
	"strings"

	"github.com/jeranaias/docchat-tui/internal/ui/styles"
	"github.com/jeranaias/docchat-tui/internal/util"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// BackendState describes backend reachability for the status bar.
type BackendState int

const (
	BackendUnknown BackendState = iota
	BackendUp
	BackendDown
)

// StatusBar renders the bottom status line: backend health, document
// count, activity, and key hints.
type StatusBar struct {
	Width    int
	Backend  BackendState
	DocCount int
	Activity string
	theme    *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) StatusBar {
	return StatusBar{
		Width:    80,
		DocCount: -1,
		theme:    theme,
	}
}

// View renders the status bar padded to full width.
func (s StatusBar) View() string {
	var parts []string

	switch s.Backend {
	case BackendUp:
		parts = append(parts, s.theme.StatusOK.Render("backend up"))
	case BackendDown:
		parts = append(parts, s.theme.StatusError.Render("backend down"))
	default:
		parts = append(parts, s.theme.StatusBusy.Render("connecting"))
	}

	if s.DocCount >= 0 {
		label := "docs: " + util.IntToStr(s.DocCount)
		parts = append(parts, label)
	}

	if s.Activity != "" {
		parts = append(parts, s.theme.StatusBusy.Render(s.Activity))
	}

	hints := s.theme.ShortcutKey.Render("esc") + " cancel  " +
		s.theme.ShortcutKey.Render("ctrl+c") + " quit  " +
		s.theme.ShortcutKey.Render("/help") + " commands"
	parts = append(parts, hints)

	line := strings.Join(parts, "  |  ")
	return s.theme.StatusBar.Render(util.TruncateWidth(line, s.Width))
}
