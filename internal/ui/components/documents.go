// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the docchat TUI.
package components

import (
	"strings"

	"github.com/jeranaias/docchat-tui/internal/api"
	"github.com/jeranaias/docchat-tui/internal/ui/styles"
	"github.com/jeranaias/docchat-tui/internal/util"
)

// =============================================================================
// DOCUMENTS PANEL
// =============================================================================

// DocumentsPanel renders the indexed document list as an overlay.
type DocumentsPanel struct {
	Documents []api.DocumentInfo
	Selected  int
	Width     int
	Height    int
	theme     *styles.Theme
}

// NewDocumentsPanel creates a documents panel.
func NewDocumentsPanel(theme *styles.Theme) DocumentsPanel {
	return DocumentsPanel{
		Width:  60,
		Height: 20,
		theme:  theme,
	}
}

// SetDocuments replaces the listing and clamps the selection.
func (p *DocumentsPanel) SetDocuments(docs []api.DocumentInfo) {
	p.Documents = docs
	if p.Selected >= len(docs) {
		p.Selected = len(docs) - 1
	}
	if p.Selected < 0 {
		p.Selected = 0
	}
}

// MoveUp moves the selection up one row.
func (p *DocumentsPanel) MoveUp() {
	if p.Selected > 0 {
		p.Selected--
	}
}

// MoveDown moves the selection down one row.
func (p *DocumentsPanel) MoveDown() {
	if p.Selected < len(p.Documents)-1 {
		p.Selected++
	}
}

// SelectedDocument returns the highlighted document, or nil.
func (p *DocumentsPanel) SelectedDocument() *api.DocumentInfo {
	if len(p.Documents) == 0 || p.Selected < 0 || p.Selected >= len(p.Documents) {
		return nil
	}
	return &p.Documents[p.Selected]
}

// View renders the panel.
func (p DocumentsPanel) View() string {
	var sb strings.Builder
	sb.WriteString(p.theme.PanelTitle.Render("Documents"))
	sb.WriteString("\n")

	if len(p.Documents) == 0 {
		sb.WriteString(p.theme.DocMeta.Render("No documents indexed. Use /upload <path>."))
		return p.theme.PanelBox.Width(p.Width).Render(sb.String())
	}

	nameWidth := p.Width - 24
	if nameWidth < 16 {
		nameWidth = 16
	}

	for i, doc := range p.Documents {
		name := util.PadWidth(util.TruncateWidth(doc.Filename, nameWidth), nameWidth)
		meta := util.IntToStr(doc.ChunksCount) + " chunks"
		if n := len(doc.Pages); n > 0 {
			meta += ", " + util.IntToStr(n) + " pages"
		}

		line := name + "  " + p.theme.DocMeta.Render(meta)
		if i == p.Selected {
			line = p.theme.DocSelected.Render("> ") + line
		} else {
			line = "  " + p.theme.DocItem.Render("") + line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString(p.theme.DocMeta.Render("enter: delete  r: reindex  esc: close"))
	return p.theme.PanelBox.Width(p.Width).Render(sb.String())
}
