// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the docchat TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/docchat-tui/internal/api"
	"github.com/jeranaias/docchat-tui/internal/model"
	"github.com/jeranaias/docchat-tui/internal/ui/styles"
	"github.com/jeranaias/docchat-tui/internal/util"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one message with role label, timestamp and
// source citations.
type MessageBubble struct {
	Message       *model.Message
	Width         int
	ShowTimestamp bool
	theme         *styles.Theme
}

// NewMessageBubble creates a bubble for a message.
func NewMessageBubble(msg *model.Message, theme *styles.Theme) *MessageBubble {
	if msg == nil {
		msg = &model.Message{Role: model.RoleSystem}
	}
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	switch {
	case b.Message.IsError:
		return b.renderError()
	case b.Message.Role == model.RoleUser:
		return b.renderUser()
	case b.Message.Role == model.RoleAssistant:
		return b.renderAssistant()
	default:
		return b.renderSystem()
	}
}

func (b *MessageBubble) contentWidth() int {
	w := b.Width - 10
	if w < 20 {
		w = 20
	}
	return w
}

func (b *MessageBubble) renderUser() string {
	wrapped := wordWrap(b.Message.Content, b.contentWidth())
	bubble := b.theme.UserBubble.
		Width(minInt(maxLineWidth(wrapped)+2, b.Width-6)).
		Render(wrapped)

	label := b.theme.Timestamp.Render(strings.ToLower(b.Message.Role.DisplayName()))
	return b.withHeader(label, bubble)
}

func (b *MessageBubble) renderAssistant() string {
	content := b.Message.Content
	if content == "" && b.Message.IsStreaming {
		content = "..."
	}

	wrapped := b.renderContent(content)
	body := wrapped
	if srcs := b.renderSources(); srcs != "" {
		body = wrapped + "\n" + srcs
	}

	bubble := b.theme.AssistantBubble.
		Width(minInt(maxLineWidth(body)+2, b.Width-6)).
		Render(body)

	label := b.theme.Timestamp.Render("assistant")
	return b.withHeader(label, bubble)
}

func (b *MessageBubble) renderSystem() string {
	return b.theme.SystemBubble.Render(b.Message.Content)
}

func (b *MessageBubble) renderError() string {
	wrapped := wordWrap(b.Message.Content, b.contentWidth())
	bubble := b.theme.ErrorBubble.Render(wrapped)
	label := b.theme.StatusError.Render("error")
	return b.withHeader(label, bubble)
}

// renderContent wraps prose and highlights fenced code blocks.
func (b *MessageBubble) renderContent(content string) string {
	segments := splitFenced(content)
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.code {
			parts = append(parts, NewCodeBlock(seg.language, seg.text, b.theme).Render())
		} else {
			parts = append(parts, wordWrap(seg.text, b.contentWidth()))
		}
	}
	return strings.Join(parts, "\n")
}

// contentSegment is one run of prose or one fenced code block.
type contentSegment struct {
	code     bool
	language string
	text     string
}

// splitFenced splits content on ``` fences. An unterminated fence at
// the end of a streaming message is treated as code.
func splitFenced(content string) []contentSegment {
	var segments []contentSegment
	var cur strings.Builder
	inCode := false
	language := ""

	flush := func() {
		text := strings.TrimRight(cur.String(), "\n")
		cur.Reset()
		if text == "" {
			return
		}
		segments = append(segments, contentSegment{
			code:     inCode,
			language: language,
			text:     text,
		})
	}

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			flush()
			if !inCode {
				language = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "```"))
			}
			inCode = !inCode
			continue
		}
		cur.WriteString(line)
		cur.WriteString("\n")
	}
	flush()

	if len(segments) == 0 {
		return []contentSegment{{text: content}}
	}
	return segments
}

func (b *MessageBubble) withHeader(label, bubble string) string {
	if b.ShowTimestamp {
		label += " " + b.theme.Timestamp.Render(b.Message.Timestamp.Format("15:04"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, label, bubble)
}

// =============================================================================
// SOURCE CITATIONS
// =============================================================================

// renderSources renders the message's source citations, one per line.
func (b *MessageBubble) renderSources() string {
	if len(b.Message.Sources) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(b.theme.SourceHeader.Render("Sources"))
	for _, src := range b.Message.Sources {
		sb.WriteString("\n")
		sb.WriteString(FormatSource(src, b.theme, b.contentWidth()))
	}
	return sb.String()
}

// FormatSource renders one source citation line.
func FormatSource(src api.Source, theme *styles.Theme, width int) string {
	line := theme.SourceFile.Render(src.Filename)
	if src.Page != "" {
		line += " " + theme.SourcePage.Render(fmt.Sprintf("(p. %s)", src.Page))
	}
	if src.Snippet != "" {
		max := width - 2
		if max < 20 {
			max = 20
		}
		snippet := strings.Join(strings.Fields(src.Snippet), " ")
		line += "\n  " + theme.SourceSnippet.Render(util.TruncateWidth(snippet, max))
	}
	return line
}
