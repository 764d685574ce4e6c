// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the docchat TUI.
package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/docchat-tui/internal/api"
	"github.com/jeranaias/docchat-tui/internal/model"
	"github.com/jeranaias/docchat-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme("dark")
}

// =============================================================================
// WORD WRAP TESTS
// =============================================================================

func TestWordWrap(t *testing.T) {
	got := wordWrap("the quick brown fox jumps over the lazy dog", 15)
	for _, line := range strings.Split(got, "\n") {
		if maxLineWidth(line) > 15 {
			t.Errorf("line %q exceeds width 15", line)
		}
	}
	if !strings.Contains(got, "\n") {
		t.Error("long text should wrap onto multiple lines")
	}
}

func TestWordWrapPreservesNewlines(t *testing.T) {
	got := wordWrap("one\ntwo", 80)
	if got != "one\ntwo" {
		t.Errorf("got %q", got)
	}
}

func TestWordWrapZeroWidth(t *testing.T) {
	if got := wordWrap("text", 0); got != "text" {
		t.Errorf("got %q", got)
	}
}

// =============================================================================
// MESSAGE BUBBLE TESTS
// =============================================================================

func TestMessageBubbleUser(t *testing.T) {
	msg := model.NewUserMessage("hello there")
	b := NewMessageBubble(msg, testTheme())

	view := b.View()
	if !strings.Contains(view, "hello there") {
		t.Error("user content missing from view")
	}
}

func TestMessageBubbleAssistantWithSources(t *testing.T) {
	msg := model.NewAssistantMessage()
	msg.AppendContent("The answer is in the manual.")
	msg.SetSources([]api.Source{
		{Filename: "manual.pdf", Page: "12", Snippet: "see section 4"},
	})
	msg.FinishStreaming()

	view := NewMessageBubble(msg, testTheme()).View()
	if !strings.Contains(view, "manual.pdf") {
		t.Error("source filename missing")
	}
	if !strings.Contains(view, "12") {
		t.Error("source page missing")
	}
	if !strings.Contains(view, "Sources") {
		t.Error("sources header missing")
	}
}

func TestMessageBubbleStreamingPlaceholder(t *testing.T) {
	msg := model.NewAssistantMessage()
	view := NewMessageBubble(msg, testTheme()).View()
	if !strings.Contains(view, "...") {
		t.Error("empty streaming message should show a placeholder")
	}
}

func TestMessageBubbleError(t *testing.T) {
	msg := model.NewAssistantMessage()
	msg.FailWith("Backend is not reachable.")
	view := NewMessageBubble(msg, testTheme()).View()
	if !strings.Contains(view, "Backend is not reachable.") {
		t.Error("error notice missing")
	}
	if !strings.Contains(view, "error") {
		t.Error("error label missing")
	}
}

func TestMessageBubbleNilMessage(t *testing.T) {
	// Must not panic.
	_ = NewMessageBubble(nil, testTheme()).View()
}

// =============================================================================
// PANEL TESTS
// =============================================================================

func TestDocumentsPanelSelection(t *testing.T) {
	p := NewDocumentsPanel(testTheme())
	p.SetDocuments([]api.DocumentInfo{
		{Filename: "a.pdf", ChunksCount: 10},
		{Filename: "b.txt", ChunksCount: 3},
	})

	if p.SelectedDocument().Filename != "a.pdf" {
		t.Error("initial selection should be first document")
	}
	p.MoveDown()
	if p.SelectedDocument().Filename != "b.txt" {
		t.Error("MoveDown should advance selection")
	}
	p.MoveDown()
	if p.SelectedDocument().Filename != "b.txt" {
		t.Error("selection should clamp at end")
	}
	p.MoveUp()
	p.MoveUp()
	if p.SelectedDocument().Filename != "a.pdf" {
		t.Error("selection should clamp at start")
	}

	// Shrinking list clamps selection.
	p.MoveDown()
	p.SetDocuments([]api.DocumentInfo{{Filename: "a.pdf"}})
	if p.SelectedDocument().Filename != "a.pdf" {
		t.Error("selection should clamp after SetDocuments")
	}
}

func TestDocumentsPanelEmpty(t *testing.T) {
	p := NewDocumentsPanel(testTheme())
	if p.SelectedDocument() != nil {
		t.Error("empty panel has no selection")
	}
	if !strings.Contains(p.View(), "No documents") {
		t.Error("empty panel should say so")
	}
}

func TestCodeBlockRenderFallback(t *testing.T) {
	cb := NewCodeBlock("nosuchlang-xyz", "plain text content", testTheme())
	view := cb.Render()
	if !strings.Contains(view, "plain text content") {
		t.Error("code content missing from render")
	}
}

// =============================================================================
// FENCED CODE SPLITTING TESTS
// =============================================================================

func TestSplitFencedMixedContent(t *testing.T) {
	content := "Use this:\n```go\nfmt.Println(1)\n```\nDone."
	segs := splitFenced(content)

	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3", len(segs))
	}
	if segs[0].code || segs[0].text != "Use this:" {
		t.Errorf("prose segment = %+v", segs[0])
	}
	if !segs[1].code || segs[1].language != "go" || segs[1].text != "fmt.Println(1)" {
		t.Errorf("code segment = %+v", segs[1])
	}
	if segs[2].code || segs[2].text != "Done." {
		t.Errorf("trailing prose segment = %+v", segs[2])
	}
}

func TestSplitFencedNoFence(t *testing.T) {
	segs := splitFenced("just prose")
	if len(segs) != 1 || segs[0].code || segs[0].text != "just prose" {
		t.Errorf("segments = %+v", segs)
	}
}

func TestSplitFencedUnterminated(t *testing.T) {
	// A streaming answer may end mid-block.
	segs := splitFenced("intro\n```python\nprint(1)")
	last := segs[len(segs)-1]
	if !last.code || last.language != "python" {
		t.Errorf("unterminated fence should stay code, got %+v", last)
	}
}
