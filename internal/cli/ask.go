// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question handling for the docchat CLI.
//
// Used for `docchat ask "question"` and for piped input. Uses the
// synchronous chat endpoint: no streaming, one request, one rendered
// answer.
package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/docchat-tui/internal/api"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

var (
	rendererOnce sync.Once
	renderer     *glamour.TermRenderer
)

// markdownRenderer lazily builds the shared glamour renderer.
func markdownRenderer() *glamour.TermRenderer {
	rendererOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err == nil {
			renderer = r
		}
	})
	return renderer
}

// renderMarkdown renders markdown for terminal output, falling back
// to the raw text when rendering is unavailable.
func renderMarkdown(text string) string {
	r := markdownRenderer()
	if r == nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return out
}

// =============================================================================
// ONE-SHOT ASK
// =============================================================================

// Ask sends a single question over the synchronous endpoint and
// writes the answer to w. markdown selects rendered or raw output.
func Ask(ctx context.Context, client *api.Client, question string, markdown bool, w io.Writer) error {
	resp, err := client.ChatSync(ctx, question, nil)
	if err != nil {
		return err
	}

	answer := resp.Answer
	if markdown {
		answer = renderMarkdown(answer)
	}
	fmt.Fprintln(w, answer)

	if len(resp.Sources) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Sources:")
		for _, src := range resp.Sources {
			printSource(w, src)
		}
	}
	return nil
}

// printSource writes one source citation line.
func printSource(w io.Writer, src api.Source) {
	if src.Page != "" {
		fmt.Fprintf(w, "  - %s (p. %s)\n", src.Filename, src.Page)
	} else {
		fmt.Fprintf(w, "  - %s\n", src.Filename)
	}
}
