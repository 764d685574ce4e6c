// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// plain.go - Interactive plain-terminal chat for docchat.
//
// USABILITY: Markdown rendering and history for better CLI experience
//
// Commands during chat:
//   /help               Show available commands
//   /docs               List indexed documents
//   /upload <path>      Upload a document
//   /delete <name>      Remove a document from the index
//   /reindex            Rebuild the backend index
//   /clear              Clear conversation history
//   /quit               Exit
//   Ctrl+C              Cancel current answer
//   Ctrl+D              Exit
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/jeranaias/docchat-tui/internal/api"
	"github.com/jeranaias/docchat-tui/internal/config"
	"github.com/jeranaias/docchat-tui/internal/model"
	"github.com/jeranaias/docchat-tui/internal/uploader"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// repl wraps liner with persistent input history.
type repl struct {
	line        *liner.State
	historyFile string
}

func newREPL() *repl {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	historyFile := filepath.Join(configDir, "chat_history")

	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	return &repl{line: line, historyFile: historyFile}
}

// close saves history and releases the terminal.
func (r *repl) close() {
	if f, err := os.Create(r.historyFile); err == nil {
		r.line.WriteHistory(f)
		f.Close()
	}
	r.line.Close()
}

// =============================================================================
// PLAIN CHAT LOOP
// =============================================================================

// RunPlain runs the interactive plain-terminal chat loop.
func RunPlain(client *api.Client, markdown bool) error {
	r := newREPL()
	defer r.close()

	sess := model.NewSession()

	fmt.Println("docchat - chat with your documents")
	if err := client.CheckRunning(context.Background()); err != nil {
		fmt.Println("warning: backend not reachable at " + client.BaseURL())
	}
	fmt.Println("Type /help for commands, Ctrl+D to exit.")
	fmt.Println()

	for {
		input, err := r.line.Prompt("> ")
		if err == liner.ErrPromptAborted {
			continue
		}
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		r.line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if quit := runCommand(client, sess, input); quit {
				return nil
			}
			continue
		}

		streamAnswer(client, sess, input, markdown)
	}
}

// streamAnswer runs one question through the streaming endpoint,
// printing tokens as they arrive. Ctrl+C cancels the answer without
// leaving the loop.
func streamAnswer(client *api.Client, sess *model.Session, question string, markdown bool) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	// Snapshot history before this turn: the question rides in its
	// own field, not in chat_history.
	history := sess.History()
	sess.AddUserMessage(question)
	answer := sess.AddAssistantMessage()

	var sources []api.Source
	for ev := range client.Stream(ctx, question, history) {
		switch ev.Type {
		case api.EventToken:
			answer.AppendContent(ev.Token)
			fmt.Print(ev.Token)
		case api.EventSources:
			sources = ev.Sources
		case api.EventDone:
			answer.SetSources(sources)
			answer.FinishStreaming()
		case api.EventError:
			notice := "The backend reported an error. Please try again."
			if ev.Message != "" {
				notice = "Error: " + ev.Message
			}
			fmt.Println()
			fmt.Println(notice)
			answer.FailWith(notice)
		}
	}
	fmt.Println()

	if ctx.Err() != nil {
		answer.FinishStreaming()
		fmt.Println("(cancelled)")
		return
	}

	// Re-render the complete answer as markdown on capable terminals.
	if markdown && !answer.IsError && answer.Content != "" {
		fmt.Println()
		fmt.Print(renderMarkdown(answer.Content))
	}
	if len(sources) > 0 {
		fmt.Println()
		fmt.Println("Sources:")
		for _, src := range sources {
			printSource(os.Stdout, src)
		}
	}
}

// =============================================================================
// REPL COMMANDS
// =============================================================================

// runCommand handles a slash command. Returns true to exit the loop.
func runCommand(client *api.Client, sess *model.Session, input string) bool {
	fields := strings.Fields(input)
	cmd, args := fields[0], fields[1:]
	ctx := context.Background()

	switch cmd {
	case "/help", "/h":
		fmt.Println("  /docs              list indexed documents")
		fmt.Println("  /upload <path>     upload a document (.pdf .docx .doc .txt)")
		fmt.Println("  /delete <name>     remove a document")
		fmt.Println("  /reindex           rebuild the index")
		fmt.Println("  /clear             clear conversation history")
		fmt.Println("  /quit              exit")

	case "/docs":
		docs, err := client.ListDocuments(ctx)
		if err != nil {
			fmt.Println("error: " + err.Error())
			return false
		}
		if len(docs) == 0 {
			fmt.Println("No documents indexed.")
			return false
		}
		for _, doc := range docs {
			fmt.Printf("  %-40s %d chunks\n", doc.Filename, doc.ChunksCount)
		}

	case "/upload":
		if len(args) == 0 {
			fmt.Println("Usage: /upload <path>")
			return false
		}
		path := strings.Join(args, " ")
		if err := uploader.Validate(path); err != nil {
			fmt.Println("error: " + err.Error())
			return false
		}
		f, err := os.Open(path)
		if err != nil {
			fmt.Println("error: " + err.Error())
			return false
		}
		defer f.Close()
		result, err := client.Upload(ctx, path, f)
		if err != nil {
			fmt.Println("upload failed: " + err.Error())
			return false
		}
		fmt.Printf("Uploaded %s (%d chunks)\n", result.Filename, result.ChunksCount)

	case "/delete":
		if len(args) == 0 {
			fmt.Println("Usage: /delete <filename>")
			return false
		}
		name := strings.Join(args, " ")
		if _, err := client.DeleteDocument(ctx, name); err != nil {
			fmt.Println("delete failed: " + err.Error())
			return false
		}
		fmt.Println("Deleted " + name)

	case "/reindex":
		fmt.Println("Reindexing...")
		result, err := client.Reindex(ctx)
		if err != nil {
			fmt.Println("reindex failed: " + err.Error())
			return false
		}
		fmt.Println(result.Message)

	case "/clear", "/c":
		sess.ClearHistory()
		fmt.Println("History cleared.")

	case "/quit", "/q":
		return true

	default:
		fmt.Println("Unknown command " + cmd + ". Try /help.")
	}
	return false
}
