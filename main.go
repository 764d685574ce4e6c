// docchat TUI - A terminal chat client for a document RAG backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jeranaias/docchat-tui/internal/api"
	"github.com/jeranaias/docchat-tui/internal/cli"
	"github.com/jeranaias/docchat-tui/internal/config"
	"github.com/jeranaias/docchat-tui/internal/session"
	"github.com/jeranaias/docchat-tui/internal/storage"
	"github.com/jeranaias/docchat-tui/internal/ui/chat"
	"github.com/jeranaias/docchat-tui/internal/ui/styles"
	"github.com/jeranaias/docchat-tui/internal/uploader"
)

// Version information (set at build time)
var (
	Version   = "0.2.0"
	GitCommit = "unknown"
)

func main() {
	var (
		flagURL     = flag.String("url", "", "backend URL (overrides config)")
		flagAsk     = flag.String("ask", "", "ask one question and exit")
		flagPlain   = flag.Bool("plain", false, "plain REPL instead of the TUI")
		flagNoWatch = flag.Bool("no-watch", false, "disable the drop-folder watcher")
		flagVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *flagVersion {
		fmt.Printf("docchat %s (%s)\n", Version, GitCommit)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *flagURL != "" {
		cfg.Backend.URL = *flagURL
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	config.SetGlobal(cfg)

	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL: cfg.Backend.URL,
		Timeout: time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
	})

	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))

	// One-shot question: synchronous endpoint, no TUI.
	if *flagAsk != "" || flag.NArg() > 0 {
		question := *flagAsk
		if question == "" {
			question = strings.Join(flag.Args(), " ")
		}
		if err := cli.Ask(context.Background(), client, question, isTerminal, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Dumb terminals and pipes get the plain loop.
	if *flagPlain || !isTerminal {
		if err := cli.RunPlain(client, isTerminal); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	runTUI(client, cfg, !*flagNoWatch)
}

// runTUI wires storage, sessions and the watcher, then runs the
// Bubble Tea program.
func runTUI(client *api.Client, cfg *config.Config, watch bool) {
	// Bubble Tea owns the terminal, so debug output goes to a file.
	if debugPath := os.Getenv("DOCCHAT_DEBUG"); debugPath != "" {
		if f, err := tea.LogToFile(debugPath, "docchat"); err == nil {
			defer f.Close()
		}
	}

	store, err := storage.OpenDefault()
	if err != nil {
		// Persistence is optional: chat still works, sessions are
		// just not saved.
		fmt.Fprintf(os.Stderr, "warning: session storage unavailable: %v\n", err)
		store = nil
	} else {
		defer store.Close()
	}

	sessions := session.NewManager(store, session.DefaultConfig())
	theme := styles.NewTheme(cfg.UI.Theme)

	m := chat.New(client, sessions, cfg, theme)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	watcherCtx, stopWatcher := context.WithCancel(context.Background())
	defer stopWatcher()
	if watch && cfg.Upload.WatchDir != "" {
		startWatcher(watcherCtx, p, client, cfg)
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	sessions.Shutdown()
}

// startWatcher runs the drop-folder watcher, feeding outcomes into
// the running program.
func startWatcher(ctx context.Context, p *tea.Program, client *api.Client, cfg *config.Config) {
	w, err := uploader.NewWatcher(cfg.Upload.WatchDir, cfg.Upload.MaxPerMinute,
		func(ctx context.Context, path string) error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			_, err = client.Upload(ctx, path, f)
			return err
		},
		func(path string, err error) {
			p.Send(chat.WatcherNotice(path, err))
		})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: drop folder disabled: %v\n", err)
		return
	}
	go w.Run(ctx)
}
