// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package uploader validates documents for upload and watches a drop
// folder for automatic ingestion.
package uploader

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestSupportedFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"manual.pdf", true},
		{"notes.txt", true},
		{"spec.docx", true},
		{"legacy.doc", true},
		{"REPORT.PDF", true}, // case-insensitive
		{"report.exe", false},
		{"archive.zip", false},
		{"noext", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := SupportedFile(tt.name); got != tt.want {
			t.Errorf("SupportedFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "doc.txt")
	os.WriteFile(good, []byte("content"), 0644)
	if err := Validate(good); err != nil {
		t.Errorf("valid file rejected: %v", err)
	}

	if err := Validate(filepath.Join(dir, "missing.pdf")); err == nil {
		t.Error("missing file should be rejected")
	}

	if err := Validate(dir); err == nil {
		t.Error("directory should be rejected")
	}

	bad := filepath.Join(dir, "report.exe")
	os.WriteFile(bad, []byte("MZ"), 0644)
	if err := Validate(bad); err == nil {
		t.Error("unsupported extension should be rejected")
	}

	empty := filepath.Join(dir, "empty.txt")
	os.WriteFile(empty, nil, 0644)
	if err := Validate(empty); err == nil {
		t.Error("empty file should be rejected")
	}
}

// =============================================================================
// WATCHER TESTS
// =============================================================================

func TestWatcherUploadsDroppedFile(t *testing.T) {
	dir := t.TempDir()

	var mu sync.Mutex
	uploaded := make(map[string]int)

	w, err := NewWatcher(dir, 60, func(ctx context.Context, path string) error {
		mu.Lock()
		uploaded[filepath.Base(path)]++
		mu.Unlock()
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	// Let the watcher arm.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "dropped.txt"), []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	// Unsupported file alongside should be ignored.
	os.WriteFile(filepath.Join(dir, "ignored.exe"), []byte("MZ"), 0644)

	deadline := time.After(3 * time.Second)
	for {
		mu.Lock()
		n := uploaded["dropped.txt"]
		mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("dropped.txt was never uploaded")
		case <-time.After(20 * time.Millisecond):
		}
	}

	mu.Lock()
	if uploaded["dropped.txt"] != 1 {
		t.Errorf("dropped.txt uploaded %d times, want 1 (debounce)", uploaded["dropped.txt"])
	}
	if uploaded["ignored.exe"] != 0 {
		t.Error("unsupported file should not be uploaded")
	}
	mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("watcher did not stop on cancel")
	}
}

func TestWatcherNotifiesValidationFailure(t *testing.T) {
	dir := t.TempDir()

	notified := make(chan error, 1)
	w, err := NewWatcher(dir, 60,
		func(ctx context.Context, path string) error { return nil },
		func(path string, err error) {
			if err != nil {
				select {
				case notified <- err:
				default:
				}
			}
		})
	if err != nil {
		t.Fatal(err)
	}
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)
	time.Sleep(100 * time.Millisecond)

	// Supported extension but empty content fails validation.
	os.WriteFile(filepath.Join(dir, "empty.pdf"), nil, 0644)

	select {
	case <-notified:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a validation failure notification")
	}
}

func TestNewWatcherRejectsMissingDir(t *testing.T) {
	if _, err := NewWatcher("/no/such/dir", 6, nil, nil); err == nil {
		t.Error("expected error for missing directory")
	}
}
