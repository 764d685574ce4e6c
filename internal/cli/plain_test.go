// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the plain-terminal mode of docchat.
package cli

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jeranaias/docchat-tui/internal/api"
	"github.com/jeranaias/docchat-tui/internal/model"
)

func TestStreamAnswerErrorReplacesPartialWithNotice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"type\":\"token\",\"content\":\"partial answer\"}\n\n")
		fmt.Fprint(w, "data: {\"type\":\"error\",\"content\":\"retrieval failed\"}\n\n")
	}))
	defer srv.Close()

	client := api.NewClientWithConfig(&api.ClientConfig{BaseURL: srv.URL})
	sess := model.NewSession()
	streamAnswer(client, sess, "q", false)

	got := sess.LastAssistantMessage()
	if got == nil {
		t.Fatal("no assistant message")
	}
	if !got.IsError {
		t.Error("message should be marked as error")
	}
	if got.Content != "Error: retrieval failed" {
		t.Errorf("content = %q, want the error notice", got.Content)
	}
	if strings.Contains(got.Content, "partial") {
		t.Errorf("partial text should be discarded, got %q", got.Content)
	}
}

func TestStreamAnswerNormalCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"type\":\"token\",\"content\":\"Hello\"}\n\n")
		fmt.Fprint(w, "data: {\"type\":\"done\"}\n\n")
	}))
	defer srv.Close()

	client := api.NewClientWithConfig(&api.ClientConfig{BaseURL: srv.URL})
	sess := model.NewSession()
	streamAnswer(client, sess, "q", false)

	got := sess.LastAssistantMessage()
	if got == nil {
		t.Fatal("no assistant message")
	}
	if got.Content != "Hello" {
		t.Errorf("content = %q, want Hello", got.Content)
	}
	if got.IsStreaming || got.IsError {
		t.Error("message should be finalized without error")
	}
}
