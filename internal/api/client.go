// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the RAG chatbot backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeNotRunning
	ErrTypeTimeout
	ErrTypeBadRequest
	ErrTypeServer
	ErrTypeConnection
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrNotRunning = &ClientError{Type: ErrTypeNotRunning, Message: "backend is not running"}
	ErrTimeout    = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
)

// connectError wraps a transport-level failure.
func connectError(err error) error {
	return &ClientError{
		Type:    ErrTypeConnection,
		Message: "cannot reach backend",
		Cause:   err,
	}
}

// statusError builds an error from a non-2xx response.
// The backend reports failures as {"detail": "..."} (FastAPI style);
// fall back to the raw body when that shape is absent.
func statusError(status int, body []byte) error {
	detail := strings.TrimSpace(string(body))
	var wire struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &wire); err == nil && wire.Detail != "" {
		detail = wire.Detail
	}

	typ := ErrTypeServer
	if status >= 400 && status < 500 {
		typ = ErrTypeBadRequest
	}
	msg := fmt.Sprintf("backend returned %d", status)
	if detail != "" {
		msg = fmt.Sprintf("backend returned %d: %s", status, detail)
	}
	return &ClientError{Type: typ, Message: msg}
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://127.0.0.1:8000)
	// Note: Uses explicit IPv4 address instead of localhost to avoid
	// IPv6 resolution issues on Windows
	BaseURL string

	// Timeout for non-streaming requests (default: 30s)
	Timeout time.Duration

	// UploadTimeout for document uploads, which include server-side
	// indexing (default: 5m)
	UploadTimeout time.Duration
}

// DefaultClientConfig returns the default client configuration.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:       "http://127.0.0.1:8000",
		Timeout:       30 * time.Second,
		UploadTimeout: 5 * time.Minute,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the RAG backend.
// It is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client

	// streamClient has no overall timeout: a stream lives as long as
	// the answer takes, bounded only by the caller's context.
	streamClient *http.Client
}

// NewClient creates a client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultClientConfig())
}

// NewClientWithConfig creates a client with the given configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultClientConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultClientConfig().BaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Timeout <= 0 {
		config.Timeout = DefaultClientConfig().Timeout
	}
	if config.UploadTimeout <= 0 {
		config.UploadTimeout = DefaultClientConfig().UploadTimeout
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		streamClient: &http.Client{},
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// REQUEST / RESPONSE TYPES
// =============================================================================

// HistoryMessage is one prior turn sent with a chat request.
// Only role and content cross the wire; sources and local metadata stay
// client-side.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /chat and POST /chat/sync.
type ChatRequest struct {
	Question    string           `json:"question"`
	ChatHistory []HistoryMessage `json:"chat_history"`
}

// ChatResponse is the non-streaming answer from POST /chat/sync.
type ChatResponse struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// UploadResult reports the outcome of a document upload.
type UploadResult struct {
	Status      string `json:"status"`
	Filename    string `json:"filename"`
	ChunksCount int    `json:"chunks_count"`
	Message     string `json:"message"`
}

// DocumentInfo describes one indexed document.
type DocumentInfo struct {
	Filename    string      `json:"filename"`
	ChunksCount int         `json:"chunks_count"`
	Pages       []PageLabel `json:"pages"`
	UploadDate  string      `json:"upload_date"`
}

// DeleteResult reports the outcome of a document deletion.
type DeleteResult struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	DeletedChunks int    `json:"deleted_chunks"`
}

// ReindexResult reports the outcome of a full reindex.
type ReindexResult struct {
	Status      string         `json:"status"`
	Message     string         `json:"message"`
	Files       map[string]int `json:"files"`
	TotalChunks int            `json:"total_chunks"`
}

// =============================================================================
// HEALTH
// =============================================================================

// CheckRunning probes the backend root endpoint.
// Returns nil when the backend answers with a 2xx status.
func (c *Client) CheckRunning(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ErrNotRunning
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: fmt.Sprintf("health check returned %d", resp.StatusCode),
		}
	}
	return nil
}

// =============================================================================
// SYNC CHAT
// =============================================================================

// ChatSync asks a question without streaming.
// Useful for scripting and tests; the TUI always streams.
func (c *Client) ChatSync(ctx context.Context, question string, history []HistoryMessage) (*ChatResponse, error) {
	body, err := json.Marshal(ChatRequest{Question: question, ChatHistory: history})
	if err != nil {
		return nil, err
	}

	var result ChatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/chat/sync", bytes.NewReader(body), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// =============================================================================
// DOCUMENTS
// =============================================================================

// Upload sends one file as multipart form data to POST /upload.
// The server indexes the file before responding, so this uses the
// longer upload timeout. Extension validation happens before calling
// this (see the uploader package); the server re-checks anyway.
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader) (*UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	uploadClient := &http.Client{Timeout: c.config.UploadTimeout}
	resp, err := uploadClient.Do(req)
	if err != nil {
		return nil, connectError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, data)
	}

	var result UploadResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "invalid upload response", Cause: err}
	}
	return &result, nil
}

// ListDocuments fetches the indexed document list.
func (c *Client) ListDocuments(ctx context.Context) ([]DocumentInfo, error) {
	var result struct {
		Status    string         `json:"status"`
		Documents []DocumentInfo `json:"documents"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/documents", nil, &result); err != nil {
		return nil, err
	}
	return result.Documents, nil
}

// DeleteDocument removes a document from the index and from disk.
func (c *Client) DeleteDocument(ctx context.Context, filename string) (*DeleteResult, error) {
	var result DeleteResult
	path := "/documents/" + url.PathEscape(filename)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Reindex triggers a full reindex of the server document folder.
// Safe to invoke while a chat stream is active: the backend serves
// them independently and this client uses a separate connection.
func (c *Client) Reindex(ctx context.Context) (*ReindexResult, error) {
	var result ReindexResult
	if err := c.doJSON(ctx, http.MethodPost, "/reindex", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// doJSON performs a request and decodes a JSON response into out.
func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return ErrTimeout
		}
		return connectError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "invalid response body", Cause: err}
	}
	return nil
}
