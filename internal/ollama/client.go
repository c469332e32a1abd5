// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with Ollama API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents a classified error from the Ollama client.
type ClientError struct {
	Type    ErrorType
	Message string
	Status  int    // HTTP status code (server errors only)
	Body    string // Response body excerpt (server errors only)
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
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeServer
	ErrTypeMalformed
)

// Sentinel errors for easy checking.
var (
	ErrConnectionFailed = &ClientError{Type: ErrTypeConnection, Message: "cannot connect to Ollama"}
	ErrTimeout          = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
)

// maxErrorBody caps how much of an error response body is retained for
// display. Ollama error bodies are short; the cap guards against a
// misconfigured base URL pointing at something that is not Ollama.
const maxErrorBody = 4 * 1024

// IsTimeout reports whether err is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return false
}

// IsConnectionFailure reports whether err is a connection-level failure.
func IsConnectionFailure(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeConnection
	}
	return false
}

// IsServerError reports whether err is a non-2xx HTTP response. When it is,
// the status code and body excerpt are returned alongside.
func IsServerError(err error) (status int, body string, ok bool) {
	var clientErr *ClientError
	if errors.As(err, &clientErr) && clientErr.Type == ErrTypeServer {
		return clientErr.Status, clientErr.Body, true
	}
	return 0, "", false
}

// classifyTransportError maps a transport-level failure from net/http into
// the client error taxonomy. Context deadlines become timeouts; everything
// else at this layer is a connection failure.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
	}
	return &ClientError{Type: ErrTypeConnection, Message: "cannot connect to Ollama", Cause: err}
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the Ollama client.
type ClientConfig struct {
	// BaseURL is the Ollama API base URL (default: http://127.0.0.1:11434)
	// Note: Uses explicit IPv4 address instead of localhost to avoid IPv6
	// resolution issues on Windows.
	BaseURL string

	// StreamTimeout bounds a whole streaming generation, from request to
	// final chunk (default: 600s). Applied by the caller via context.
	StreamTimeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:       "http://127.0.0.1:11434",
		StreamTimeout: 600 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the Ollama API.
// It provides model listing and streaming text generation.
//
// The Client is safe for concurrent use, though the application issues at
// most one generation at a time.
type Client struct {
	config *ClientConfig

	// httpClient carries no timeout of its own: the listing request is
	// deliberately unbounded and streaming requests are bounded by the
	// caller's context deadline.
	httpClient *http.Client
}

// NewClient creates a new Ollama client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new Ollama client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:11434"
	}
	if config.StreamTimeout == 0 {
		config.StreamTimeout = 600 * time.Second
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{},
	}
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// StreamTimeout returns the configured streaming timeout.
func (c *Client) StreamTimeout() time.Duration {
	return c.config.StreamTimeout
}

// =============================================================================
// MODEL OPERATIONS
// =============================================================================

// ListModels retrieves all available models from Ollama via /api/tags.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/api/tags", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, serverError(resp, "failed to list models")
	}

	var result ListModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeMalformed, Message: "failed to decode model listing", Cause: err}
	}

	return result.Models, nil
}

// =============================================================================
// STREAMING GENERATION
// =============================================================================

// StreamCallback is called for each chunk received during streaming.
type StreamCallback func(chunk StreamChunk)

// Generate sends a streaming generation request to /api/generate and calls
// the callback for each chunk, synchronously, in the order chunks are
// received. Returns when the stream completes cleanly (nil) or fails.
//
// Malformed stream lines are skipped by the StreamReader and never surface
// as errors.
func (c *Client) Generate(ctx context.Context, model, prompt string, callback StreamCallback) error {
	reqBody := GenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: true,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return &ClientError{Type: ErrTypeUnknown, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return serverError(resp, "generate request failed")
	}

	reader := NewStreamReader(resp.Body)
	if err := reader.Process(ctx, callback); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &ClientError{Type: ErrTypeTimeout, Message: "stream timed out", Cause: err}
		}
		if errors.Is(err, context.Canceled) {
			return err
		}
		return &ClientError{Type: ErrTypeConnection, Message: "stream interrupted", Cause: err}
	}
	return nil
}

// GenerateChan sends a streaming generation request and returns a channel of
// chunks. The channel preserves receive order and is closed when streaming
// completes or fails. Failures are delivered as a final chunk with Err set.
func (c *Client) GenerateChan(ctx context.Context, model, prompt string) <-chan StreamChunk {
	ch := make(chan StreamChunk)

	go func() {
		defer close(ch)

		err := c.Generate(ctx, model, prompt, func(chunk StreamChunk) {
			select {
			case ch <- chunk:
			case <-ctx.Done():
			}
		})

		if err != nil {
			// The consumer drains until close, so this send always
			// completes. Selecting on ctx.Done here could drop the
			// terminal chunk after a deadline and make a timed-out
			// stream look like a clean finish.
			ch <- StreamChunk{Err: err, Done: true}
		}
	}()

	return ch
}

// =============================================================================
// HELPERS
// =============================================================================

// serverError builds a ClientError from a non-2xx response, capturing the
// status and a body excerpt. If the body decodes as Ollama's error shape,
// its message is used.
func serverError(resp *http.Response, msg string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	body := string(raw)

	var apiErr APIError
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error != "" {
		body = apiErr.Error
	}

	return &ClientError{
		Type:    ErrTypeServer,
		Message: msg + ": " + resp.Status,
		Status:  resp.StatusCode,
		Body:    body,
	}
}
