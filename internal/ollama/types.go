// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with Ollama API.
package ollama

import "time"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// GenerateRequest is the request body for the /api/generate endpoint.
type GenerateRequest struct {
	Model  string `json:"model"`  // Model name (e.g., "llama3:8b")
	Prompt string `json:"prompt"` // The user prompt
	Stream bool   `json:"stream"` // Enable streaming (always true here)
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// GenerateResponse is a single newline-delimited JSON object from the
// /api/generate stream. The final object carries Done=true plus timing
// statistics; intermediate objects carry an incremental Response fragment.
type GenerateResponse struct {
	Model         string    `json:"model"`
	CreatedAt     time.Time `json:"created_at"`
	Response      string    `json:"response"`
	Done          bool      `json:"done"`
	DoneReason    string    `json:"done_reason,omitempty"`
	TotalDuration int64     `json:"total_duration,omitempty"` // nanoseconds
	EvalCount     int       `json:"eval_count,omitempty"`     // tokens generated
	EvalDuration  int64     `json:"eval_duration,omitempty"`  // nanoseconds
}

// =============================================================================
// MODEL TYPES
// =============================================================================

// ModelInfo contains information about a model from the /api/tags listing.
type ModelInfo struct {
	Name       string    `json:"name"`
	ModifiedAt time.Time `json:"modified_at"`
	Size       int64     `json:"size"`
	Digest     string    `json:"digest"`
}

// ListModelsResponse is the response from the /api/tags endpoint.
type ListModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// FormatSize formats the model size in human-readable form.
func (m *ModelInfo) FormatSize() string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)

	switch {
	case m.Size >= gb:
		return formatSize(float64(m.Size)/gb, "GB")
	case m.Size >= mb:
		return formatSize(float64(m.Size)/mb, "MB")
	case m.Size >= kb:
		return formatSize(float64(m.Size)/kb, "KB")
	default:
		return formatSize(float64(m.Size), "B")
	}
}

func formatSize(f float64, unit string) string {
	whole := int64(f)
	frac := int64((f - float64(whole)) * 10)
	if frac < 0 {
		frac = -frac
	}
	return itoa(whole) + "." + itoa(frac) + " " + unit
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	negative := n < 0
	if negative {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if negative {
		return "-" + string(digits)
	}
	return string(digits)
}

// =============================================================================
// STREAMING TYPES
// =============================================================================

// StreamChunk represents a single chunk from a streaming response.
type StreamChunk struct {
	// Content is the incremental text fragment from this chunk.
	Content string

	// Done is true on the final chunk of the stream.
	Done bool

	// DoneReason is populated on the final chunk when the server reports one.
	DoneReason string

	// Timing and token statistics (only populated on the final chunk).
	TotalDuration time.Duration
	EvalDuration  time.Duration
	EvalCount     int

	// Model is the model name reported by the stream.
	Model string

	// Err is set when the stream terminated with a failure. A chunk with
	// Err set is always the last chunk delivered.
	Err error
}

// =============================================================================
// API ERROR TYPES
// =============================================================================

// APIError is the JSON error body Ollama returns on failed requests.
type APIError struct {
	Error string `json:"error"`
}
