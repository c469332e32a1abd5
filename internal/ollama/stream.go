// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with Ollama API.
package ollama

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"
)

// =============================================================================
// STREAM READER
// =============================================================================

// StreamReader handles line-by-line JSON parsing of streaming responses.
//
// The /api/generate stream is a sequence of newline-delimited JSON objects.
// Lines that fail to parse are treated as protocol noise and skipped
// silently; they never terminate the stream.
type StreamReader struct {
	reader *bufio.Reader
	// PERFORMANCE: strings.Builder avoids quadratic allocations
	accumulator strings.Builder
	tokenCount  int
	model       string
}

// NewStreamReader creates a new stream reader from an io.Reader.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{
		reader: bufio.NewReader(r),
	}
}

// Process reads the stream and calls the callback for each chunk.
// Blocks until the stream ends or the context is cancelled.
//
// A clean connection close (io.EOF) without an explicit done flag is
// treated as end of stream and returns nil.
func (s *StreamReader) Process(ctx context.Context, callback StreamCallback) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			chunk, err := s.readChunk()
			if err != nil {
				if err == io.EOF {
					return nil
				}
				return err
			}

			if chunk != nil {
				callback(*chunk)
				if chunk.Done {
					return nil
				}
			}
		}
	}
}

// readChunk reads and parses a single line from the stream.
// Returns (nil, nil) for lines that should be skipped.
func (s *StreamReader) readChunk() (*StreamChunk, error) {
	line, err := s.reader.ReadBytes('\n')
	if err != nil {
		if err == io.EOF && len(line) == 0 {
			return nil, io.EOF
		}
		// Try to process a partial last line before surfacing the error.
		if len(line) == 0 {
			return nil, err
		}
	}

	trimmed := strings.TrimSpace(string(line))
	if trimmed == "" {
		return nil, nil
	}

	var response GenerateResponse
	if jsonErr := json.Unmarshal([]byte(trimmed), &response); jsonErr != nil {
		// Protocol noise: skip the line, keep the stream alive.
		return nil, nil
	}

	if response.Model != "" {
		s.model = response.Model
	}

	if response.Response != "" {
		s.accumulator.WriteString(response.Response)
		s.tokenCount++
	}

	chunk := &StreamChunk{
		Content: response.Response,
		Done:    response.Done,
		Model:   s.model,
	}

	if response.Done {
		chunk.DoneReason = response.DoneReason
		chunk.TotalDuration = time.Duration(response.TotalDuration)
		chunk.EvalDuration = time.Duration(response.EvalDuration)
		chunk.EvalCount = response.EvalCount
	}

	return chunk, nil
}

// Accumulated returns all fragment text received so far.
func (s *StreamReader) Accumulated() string {
	return s.accumulator.String()
}

// TokenCount returns the number of non-empty fragments received.
func (s *StreamReader) TokenCount() int {
	return s.tokenCount
}

// Model returns the model name reported by the stream, if any.
func (s *StreamReader) Model() string {
	return s.model
}

// =============================================================================
// STREAM STATISTICS
// =============================================================================

// StreamStats holds timing collected around a streaming generation.
type StreamStats struct {
	StartTime      time.Time
	FirstTokenTime time.Time
	EndTime        time.Time

	// From the final stream chunk.
	TotalDuration time.Duration
	EvalDuration  time.Duration
	EvalCount     int

	// Computed
	TTFT            time.Duration // Time to first token
	TokensPerSecond float64
}

// NewStreamStats creates a new StreamStats with start time set.
func NewStreamStats() *StreamStats {
	return &StreamStats{StartTime: time.Now()}
}

// RecordFirstToken marks the time of first fragment arrival.
func (s *StreamStats) RecordFirstToken() {
	if s.FirstTokenTime.IsZero() {
		s.FirstTokenTime = time.Now()
		s.TTFT = s.FirstTokenTime.Sub(s.StartTime)
	}
}

// Finalize computes final statistics from the last chunk.
func (s *StreamStats) Finalize(chunk StreamChunk) {
	s.EndTime = time.Now()
	s.TotalDuration = chunk.TotalDuration
	s.EvalDuration = chunk.EvalDuration
	s.EvalCount = chunk.EvalCount

	if s.EvalDuration > 0 {
		s.TokensPerSecond = float64(s.EvalCount) / s.EvalDuration.Seconds()
	}
}
