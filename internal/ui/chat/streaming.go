// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file implements streaming render pacing. Ollama can deliver tokens
// far faster than a terminal should repaint; the StreamingBuffer batches
// fragments and releases them at a capped rate so the viewport updates
// smoothly instead of flickering at token speed.
package chat

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"
)

// =============================================================================
// STREAMING BUFFER
// =============================================================================

const (
	// flushBatchSize releases a batch early once this many fragments are
	// buffered, regardless of pacing.
	flushBatchSize = 15

	// flushInterval is the pacing between rendered flushes (~30fps).
	flushInterval = 33 * time.Millisecond
)

// StreamingBuffer batches stream fragments between renders.
//
// Fragments accumulate until either the batch size threshold is reached or
// the rate limiter releases a slot. A mutex guards the buffer: writes come
// from Update handling session events, reads come from tick handling, and
// both run on the Bubble Tea loop today, but the buffer stays safe if a
// producer ever moves off it.
type StreamingBuffer struct {
	mu            sync.Mutex
	buffer        strings.Builder
	fragmentCount int
	limiter       *rate.Limiter
}

// NewStreamingBuffer creates a streaming buffer with default pacing.
func NewStreamingBuffer() *StreamingBuffer {
	return &StreamingBuffer{
		limiter: rate.NewLimiter(rate.Every(flushInterval), 1),
	}
}

// Write adds a fragment to the buffer.
func (sb *StreamingBuffer) Write(fragment string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.buffer.WriteString(fragment)
	sb.fragmentCount++
}

// Flush returns the accumulated content when a flush is due, either because
// the batch threshold was hit or the limiter released a slot. Returns
// ("", false) when nothing should be rendered yet.
func (sb *StreamingBuffer) Flush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.buffer.Len() == 0 {
		return "", false
	}
	if sb.fragmentCount < flushBatchSize && !sb.limiter.Allow() {
		return "", false
	}
	return sb.drainLocked(), true
}

// ForceFlush immediately returns all buffered content regardless of pacing.
// Used when a stream ends so no fragment is left behind.
func (sb *StreamingBuffer) ForceFlush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.buffer.Len() == 0 {
		return "", false
	}
	return sb.drainLocked(), true
}

// Reset clears the buffer without flushing.
func (sb *StreamingBuffer) Reset() {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.buffer.Reset()
	sb.fragmentCount = 0
}

// Pending returns the number of fragments waiting to be flushed.
func (sb *StreamingBuffer) Pending() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.fragmentCount
}

func (sb *StreamingBuffer) drainLocked() string {
	content := sb.buffer.String()
	sb.buffer.Reset()
	sb.fragmentCount = 0
	return content
}

// =============================================================================
// STREAMING TICK COMMAND
// =============================================================================

// streamTickCmd creates a tea.Cmd that sends StreamTickMsg at the flush
// cadence, driving paced renders while a response streams.
func streamTickCmd() tea.Cmd {
	return tea.Tick(flushInterval, func(t time.Time) tea.Msg {
		return StreamTickMsg{Time: t}
	})
}
