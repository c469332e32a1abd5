// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"
)

func TestStreamingBuffer_FirstFlushIsImmediate(t *testing.T) {
	sb := NewStreamingBuffer()
	sb.Write("Hel")

	content, ok := sb.Flush()
	if !ok {
		t.Fatal("first flush should be released immediately")
	}
	if content != "Hel" {
		t.Errorf("content = %q, want 'Hel'", content)
	}
}

func TestStreamingBuffer_PacesSmallBatches(t *testing.T) {
	sb := NewStreamingBuffer()

	// Drain the limiter's initial slot.
	sb.Write("a")
	if _, ok := sb.Flush(); !ok {
		t.Fatal("initial flush should succeed")
	}

	// A few fragments right after must be held back until the pacing
	// interval elapses.
	sb.Write("b")
	sb.Write("c")
	if content, ok := sb.Flush(); ok {
		t.Errorf("flush released %q, want pacing to hold it back", content)
	}
	if sb.Pending() != 2 {
		t.Errorf("Pending() = %d, want 2", sb.Pending())
	}
}

func TestStreamingBuffer_BatchThresholdOverridesPacing(t *testing.T) {
	sb := NewStreamingBuffer()

	sb.Write("x")
	sb.Flush() // drain the initial limiter slot

	var want strings.Builder
	for i := 0; i < flushBatchSize; i++ {
		sb.Write("t")
		want.WriteString("t")
	}

	content, ok := sb.Flush()
	if !ok {
		t.Fatal("a full batch must flush regardless of pacing")
	}
	if content != want.String() {
		t.Errorf("content = %q, want %d fragments", content, flushBatchSize)
	}
	if sb.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0 after flush", sb.Pending())
	}
}

func TestStreamingBuffer_ForceFlushIgnoresPacing(t *testing.T) {
	sb := NewStreamingBuffer()

	sb.Write("a")
	sb.Flush()
	sb.Write("tail")

	content, ok := sb.ForceFlush()
	if !ok {
		t.Fatal("ForceFlush must release buffered content")
	}
	if content != "tail" {
		t.Errorf("content = %q, want 'tail'", content)
	}

	if _, ok := sb.ForceFlush(); ok {
		t.Error("ForceFlush on an empty buffer must report nothing")
	}
}

func TestStreamingBuffer_Reset(t *testing.T) {
	sb := NewStreamingBuffer()
	sb.Write("discard me")

	sb.Reset()

	if sb.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0 after reset", sb.Pending())
	}
	if content, ok := sb.ForceFlush(); ok {
		t.Errorf("ForceFlush after Reset released %q, want nothing", content)
	}
}

func TestStreamingBuffer_PreservesFragmentOrder(t *testing.T) {
	sb := NewStreamingBuffer()
	for _, fragment := range []string{"The ", "quick ", "brown ", "fox"} {
		sb.Write(fragment)
	}

	content, ok := sb.ForceFlush()
	if !ok {
		t.Fatal("expected buffered content")
	}
	if content != "The quick brown fox" {
		t.Errorf("content = %q, fragments must concatenate in order", content)
	}
}
