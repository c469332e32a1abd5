// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"

	"github.com/morganforge/ollamamate/internal/ollama"
)

// =============================================================================
// INGESTION WORKER
// =============================================================================

// Ingestor runs the background side of a submission: it performs the
// streaming request and translates chunks into ordered events. It never
// touches the transcript.
type Ingestor struct {
	client *ollama.Client
}

// NewIngestor creates an ingestor backed by the given client.
func NewIngestor(client *ollama.Client) *Ingestor {
	return &Ingestor{client: client}
}

// Run streams the submission's prompt and sends events on the submission
// channel. It closes the channel on return and always delivers exactly one
// terminal event (EventDone or EventFailed).
//
// Run blocks until the stream ends and is meant to be launched in its own
// goroutine, one per submission.
func (ing *Ingestor) Run(ctx context.Context, sub *Submission) {
	defer close(sub.events)

	ctx, cancel := context.WithTimeout(ctx, ing.client.StreamTimeout())
	defer cancel()

	stats := ollama.NewStreamStats()

	for chunk := range ing.client.GenerateChan(ctx, sub.Model, sub.Prompt) {
		if chunk.Err != nil {
			sub.events <- Event{Kind: EventFailed, Err: chunk.Err}
			return
		}
		if chunk.Content != "" {
			stats.RecordFirstToken()
			sub.events <- Event{Kind: EventToken, Fragment: chunk.Content}
		}
		if chunk.Done {
			stats.Finalize(chunk)
			sub.events <- Event{Kind: EventDone, Stats: stats}
			return
		}
	}

	// Channel closed without a done marker: the server ended the stream
	// cleanly, so the accumulated text stands as the complete response.
	// No final chunk means no token statistics.
	stats.Finalize(ollama.StreamChunk{})
	sub.events <- Event{Kind: EventDone, Stats: stats}
}
