// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the chat session: the transcript state machine and
// the ingestion of streamed responses into it.
//
// # Key Types
//
//   - Session: Validates submissions, owns the Transcript, and applies
//     stream events as the single transcript writer
//   - Submission: Handle for one in-flight prompt, carrying its ordered
//     event channel
//   - Ingestor: Background worker that consumes the Ollama stream and
//     produces events
//   - Event: One unit of work crossing from the worker to the UI loop
//
// # Concurrency
//
// One background worker exists per in-flight prompt, bounded to one at a
// time by the SessionBusy check. The worker performs all network I/O and
// never touches the transcript; every observable update crosses to the UI
// loop through the submission's ordered event channel, and Session.Apply
// runs only on that loop. After any terminal event the session is Idle.
package session
