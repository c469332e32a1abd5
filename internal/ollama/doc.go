// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with Ollama API.
//
// This package implements a client for the Ollama local LLM server,
// supporting model listing via /api/tags and streaming text generation
// via /api/generate.
//
// # Key Types
//
//   - Client: HTTP client for Ollama API communication
//   - ModelInfo: A model entry from the /api/tags listing
//   - GenerateRequest: Request structure for /api/generate
//   - StreamChunk: A single incremental fragment from a streaming response
//   - StreamReader: Newline-delimited JSON stream reader
//   - ClientError: Classified error (connection, timeout, server, malformed)
//
// # Usage
//
// List available models:
//
//	client := ollama.NewClient()
//	models, err := client.ListModels(ctx)
//
// Stream a generation:
//
//	err := client.Generate(ctx, "llama3:8b", "Hello", func(chunk ollama.StreamChunk) {
//	    fmt.Print(chunk.Content)
//	})
//
// Generation errors are classified via ClientError so callers can map them
// to user-facing messages without string matching.
package ollama
