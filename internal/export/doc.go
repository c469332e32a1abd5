// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes transcript snapshots to disk.
//
// # Key Types
//
//   - Exporter: Format interface (render a projection to bytes)
//   - TextExporter: Plain-text format, the default
//   - Options: Output directory configuration
//
// Exporters take the transcript's rendered text projection, not the live
// transcript: callers snapshot the projection on the goroutine that owns
// the transcript, then the file write can run anywhere.
//
// # Usage
//
// Export the current transcript:
//
//	path, err := export.ExportText(session.ExportText(), &export.Options{
//	    Dir: cfg.Export.Dir,
//	})
//
// Filenames are timestamped (ollamamate_20060102_150405.txt) so repeated
// exports never overwrite each other.
package export
