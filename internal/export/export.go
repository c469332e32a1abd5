// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/morganforge/ollamamate/internal/util"
)

// ErrEmptyTranscript is returned when exporting a transcript with no turns.
var ErrEmptyTranscript = errors.New("transcript is empty, nothing to export")

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for transcript exporters. Exporters work
// on the transcript's rendered text projection, never on the live
// transcript: the caller takes the projection on the goroutine that owns
// the transcript and hands this package an immutable string, so the file
// write can run in the background.
type Exporter interface {
	// Export renders the text projection to the target format.
	Export(text string) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".txt").
	FileExtension() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// Dir is the directory where files are saved.
	// Default: current working directory.
	Dir string
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{Dir: "."}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile renders the projection with the given exporter and writes it
// to a timestamped file in opts.Dir, creating the directory if needed.
// Returns the written path. An empty projection is an error: there is
// nothing to save and no file is created.
func ExportToFile(text string, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if text == "" {
		return "", ErrEmptyTranscript
	}

	content, err := exporter.Export(text)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	filename := fmt.Sprintf("ollamamate_%s%s",
		time.Now().Format("20060102_150405"),
		exporter.FileExtension(),
	)

	outputPath := filepath.Join(dir, filename)
	if err := util.AtomicWriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return outputPath, nil
}

// ExportText writes the transcript's plain-text projection to opts.Dir.
func ExportText(text string, opts *Options) (string, error) {
	return ExportToFile(text, NewTextExporter(), opts)
}
