// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

// =============================================================================
// TEXT EXPORTER
// =============================================================================

// TextExporter emits the transcript projection as plain UTF-8 text, one
// "label:\ncontent\n" block per turn with blank-line separators. The
// projection already has that shape, so this is a pass-through.
type TextExporter struct{}

// NewTextExporter creates a plain-text exporter.
func NewTextExporter() *TextExporter {
	return &TextExporter{}
}

// Export emits the projection unchanged.
func (e *TextExporter) Export(text string) ([]byte, error) {
	return []byte(text), nil
}

// FileExtension returns ".txt".
func (e *TextExporter) FileExtension() string {
	return ".txt"
}
