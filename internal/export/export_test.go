// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/morganforge/ollamamate/internal/model"
)

func sampleProjection() string {
	tr := model.NewTranscript()
	tr.AppendUserTurn("What is Go?")
	tr.BeginAssistantTurn()
	tr.AppendToPending("A programming language.")
	tr.FinalizePending()
	return tr.ExportText()
}

func TestExportToFile_WritesTimestampedFile(t *testing.T) {
	dir := t.TempDir()

	path, err := ExportText(sampleProjection(), &Options{Dir: dir})
	if err != nil {
		t.Fatalf("ExportText() failed: %v", err)
	}

	name := filepath.Base(path)
	if !strings.HasPrefix(name, "ollamamate_") || !strings.HasSuffix(name, ".txt") {
		t.Errorf("filename = %q, want ollamamate_<timestamp>.txt", name)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading exported file: %v", err)
	}
	want := "You:\nWhat is Go?\n\nOllama:\nA programming language.\n"
	if string(content) != want {
		t.Errorf("content = %q, want %q", content, want)
	}
}

func TestExportToFile_EmptyTranscript(t *testing.T) {
	dir := t.TempDir()

	_, err := ExportText(model.NewTranscript().ExportText(), &Options{Dir: dir})
	if !errors.Is(err, ErrEmptyTranscript) {
		t.Fatalf("ExportText(empty) = %v, want ErrEmptyTranscript", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 0 {
		t.Error("no file should be created for an empty transcript")
	}
}

func TestExportToFile_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")

	path, err := ExportText(sampleProjection(), &Options{Dir: dir})
	if err != nil {
		t.Fatalf("ExportText() failed: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("path = %q, want a file inside %q", path, dir)
	}
}

func TestExportToFile_ErrorTurnIncluded(t *testing.T) {
	tr := model.NewTranscript()
	tr.AppendUserTurn("hi")
	tr.BeginAssistantTurn()
	tr.FailPending("[Connection Error] could not connect to Ollama. Is it running?")

	path, err := ExportText(tr.ExportText(), &Options{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("ExportText() failed: %v", err)
	}

	content, _ := os.ReadFile(path)
	if !strings.Contains(string(content), "Error:\n[Connection Error]") {
		t.Errorf("content = %q, want the error turn rendered with its label", content)
	}
}
