// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with Ollama API.
package ollama

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// =============================================================================
// LIST MODELS TESTS
// =============================================================================

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("path = %q, want /api/tags", r.URL.Path)
		}
		w.Write([]byte(`{"models":[{"name":"llama3:8b","size":4661224676},{"name":"qwen2.5:7b"}]}`))
	}))
	defer srv.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	models, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}

	if len(models) != 2 {
		t.Fatalf("len(models) = %d, want 2", len(models))
	}
	if models[0].Name != "llama3:8b" {
		t.Errorf("models[0].Name = %q, want 'llama3:8b'", models[0].Name)
	}
}

func TestListModels_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("something broke"))
	}))
	defer srv.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	_, err := client.ListModels(context.Background())
	if err == nil {
		t.Fatal("ListModels() expected error on 500")
	}

	status, body, ok := IsServerError(err)
	if !ok {
		t.Fatalf("IsServerError() = false for %v", err)
	}
	if status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", status)
	}
	if body != "something broke" {
		t.Errorf("body = %q, want 'something broke'", body)
	}
}

func TestListModels_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not json"))
	}))
	defer srv.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	_, err := client.ListModels(context.Background())

	var clientErr *ClientError
	if !errors.As(err, &clientErr) || clientErr.Type != ErrTypeMalformed {
		t.Errorf("error = %v, want ErrTypeMalformed", err)
	}
}

func TestListModels_ConnectionFailure(t *testing.T) {
	// Grab a port that nothing listens on.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: "http://" + addr})
	_, err = client.ListModels(context.Background())
	if !IsConnectionFailure(err) {
		t.Errorf("error = %v, want connection failure", err)
	}
}

// =============================================================================
// GENERATE TESTS
// =============================================================================

func TestGenerate_StreamsFragments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q, want /api/generate", r.URL.Path)
		}
		w.Write([]byte(`{"response":"Hel","done":false}` + "\n"))
		w.Write([]byte(`{"response":"lo","done":false}` + "\n"))
		w.Write([]byte(`{"response":"","done":true,"eval_count":2}` + "\n"))
	}))
	defer srv.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})

	var got []string
	var final StreamChunk
	err := client.Generate(context.Background(), "llama3:8b", "hi", func(chunk StreamChunk) {
		if chunk.Content != "" {
			got = append(got, chunk.Content)
		}
		if chunk.Done {
			final = chunk
		}
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if strings.Join(got, "") != "Hello" {
		t.Errorf("fragments = %v, want to join to 'Hello'", got)
	}
	if !final.Done {
		t.Error("expected a final chunk with Done=true")
	}
	if final.EvalCount != 2 {
		t.Errorf("EvalCount = %d, want 2", final.EvalCount)
	}
}

func TestGenerate_SkipsMalformedLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"A","done":false}` + "\n"))
		w.Write([]byte("not json at all\n"))
		w.Write([]byte(`{"response":"B","done":true}` + "\n"))
	}))
	defer srv.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})

	var sb strings.Builder
	err := client.Generate(context.Background(), "m", "p", func(chunk StreamChunk) {
		sb.WriteString(chunk.Content)
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if sb.String() != "AB" {
		t.Errorf("content = %q, want 'AB' (noise line skipped)", sb.String())
	}
}

func TestGenerate_ServerErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model 'nope' not found"}`))
	}))
	defer srv.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	err := client.Generate(context.Background(), "nope", "p", func(StreamChunk) {})

	status, body, ok := IsServerError(err)
	if !ok {
		t.Fatalf("IsServerError() = false for %v", err)
	}
	if status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
	if body != "model 'nope' not found" {
		t.Errorf("body = %q, want decoded Ollama error message", body)
	}
}

func TestGenerate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := client.Generate(ctx, "m", "p", func(StreamChunk) {})
	if !IsTimeout(err) {
		t.Errorf("error = %v, want timeout", err)
	}
}

func TestGenerate_MidStreamCut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"Hel","done":false}` + "\n"))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		// Abort the connection without a terminating chunk.
		panic(http.ErrAbortHandler)
	}))
	defer srv.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})

	var sb strings.Builder
	err := client.Generate(context.Background(), "m", "p", func(chunk StreamChunk) {
		sb.WriteString(chunk.Content)
	})
	if err == nil {
		t.Fatal("Generate() expected error on aborted stream")
	}
	if !IsConnectionFailure(err) {
		t.Errorf("error = %v, want connection failure", err)
	}
	if sb.String() != "Hel" {
		t.Errorf("partial content = %q, want 'Hel'", sb.String())
	}
}

func TestGenerateChan_DeliversErrorChunk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})

	var last StreamChunk
	for chunk := range client.GenerateChan(context.Background(), "m", "p") {
		last = chunk
	}

	if last.Err == nil {
		t.Fatal("expected final chunk with Err set")
	}
	if _, _, ok := IsServerError(last.Err); !ok {
		t.Errorf("Err = %v, want server error", last.Err)
	}
}

func TestGenerateChan_TimeoutReachesSlowConsumer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"Hel","done":false}` + "\n"))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		// Stall past the client's deadline.
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	ch := client.GenerateChan(ctx, "m", "p")

	// The consumer is away from the channel while the deadline fires; the
	// terminal error chunk must still arrive before the channel closes.
	var last StreamChunk
	for chunk := range ch {
		last = chunk
		time.Sleep(150 * time.Millisecond)
	}

	if last.Err == nil {
		t.Fatal("channel closed without a terminal error chunk")
	}
	if !IsTimeout(last.Err) {
		t.Errorf("Err = %v, want timeout", last.Err)
	}
	if !last.Done {
		t.Error("terminal chunk must carry Done=true")
	}
}

// =============================================================================
// STREAM READER TESTS
// =============================================================================

func TestStreamReader_CleanEOFWithoutDone(t *testing.T) {
	// Connection closes cleanly before an explicit done flag: the stream
	// ends without error.
	input := `{"response":"partial","done":false}` + "\n"
	reader := NewStreamReader(strings.NewReader(input))

	var sb strings.Builder
	err := reader.Process(context.Background(), func(chunk StreamChunk) {
		sb.WriteString(chunk.Content)
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if sb.String() != "partial" {
		t.Errorf("content = %q, want 'partial'", sb.String())
	}
}

func TestStreamReader_PartialLastLine(t *testing.T) {
	// A final line without a trailing newline is still parsed.
	input := `{"response":"A","done":false}` + "\n" + `{"response":"B","done":true}`
	reader := NewStreamReader(strings.NewReader(input))

	var sb strings.Builder
	err := reader.Process(context.Background(), func(chunk StreamChunk) {
		sb.WriteString(chunk.Content)
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if sb.String() != "AB" {
		t.Errorf("content = %q, want 'AB'", sb.String())
	}
	if reader.TokenCount() != 2 {
		t.Errorf("TokenCount() = %d, want 2", reader.TokenCount())
	}
}

func TestStreamReader_TracksModel(t *testing.T) {
	input := `{"model":"llama3:8b","response":"x","done":true}` + "\n"
	reader := NewStreamReader(strings.NewReader(input))

	if err := reader.Process(context.Background(), func(StreamChunk) {}); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if reader.Model() != "llama3:8b" {
		t.Errorf("Model() = %q, want 'llama3:8b'", reader.Model())
	}
	if reader.Accumulated() != "x" {
		t.Errorf("Accumulated() = %q, want 'x'", reader.Accumulated())
	}
}

// =============================================================================
// MODEL INFO TESTS
// =============================================================================

func TestModelInfo_FormatSize(t *testing.T) {
	tests := []struct {
		name string
		size int64
		want string
	}{
		{"gigabytes", 4 * 1024 * 1024 * 1024, "4.0 GB"},
		{"megabytes", 512 * 1024 * 1024, "512.0 MB"},
		{"bytes", 100, "100.0 B"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := ModelInfo{Size: tc.size}
			if got := m.FormatSize(); got != tc.want {
				t.Errorf("FormatSize() = %q, want %q", got, tc.want)
			}
		})
	}
}
