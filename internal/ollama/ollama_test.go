// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with Ollama API.
package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessageHelpers(t *testing.T) {
	tests := []struct {
		msg  Message
		role string
	}{
		{NewUserMessage("Hello"), "user"},
		{NewAssistantMessage("Hello"), "assistant"},
		{NewSystemMessage("Hello"), "system"},
	}

	for _, tc := range tests {
		if tc.msg.Role != tc.role {
			t.Errorf("Role = %q, want %q", tc.msg.Role, tc.role)
		}
		if tc.msg.Content != "Hello" {
			t.Errorf("Content = %q, want 'Hello'", tc.msg.Content)
		}
	}
}

func TestOptions_ZeroTemperatureIsSent(t *testing.T) {
	data, err := json.Marshal(ChatRequest{Model: "m", Options: &Options{Temperature: 0, NumPredict: 256}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"temperature":0`) {
		t.Errorf("request JSON %s missing explicit temperature", data)
	}
	if !strings.Contains(string(data), `"num_predict":256`) {
		t.Errorf("request JSON %s missing num_predict", data)
	}
}

func TestModelInfo_FormatSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{1932735283, "1.8 GB"},
	}
	for _, tc := range tests {
		if got := (ModelInfo{Size: tc.size}).FormatSize(); got != tc.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tc.size, got, tc.want)
		}
	}
}

// =============================================================================
// STREAM READER TESTS
// =============================================================================

func readAll(t *testing.T, r *StreamReader) (string, error) {
	t.Helper()
	var sb strings.Builder
	for {
		chunk, err := r.Next()
		if err == io.EOF {
			return sb.String(), nil
		}
		if err != nil {
			return sb.String(), err
		}
		sb.WriteString(chunk.Content)
	}
}

func TestStreamReader_Accumulates(t *testing.T) {
	body := strings.Join([]string{
		`{"model":"m","message":{"role":"assistant","content":"Hel"},"done":false}`,
		``,
		`not json at all`,
		`{"model":"m","message":{"role":"assistant","content":"lo"},"done":false}`,
		`{"model":"m","message":{"role":"assistant","content":" world"},"done":false}`,
		`{"model":"m","message":{"role":"assistant","content":""},"done":true,"eval_count":3,"eval_duration":1000000000}`,
		`{"model":"m","message":{"role":"assistant","content":"ignored"},"done":false}`,
	}, "\n")

	r := NewStreamReader(io.NopCloser(strings.NewReader(body)))
	got, err := readAll(t, r)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if got != "Hello world" {
		t.Errorf("accumulated = %q, want %q", got, "Hello world")
	}

	stats := r.Stats()
	if stats.Fragments != 3 {
		t.Errorf("Fragments = %d, want 3", stats.Fragments)
	}
	if stats.CompletionTokens != 3 || stats.TokensPerSecond != 3 {
		t.Errorf("stats = %+v, want 3 tokens at 3/s", stats)
	}
}

func TestStreamReader_EndsWithoutDone(t *testing.T) {
	body := `{"message":{"content":"partial"}}` + "\n"
	r := NewStreamReader(io.NopCloser(strings.NewReader(body)))

	got, err := readAll(t, r)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if got != "partial" {
		t.Errorf("accumulated = %q, want 'partial'", got)
	}
}

func TestStreamReader_ErrorLine(t *testing.T) {
	body := `{"message":{"content":"Hel"}}` + "\n" + `{"error":"model crashed"}` + "\n"
	r := NewStreamReader(io.NopCloser(strings.NewReader(body)))

	got, err := readAll(t, r)
	if err == nil {
		t.Fatal("expected error from error line")
	}
	if !strings.Contains(err.Error(), "model crashed") {
		t.Errorf("error = %v, want to contain 'model crashed'", err)
	}
	if got != "Hel" {
		t.Errorf("accumulated before error = %q, want 'Hel'", got)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next() after error = %v, want io.EOF", err)
	}
}

// =============================================================================
// CLIENT TESTS
// =============================================================================

func TestClient_ChatStream(t *testing.T) {
	var got ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		io.WriteString(w, `{"message":{"content":"Hi"},"done":false}`+"\n")
		io.WriteString(w, `{"message":{"content":"!"},"done":true}`+"\n")
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL + "/"})
	reader, err := c.ChatStream(context.Background(), ChatRequest{
		Model:    "qwen2.5-coder:3b",
		Messages: []Message{NewSystemMessage("sys"), NewUserMessage("hello")},
		Options:  &Options{Temperature: 0.2, NumPredict: 1024},
	})
	if err != nil {
		t.Fatalf("ChatStream() error = %v", err)
	}
	defer reader.Close()

	text, err := readAll(t, reader)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if text != "Hi!" {
		t.Errorf("text = %q, want 'Hi!'", text)
	}
	if !got.Stream {
		t.Error("request Stream = false, want true")
	}
	if got.Model != "qwen2.5-coder:3b" || len(got.Messages) != 2 {
		t.Errorf("request = %+v", got)
	}
	if got.Options == nil || got.Options.Temperature != 0.2 || got.Options.NumPredict != 1024 {
		t.Errorf("request options = %+v", got.Options)
	}
}

func TestClient_ChatStream_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		check   func(error) bool
		message string
	}{
		{"not found", http.StatusNotFound, `{"error":"model 'x' not found"}`, IsModelNotFound, "model not found"},
		{"server error body", http.StatusInternalServerError, `{"error":"out of memory"}`, func(error) bool { return true }, "out of memory"},
		{"server error plain", http.StatusBadGateway, `oops`, func(error) bool { return true }, "502"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
			_, err := c.ChatStream(context.Background(), ChatRequest{Model: "x"})
			if err == nil {
				t.Fatal("ChatStream() error = nil")
			}
			if !tc.check(err) {
				t.Errorf("error %v did not match expected kind", err)
			}
			if !strings.Contains(err.Error(), tc.message) {
				t.Errorf("error = %q, want to contain %q", err.Error(), tc.message)
			}
		})
	}
}

func TestClient_NotRunning(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: url})
	err := c.CheckRunning(context.Background())
	if !IsNotRunning(err) {
		t.Errorf("CheckRunning() = %v, want not running", err)
	}

	_, err = c.ChatStream(context.Background(), ChatRequest{Model: "x"})
	if !IsNotRunning(err) {
		t.Errorf("ChatStream() = %v, want not running", err)
	}
	var ce *ClientError
	if !errors.As(err, &ce) || ce.Cause == nil {
		t.Errorf("error %v should wrap the transport cause", err)
	}
}

func TestClient_ListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, `{"models":[{"name":"mistral:7b","size":4109865159},{"name":"qwen2.5-coder:3b","size":1929912432}]}`)
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	models, err := c.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if len(models) != 2 || models[0].Name != "mistral:7b" {
		t.Errorf("models = %+v", models)
	}

	ok, err := c.ModelExists(context.Background(), "qwen2.5-coder:3b")
	if err != nil || !ok {
		t.Errorf("ModelExists() = %v, %v; want true, nil", ok, err)
	}
	ok, _ = c.ModelExists(context.Background(), "neural-chat:7b")
	if ok {
		t.Error("ModelExists(neural-chat:7b) = true, want false")
	}
}
