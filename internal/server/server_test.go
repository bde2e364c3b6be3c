// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/neuralcode/internal/backend"
	"github.com/jeranaias/neuralcode/internal/driver"
	"github.com/jeranaias/neuralcode/internal/model"
	"github.com/jeranaias/neuralcode/internal/session"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, b backend.Backend) *Server {
	t.Helper()
	sess := session.New(session.WithClock(func() time.Time { return testNow }))
	return New(sess, driver.New(b), Config{RateLimit: 1000, Burst: 1000})
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func streamLines(t *testing.T, body io.Reader) []StreamLine {
	t.Helper()
	var lines []StreamLine
	sc := bufio.NewScanner(body)
	for sc.Scan() {
		var l StreamLine
		if err := json.Unmarshal(sc.Bytes(), &l); err != nil {
			t.Fatalf("bad NDJSON line %q: %v", sc.Text(), err)
		}
		lines = append(lines, l)
	}
	return lines
}

// =============================================================================
// READ ENDPOINTS
// =============================================================================

func TestHealth(t *testing.T) {
	s := newTestServer(t, &backend.Scripted{})
	rec := do(t, s, "GET", "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	h := decode[HealthResponse](t, rec)
	if h.Status != "ok" || h.Backend != "scripted" || h.Messages != 1 {
		t.Errorf("health = %+v", h)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
}

func TestSession(t *testing.T) {
	s := newTestServer(t, &backend.Scripted{})
	got := decode[SessionResponse](t, do(t, s, "GET", "/api/session", ""))
	if got.CurrentProgram != model.DefaultProgramName {
		t.Errorf("CurrentProgram = %q", got.CurrentProgram)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != model.RoleSystem {
		t.Errorf("Messages = %+v", got.Messages)
	}
	if got.Settings != model.DefaultSettings() {
		t.Errorf("Settings = %+v", got.Settings)
	}
}

func TestPrograms(t *testing.T) {
	s := newTestServer(t, &backend.Scripted{})

	all := decode[[]ProgramResponse](t, do(t, s, "GET", "/api/programs", ""))
	if len(all) != model.MaxVisiblePrograms {
		t.Fatalf("got %d programs", len(all))
	}
	if all[0].Name != "Code Assistant" || all[0].RelativeTime != "30 min ago" {
		t.Errorf("first program = %+v", all[0])
	}

	filtered := decode[[]ProgramResponse](t, do(t, s, "GET", "/api/programs?q=DATA", ""))
	if len(filtered) != 1 || filtered[0].Name != "Data Scientist" {
		t.Errorf("filtered = %+v", filtered)
	}

	none := do(t, s, "GET", "/api/programs?q=zzz", "")
	if strings.TrimSpace(none.Body.String()) != "[]" {
		t.Errorf("empty filter body = %q, want []", none.Body.String())
	}
}

// =============================================================================
// MUTATIONS
// =============================================================================

func TestLoadProgram(t *testing.T) {
	s := newTestServer(t, &backend.Scripted{})
	_ = s.sess.AppendMessage(model.NewUserMessage("x"))

	rec := do(t, s, "POST", "/api/programs/Math%20Solver/load", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body)
	}
	got := decode[SessionResponse](t, rec)
	if got.CurrentProgram != "Math Solver" || len(got.Messages) != 1 {
		t.Errorf("after load: %+v", got)
	}

	if rec := do(t, s, "POST", "/api/programs/Nope/load", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown program status = %d, want 404", rec.Code)
	}
}

func TestNewAndClear(t *testing.T) {
	s := newTestServer(t, &backend.Scripted{})
	s.sess.LoadProgram("Creative Writer")
	_ = s.sess.AppendMessage(model.NewUserMessage("x"))

	got := decode[SessionResponse](t, do(t, s, "POST", "/api/chat/clear", ""))
	if len(got.Messages) != 1 || got.CurrentProgram != "Creative Writer" {
		t.Errorf("after clear: %+v", got)
	}

	got = decode[SessionResponse](t, do(t, s, "POST", "/api/chat/new", ""))
	if got.CurrentProgram != model.DefaultProgramName {
		t.Errorf("after new: %+v", got)
	}
}

func TestSettings(t *testing.T) {
	s := newTestServer(t, &backend.Scripted{})

	rec := do(t, s, "PUT", "/api/settings", `{"temperature":0.5,"max_tokens":512,"model":"mistral:7b"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body)
	}
	want := model.Settings{Temperature: 0.5, MaxTokens: 512, ModelID: "mistral:7b"}
	if s.sess.Settings() != want {
		t.Errorf("settings = %+v", s.sess.Settings())
	}

	tests := []struct {
		name, body string
	}{
		{"out of range", `{"temperature":1.5,"max_tokens":512,"model":"mistral:7b"}`},
		{"unknown model", `{"temperature":0.5,"max_tokens":512,"model":"gpt-4"}`},
		{"unknown field", `{"temperature":0.5,"max_tokens":512,"model":"mistral:7b","top_p":1}`},
		{"not json", `nope`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(t, s, "PUT", "/api/settings", tt.body); rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if s.sess.Settings() != want {
				t.Error("rejected settings were applied")
			}
		})
	}
}

func TestQuickAction(t *testing.T) {
	s := newTestServer(t, &backend.Scripted{})

	rec := do(t, s, "POST", "/api/quick/debug", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decode[SessionResponse](t, rec)
	if len(got.Messages) != 2 || got.Messages[1].Content != "Debug: " {
		t.Errorf("messages = %+v", got.Messages)
	}

	if rec := do(t, s, "POST", "/api/quick/create", ""); rec.Code != http.StatusConflict {
		t.Errorf("non-empty chat status = %d, want 409", rec.Code)
	}
	if rec := do(t, s, "POST", "/api/quick/dance", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown action status = %d, want 404", rec.Code)
	}
}

func TestResetsRejectedWhileBusy(t *testing.T) {
	s := newTestServer(t, &backend.Scripted{})
	s.busy.Store(true)

	for _, path := range []string{"/api/chat/new", "/api/chat/clear", "/api/programs/Math%20Solver/load", "/api/quick/analyze"} {
		if rec := do(t, s, "POST", path, ""); rec.Code != http.StatusConflict {
			t.Errorf("%s status = %d, want 409", path, rec.Code)
		}
	}
	if rec := do(t, s, "POST", "/api/chat", `{"content":"hi"}`); rec.Code != http.StatusConflict {
		t.Errorf("second chat status = %d, want 409", rec.Code)
	}
}

func TestResetExcludesChat(t *testing.T) {
	s := newTestServer(t, &backend.Scripted{Fragments: []string{"ok"}})
	entered := make(chan struct{})
	release := make(chan struct{})

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		rec := httptest.NewRecorder()
		s.whenIdle(rec, func() error {
			close(entered)
			<-release
			s.sess.ClearChat()
			return nil
		})
		done <- rec
	}()

	<-entered
	if rec := do(t, s, "POST", "/api/chat", `{"content":"hi"}`); rec.Code != http.StatusConflict {
		t.Errorf("chat during reset status = %d, want 409", rec.Code)
	}
	if rec := do(t, s, "POST", "/api/chat/new", ""); rec.Code != http.StatusConflict {
		t.Errorf("second reset status = %d, want 409", rec.Code)
	}

	close(release)
	rec := <-done
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d", rec.Code)
	}
	if got := decode[SessionResponse](t, rec); got.Busy || len(got.Messages) != 1 {
		t.Errorf("reset response = %+v", got)
	}
	if s.busy.Load() {
		t.Error("busy flag not released")
	}
	if rec := do(t, s, "POST", "/api/chat", `{"content":"hi"}`); rec.Code != http.StatusOK {
		t.Errorf("chat after reset status = %d", rec.Code)
	}
	if s.sess.Len() != 3 {
		t.Errorf("session len = %d, want 3", s.sess.Len())
	}
}

// =============================================================================
// CHAT STREAM
// =============================================================================

func TestChat_StreamsNDJSON(t *testing.T) {
	s := newTestServer(t, &backend.Scripted{Fragments: []string{"Hello", ", world"}})

	rec := do(t, s, "POST", "/api/chat", `{"content":"greet me"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != NDJSONContentType {
		t.Errorf("Content-Type = %q", ct)
	}

	lines := streamLines(t, rec.Body)
	if len(lines) != 3 {
		t.Fatalf("got %d lines: %+v", len(lines), lines)
	}
	if lines[0].Text != "Hello"+driver.CursorMarker || !lines[0].InProgress {
		t.Errorf("line 0 = %+v", lines[0])
	}
	last := lines[2]
	if !last.Done || last.Text != "Hello, world" || last.Error != "" {
		t.Errorf("final line = %+v", last)
	}

	msgs := s.sess.Messages()
	if len(msgs) != 3 || msgs[1].Content != "greet me" || msgs[2].Content != "Hello, world" {
		t.Errorf("session = %+v", msgs)
	}
	if s.busy.Load() {
		t.Error("busy flag not released")
	}
}

func TestChat_FailureLine(t *testing.T) {
	s := newTestServer(t, &backend.Scripted{SetupErr: errors.New("connection refused")})

	lines := streamLines(t, do(t, s, "POST", "/api/chat", `{"content":"hi"}`).Body)
	if len(lines) != 1 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !lines[0].Done || lines[0].Error == "" || !strings.HasPrefix(lines[0].Text, model.ErrorPrefix) {
		t.Errorf("failure line = %+v", lines[0])
	}
}

func TestChat_Validation(t *testing.T) {
	s := newTestServer(t, &backend.Scripted{})
	tests := []struct {
		name, body string
		want       int
	}{
		{"empty", `{"content":"   "}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
		{"too long", `{"content":"` + strings.Repeat("a", MaxPromptLength+1) + `"}`, http.StatusBadRequest},
		{"too large", `{"content":"` + strings.Repeat("a", MaxRequestBodySize) + `"}`, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(t, s, "POST", "/api/chat", tt.body); rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
	if s.sess.Len() != 1 {
		t.Error("rejected prompts must not reach the session")
	}
}

// gateBackend blocks inside Chat until released.
type gateBackend struct {
	entered chan struct{}
	release chan struct{}
}

func (g *gateBackend) Name() string { return "gate" }

func (g *gateBackend) Chat(ctx context.Context, req backend.Request) (backend.Stream, error) {
	close(g.entered)
	<-g.release
	return (&backend.Scripted{Fragments: []string{"late"}}).Chat(ctx, req)
}

func TestChat_SingleInFlight(t *testing.T) {
	gate := &gateBackend{entered: make(chan struct{}), release: make(chan struct{})}
	s := newTestServer(t, gate)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	done := make(chan []byte, 1)
	go func() {
		resp, err := http.Post(ts.URL+"/api/chat", "application/json", strings.NewReader(`{"content":"one"}`))
		if err != nil {
			done <- nil
			return
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		done <- body
	}()

	<-gate.entered
	resp, err := http.Post(ts.URL+"/api/chat", "application/json", strings.NewReader(`{"content":"two"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("concurrent chat status = %d, want 409", resp.StatusCode)
	}

	close(gate.release)
	lines := streamLines(t, bytes.NewReader(<-done))
	if len(lines) == 0 || lines[len(lines)-1].Text != "late" {
		t.Errorf("first exchange lines = %+v", lines)
	}
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

func TestRateLimit(t *testing.T) {
	sess := session.New()
	s := New(sess, driver.New(&backend.Scripted{}), Config{RateLimit: 0.001, Burst: 2})

	codes := make([]int, 0, 3)
	for range 3 {
		codes = append(codes, do(t, s, "GET", "/health", "").Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}
}

func TestRateLimiter_PerIP(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	if !rl.Allow("10.0.0.1") || rl.Allow("10.0.0.1") {
		t.Error("first request allowed, second denied")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("buckets are per IP")
	}
}

func TestRecovery(t *testing.T) {
	h := RecoveryMiddleware()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		remote, xff, want string
	}{
		{"192.0.2.7:5000", "", "192.0.2.7"},
		{"192.0.2.7:5000", "203.0.113.9", "192.0.2.7"},
		{"127.0.0.1:5000", "203.0.113.9, 10.0.0.1", "203.0.113.9"},
		{"127.0.0.1:5000", "garbage", "127.0.0.1"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = tt.remote
		if tt.xff != "" {
			r.Header.Set("X-Forwarded-For", tt.xff)
		}
		if got := GetClientIP(r); got != tt.want {
			t.Errorf("GetClientIP(%s, %q) = %q, want %q", tt.remote, tt.xff, got, tt.want)
		}
	}
}
