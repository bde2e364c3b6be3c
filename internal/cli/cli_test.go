// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/neuralcode/internal/archive"
	"github.com/jeranaias/neuralcode/internal/backend"
	"github.com/jeranaias/neuralcode/internal/driver"
	"github.com/jeranaias/neuralcode/internal/model"
	"github.com/jeranaias/neuralcode/internal/ollama"
	"github.com/jeranaias/neuralcode/internal/session"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// isolate points the config directory at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("NEURALCODE_HOME", dir)
	return dir
}

// useBackend makes newRuntime build b regardless of config.
func useBackend(t *testing.T, b backend.Backend) {
	t.Helper()
	orig := newBackend
	newBackend = func(string, string) (backend.Backend, error) { return b, nil }
	t.Cleanup(func() { newBackend = orig })
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// =============================================================================
// COMMAND TREE
// =============================================================================

func TestVersionCmd(t *testing.T) {
	out, err := runCmd(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "neuralcode "+Version) {
		t.Errorf("version output = %q", out)
	}
}

func TestConfigCmds(t *testing.T) {
	dir := isolate(t)
	want := filepath.Join(dir, "config.toml")

	out, err := runCmd(t, "config", "path")
	if err != nil || !strings.Contains(out, "not created") {
		t.Errorf("config path before init = %q, %v", out, err)
	}

	if _, err := runCmd(t, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if _, err := runCmd(t, "config", "init"); err == nil {
		t.Error("second init without --force should fail")
	}
	if _, err := runCmd(t, "config", "init", "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}

	out, _ = runCmd(t, "config", "path")
	if strings.TrimSpace(out) != want {
		t.Errorf("config path = %q, want %q", out, want)
	}

	out, err = runCmd(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, s := range []string{`driver = "ollama"`, `model = "qwen2.5-coder:3b"`, "max_tokens = 1024"} {
		if !strings.Contains(out, s) {
			t.Errorf("config show missing %q:\n%s", s, out)
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, err := runCmd(t, "frobnicate"); err == nil {
		t.Error("unknown command should fail")
	}
}

// =============================================================================
// ASK
// =============================================================================

func TestRunAsk(t *testing.T) {
	isolate(t)
	script := &backend.Scripted{Fragments: []string{"Goroutines are ", "cheap."}}
	useBackend(t, script)

	var out bytes.Buffer
	opts := &askOptions{model: "mistral:7b", program: "Math Solver"}
	if err := runAsk(context.Background(), &globalFlags{}, opts, &out, "  What is a goroutine?  ", false); err != nil {
		t.Fatalf("runAsk: %v", err)
	}
	if strings.TrimSpace(out.String()) != "Goroutines are cheap." {
		t.Errorf("output = %q", out.String())
	}

	reqs := script.Requests()
	if len(reqs) != 1 || reqs[0].Model != "mistral:7b" {
		t.Fatalf("requests = %+v", reqs)
	}
	last := reqs[0].Messages[len(reqs[0].Messages)-1]
	if last.Content != "What is a goroutine?" {
		t.Errorf("prompt sent = %q", last.Content)
	}
}

func TestRunAsk_Errors(t *testing.T) {
	isolate(t)
	useBackend(t, &backend.Scripted{SetupErr: errors.New("connection refused")})
	ctx := context.Background()

	tests := []struct {
		name   string
		opts   askOptions
		prompt string
	}{
		{"empty prompt", askOptions{}, "   "},
		{"unknown model", askOptions{model: "gpt-4"}, "hi"},
		{"unknown program", askOptions{program: "Nope"}, "hi"},
		{"backend failure", askOptions{}, "hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runAsk(ctx, &globalFlags{}, &tt.opts, io.Discard, tt.prompt, false); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

// =============================================================================
// REPL
// =============================================================================

func newTestREPL(t *testing.T, b backend.Backend) (*repl, *bytes.Buffer) {
	t.Helper()
	sess := session.New(session.WithClock(func() time.Time { return testNow }))
	var out bytes.Buffer
	return newREPL(sess, driver.New(b), &out), &out
}

func TestREPL_PickerListsVisiblePrograms(t *testing.T) {
	programs := model.DefaultPrograms(testNow)
	for i := range 4 {
		programs = append(programs, model.Program{
			Name:       fmt.Sprintf("Extra %d", i),
			LastUsedAt: testNow.Add(-time.Duration(i+1) * time.Second),
		})
	}
	sess := session.New(
		session.WithClock(func() time.Time { return testNow }),
		session.WithPrograms(programs),
	)
	var out bytes.Buffer
	r := newREPL(sess, driver.New(&backend.Scripted{}), &out)

	var offered []string
	r.pick = func(programs []model.Program) (string, error) {
		for _, p := range programs {
			offered = append(offered, p.Name)
		}
		return "Extra 0", nil
	}
	r.handle(context.Background(), "/load")

	want := []string{"Extra 0", "Extra 1", "Extra 2", "Extra 3"}
	if len(offered) != model.MaxVisiblePrograms {
		t.Fatalf("picker got %d programs, want %d: %v", len(offered), model.MaxVisiblePrograms, offered)
	}
	for i, name := range want {
		if offered[i] != name {
			t.Errorf("offered[%d] = %q, want %q (most recent first)", i, offered[i], name)
		}
	}
	if r.sess.CurrentProgram() != "Extra 0" {
		t.Errorf("picked program not loaded: %q", r.sess.CurrentProgram())
	}
}

func TestREPL_SendStreamsReply(t *testing.T) {
	r, out := newTestREPL(t, &backend.Scripted{Fragments: []string{"Hello", ", ", "world"}})

	if quit := r.handle(context.Background(), "  greet me  "); quit {
		t.Fatal("sending must not quit")
	}
	if got := out.String(); got != "Hello, world\n" {
		t.Errorf("output = %q", got)
	}
	msgs := r.sess.Messages()
	if len(msgs) != 3 || msgs[1].Content != "greet me" || msgs[2].Content != "Hello, world" {
		t.Errorf("session = %+v", msgs)
	}
}

func TestREPL_SendFailure(t *testing.T) {
	r, out := newTestREPL(t, &backend.Scripted{Fragments: []string{"par", "tial"}, FailAfter: 1, StreamErr: errors.New("reset")})

	r.handle(context.Background(), "hi")
	if !strings.Contains(out.String(), model.ErrorPrefix) {
		t.Errorf("output = %q, want an error line", out.String())
	}
	last := r.sess.Messages()[r.sess.Len()-1]
	if !last.IsError() {
		t.Errorf("last message = %+v, want the error reply", last)
	}
}

func TestREPL_Highlight(t *testing.T) {
	r, out := newTestREPL(t, &backend.Scripted{Fragments: []string{"Try:\n```go\nfmt.Println(1)\n```\n"}})
	r.highlight = true

	r.handle(context.Background(), "example")
	if !strings.Contains(out.String(), "── go ──") {
		t.Errorf("highlighted block missing:\n%s", out.String())
	}
}

func TestREPL_Quit(t *testing.T) {
	r, _ := newTestREPL(t, &backend.Scripted{})
	for _, in := range []string{"/quit", "/q", "exit", "QUIT"} {
		if !r.handle(context.Background(), in) {
			t.Errorf("handle(%q) did not quit", in)
		}
	}
	if r.handle(context.Background(), "   ") {
		t.Error("blank line quit")
	}
}

func TestREPL_Settings(t *testing.T) {
	r, out := newTestREPL(t, &backend.Scripted{})
	ctx := context.Background()

	r.handle(ctx, "/temp 0.5")
	r.handle(ctx, "/tokens 512")
	r.handle(ctx, "/model mistral:7b")
	want := model.Settings{Temperature: 0.5, MaxTokens: 512, ModelID: "mistral:7b"}
	if r.sess.Settings() != want {
		t.Errorf("settings = %+v, want %+v", r.sess.Settings(), want)
	}

	out.Reset()
	for _, bad := range []string{"/temp 1.5", "/temp hot", "/tokens 4096", "/model gpt-4"} {
		r.handle(ctx, bad)
	}
	if r.sess.Settings() != want {
		t.Errorf("invalid input changed settings: %+v", r.sess.Settings())
	}
	if n := strings.Count(out.String(), "Error:"); n != 4 {
		t.Errorf("got %d error lines, want 4:\n%s", n, out.String())
	}

	out.Reset()
	r.handle(ctx, "/model")
	if !strings.Contains(out.String(), "> mistral:7b") {
		t.Errorf("model list does not mark the current model:\n%s", out.String())
	}
}

func TestREPL_Programs(t *testing.T) {
	r, out := newTestREPL(t, &backend.Scripted{})
	ctx := context.Background()
	_ = r.sess.AppendMessage(model.NewUserMessage("x"))

	r.handle(ctx, "/load math solver")
	if r.sess.CurrentProgram() != "Math Solver" || r.sess.Len() != 1 {
		t.Errorf("after /load: program=%q len=%d", r.sess.CurrentProgram(), r.sess.Len())
	}

	out.Reset()
	r.handle(ctx, "/load Nope")
	if !strings.Contains(out.String(), "unknown program") {
		t.Errorf("output = %q", out.String())
	}

	r.pick = func(programs []model.Program) (string, error) {
		if len(programs) != model.MaxVisiblePrograms {
			t.Errorf("picker got %d programs", len(programs))
		}
		return "Creative Writer", nil
	}
	r.handle(ctx, "/load")
	if r.sess.CurrentProgram() != "Creative Writer" {
		t.Errorf("picker choice not loaded: %q", r.sess.CurrentProgram())
	}

	r.pick = func([]model.Program) (string, error) { return "", nil }
	r.handle(ctx, "/load")
	if r.sess.CurrentProgram() != "Creative Writer" {
		t.Error("cancelled picker changed the program")
	}

	out.Reset()
	r.handle(ctx, "/programs data")
	if !strings.Contains(out.String(), "Data Scientist") || strings.Contains(out.String(), "Math Solver") {
		t.Errorf("filtered list:\n%s", out.String())
	}
}

func TestREPL_NewAndClear(t *testing.T) {
	r, _ := newTestREPL(t, &backend.Scripted{})
	ctx := context.Background()

	r.handle(ctx, "/load Language Tutor")
	_ = r.sess.AppendMessage(model.NewUserMessage("x"))
	r.handle(ctx, "/clear")
	if r.sess.Len() != 1 || r.sess.CurrentProgram() != "Language Tutor" {
		t.Errorf("after /clear: len=%d program=%q", r.sess.Len(), r.sess.CurrentProgram())
	}

	r.handle(ctx, "/new")
	if r.sess.CurrentProgram() != model.DefaultProgramName {
		t.Errorf("after /new: program=%q", r.sess.CurrentProgram())
	}
}

func TestREPL_Quick(t *testing.T) {
	r, out := newTestREPL(t, &backend.Scripted{})
	ctx := context.Background()

	r.handle(ctx, "/quick optimize")
	msgs := r.sess.Messages()
	if len(msgs) != 2 || msgs[1].Content != "Optimize: " {
		t.Fatalf("messages = %+v", msgs)
	}

	out.Reset()
	r.handle(ctx, "/quick debug")
	if r.sess.Len() != 2 || !strings.Contains(out.String(), "empty chat") {
		t.Errorf("quick action on a non-empty chat: len=%d out=%q", r.sess.Len(), out.String())
	}

	out.Reset()
	r.handle(ctx, "/quick dance")
	if !strings.Contains(out.String(), "analyze|create|debug|optimize") {
		t.Errorf("usage = %q", out.String())
	}
}

func TestREPL_Export(t *testing.T) {
	r, _ := newTestREPL(t, &backend.Scripted{Fragments: []string{"pong"}})
	ctx := context.Background()
	r.handle(ctx, "ping")
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "chat.json")
	r.handle(ctx, "/export "+jsonPath)
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("json export: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}

	r.handle(ctx, "/export "+dir)
	matches, _ := filepath.Glob(filepath.Join(dir, "neuralcode-*.md"))
	if len(matches) != 1 {
		t.Fatalf("markdown exports = %v", matches)
	}
	md, _ := os.ReadFile(matches[0])
	if !strings.Contains(string(md), "pong") {
		t.Errorf("markdown export missing reply:\n%s", md)
	}
}

func TestREPL_UnknownCommand(t *testing.T) {
	r, out := newTestREPL(t, &backend.Scripted{})
	r.handle(context.Background(), "/frob")
	if !strings.Contains(out.String(), "unknown command /frob") {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	r.handle(context.Background(), "/help")
	for _, c := range r.commands.All() {
		if !strings.Contains(out.String(), c.Description) {
			t.Errorf("help missing %s", c.Name)
		}
	}
}

// =============================================================================
// MODELS AND HISTORY
// =============================================================================

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"models":[{"name":"qwen2.5-coder:3b","size":1929912432},{"name":"llama3:8b","size":4661224676}]}`)
	}))
	defer srv.Close()

	var out bytes.Buffer
	client := ollama.NewClientWithConfig(&ollama.ClientConfig{BaseURL: srv.URL})
	if err := listModels(context.Background(), client, &out); err != nil {
		t.Fatalf("listModels: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "* qwen2.5-coder:3b") {
		t.Errorf("supported model not marked:\n%s", got)
	}
	if strings.Contains(got, "* llama3:8b") {
		t.Errorf("unsupported model marked:\n%s", got)
	}
	for _, id := range []string{"mistral:7b", "neural-chat:7b"} {
		if !strings.Contains(got, "ollama pull "+id) {
			t.Errorf("missing install hint for %s:\n%s", id, got)
		}
	}
}

func TestPrintHistory(t *testing.T) {
	store, err := archive.Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	var out bytes.Buffer
	if err := printHistory(ctx, store, &out, 10, testNow); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "empty") {
		t.Errorf("empty archive output = %q", out.String())
	}

	exchanges := []model.Exchange{
		{SessionID: "s1", Program: "Code Assistant", Model: "qwen2.5-coder:3b", Prompt: "first\nsecond line", Reply: "answer", At: testNow.Add(-2 * time.Hour)},
		{SessionID: "s1", Program: "Math Solver", Model: "mistral:7b", Prompt: "2+2", Reply: "Error: connection refused", Failed: true, At: testNow.Add(-time.Minute)},
	}
	for _, ex := range exchanges {
		if err := store.Record(ctx, ex); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	out.Reset()
	if err := printHistory(ctx, store, &out, 1, testNow); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "Math Solver") || strings.Contains(got, "Code Assistant") {
		t.Errorf("limit 1 should show only the newest exchange:\n%s", got)
	}
	if !strings.Contains(got, "failed") || !strings.Contains(got, "Showing 1 of 2") {
		t.Errorf("history output:\n%s", got)
	}
}
