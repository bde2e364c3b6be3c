// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/neuralcode/internal/model"
)

// isolate points the config directory and .env lookup at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("NEURALCODE_HOME", dir)
	old := DotEnvFile
	DotEnvFile = filepath.Join(dir, ".env")
	t.Cleanup(func() { DotEnvFile = old })
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

// =============================================================================
// LOADING
// =============================================================================

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Settings() != model.DefaultSettings() {
		t.Errorf("Settings() = %+v, want defaults", cfg.Settings())
	}
	if cfg.Backend.Driver != "ollama" {
		t.Errorf("Backend.Driver = %q, want 'ollama'", cfg.Backend.Driver)
	}
	if want := filepath.Join(dir, "archive.db"); cfg.Archive.Path != want {
		t.Errorf("Archive.Path = %q, want %q", cfg.Archive.Path, want)
	}
}

func TestLoadFromPath_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "config.toml", `
[chat]
model = "mistral:7b"
temperature = 0.0
max_tokens = 512
`},
		{"yaml", "config.yaml", `
chat:
  model: mistral:7b
  temperature: 0
  max_tokens: 512
`},
		{"json", "config.json", `{"chat": {"model": "mistral:7b", "temperature": 0, "max_tokens": 512}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, tc.file)
			writeFile(t, path, tc.content)

			cfg, err := LoadFromPath(path)
			if err != nil {
				t.Fatalf("LoadFromPath() error = %v", err)
			}
			want := model.Settings{Temperature: 0, MaxTokens: 512, ModelID: "mistral:7b"}
			if cfg.Settings() != want {
				t.Errorf("Settings() = %+v, want %+v", cfg.Settings(), want)
			}
			if cfg.Server.Port != 8787 {
				t.Errorf("Server.Port = %d, want default 8787", cfg.Server.Port)
			}

			found, err := FindPath()
			if err != nil || found != path {
				t.Errorf("FindPath() = %q, %v; want %q", found, err, path)
			}
		})
	}
}

func TestLoadFromPath_Invalid(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, `
[chat]
temperature = 1.5

[server]
port = 70000
`)

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatal("LoadFromPath() error = nil, want validation error")
	}

	var verrs ValidateErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error %v is not ValidateErrors", err)
	}
	fields := make(map[string]bool)
	for _, v := range verrs {
		fields[v.Field] = true
	}
	for _, want := range []string{"chat.temperature", "server.port"} {
		if !fields[want] {
			t.Errorf("missing validation error for %s in %v", want, verrs)
		}
	}
}

func TestLoadFromPath_Malformed(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "[chat\nmodel=")

	if _, err := LoadFromPath(path); err == nil {
		t.Error("LoadFromPath() error = nil for malformed TOML")
	}
}

// =============================================================================
// ENVIRONMENT
// =============================================================================

func TestApplyEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("NEURALCODE_MODEL", "neural-chat:7b")
	t.Setenv("NEURALCODE_TEMPERATURE", "0.9")
	t.Setenv("NEURALCODE_MAX_TOKENS", "not-a-number")
	t.Setenv("NEURALCODE_BACKEND", "LangChain")
	t.Setenv("NEURALCODE_ARCHIVE", "true")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Chat.ModelID != "neural-chat:7b" {
		t.Errorf("Chat.ModelID = %q", cfg.Chat.ModelID)
	}
	if cfg.Chat.Temperature != 0.9 {
		t.Errorf("Chat.Temperature = %v, want 0.9", cfg.Chat.Temperature)
	}
	if cfg.Chat.MaxTokens != model.DefaultMaxTokens {
		t.Errorf("Chat.MaxTokens = %d, want unchanged default", cfg.Chat.MaxTokens)
	}
	if cfg.Backend.Driver != "langchain" {
		t.Errorf("Backend.Driver = %q, want 'langchain'", cfg.Backend.Driver)
	}
	if !cfg.Archive.Enabled {
		t.Error("Archive.Enabled = false, want true")
	}
}

func TestApplyEnvOverrides_DotEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), "NEURALCODE_PORT=9191\n")
	// godotenv sets the variable for the process; make sure it is removed afterwards.
	t.Setenv("NEURALCODE_PORT", "")
	os.Unsetenv("NEURALCODE_PORT")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Server.Port != 9191 {
		t.Errorf("Server.Port = %d, want 9191 from .env", cfg.Server.Port)
	}
}

// =============================================================================
// VALIDATION AND SAVE
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"defaults", func(*Config) {}, ""},
		{"driver", func(c *Config) { c.Backend.Driver = "openai" }, "backend.driver"},
		{"url scheme", func(c *Config) { c.Backend.URL = "ftp://host" }, "backend.url"},
		{"model", func(c *Config) { c.Chat.ModelID = "llama3" }, "chat.model"},
		{"tokens", func(c *Config) { c.Chat.MaxTokens = 100 }, "chat.max_tokens"},
		{"theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"burst", func(c *Config) { c.Server.Burst = 0 }, "server.burst"},
		{"archive", func(c *Config) { c.Archive.Enabled = true; c.Archive.Path = "" }, "archive.path"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()

			if tc.field == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.field) {
				t.Errorf("Validate() = %v, want error for %s", err, tc.field)
			}
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "config.toml")

	cfg := Default()
	cfg.Chat = model.Settings{Temperature: 0.5, MaxTokens: 1536, ModelID: "mistral:7b"}
	cfg.UI.ShowTimestamps = true
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want 600", perm)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if loaded.Chat != cfg.Chat || !loaded.UI.ShowTimestamps {
		t.Errorf("round trip = %+v, want %+v", loaded.Chat, cfg.Chat)
	}
}

// =============================================================================
// LIVE RELOAD
// =============================================================================

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	if err := Save(Default(), path); err != nil {
		t.Fatal(err)
	}

	changes := make(chan *Config, 4)
	w, err := Watch(path, func(cfg *Config, err error) {
		if err == nil {
			changes <- cfg
		}
	})
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()

	next := Default()
	next.Chat.ModelID = "neural-chat:7b"
	if err := Save(next, path); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-changes:
		if cfg.Chat.ModelID != "neural-chat:7b" {
			t.Errorf("reloaded model = %q, want neural-chat:7b", cfg.Chat.ModelID)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no reload within 3s")
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
