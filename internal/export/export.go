// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jeranaias/neuralcode/internal/model"
	"github.com/jeranaias/neuralcode/internal/session"
	"github.com/jeranaias/neuralcode/internal/util"
)

// FilePrefix starts every exported filename.
const FilePrefix = "neuralcode"

// Exporter renders a transcript in one format.
type Exporter interface {
	Export(t *Transcript) ([]byte, error)
	FileExtension() string
	MimeType() string
}

// Transcript is an immutable snapshot of a session taken at export time.
type Transcript struct {
	SessionID  string          `json:"session_id"`
	Program    string          `json:"program"`
	Settings   model.Settings  `json:"settings"`
	Messages   []model.Message `json:"messages"`
	ExportedAt time.Time       `json:"exported_at"`
}

// FromSession snapshots the session's current conversation.
func FromSession(s *session.Session) *Transcript {
	return &Transcript{
		SessionID:  s.ID(),
		Program:    s.CurrentProgram(),
		Settings:   s.Settings(),
		Messages:   s.Messages(),
		ExportedAt: s.Now(),
	}
}

// SystemPrompt returns the leading system message content, if any.
func (t *Transcript) SystemPrompt() string {
	if len(t.Messages) > 0 && t.Messages[0].IsSystem() {
		return t.Messages[0].Content
	}
	return ""
}

// Conversation returns the messages after the system prompt.
func (t *Transcript) Conversation() []model.Message {
	if len(t.Messages) > 0 && t.Messages[0].IsSystem() {
		return t.Messages[1:]
	}
	return t.Messages
}

// Filename builds neuralcode-<program>-<timestamp>.<ext>.
func Filename(t *Transcript, ext string) string {
	name := sanitizeFilename(t.Program)
	if name == "" {
		name = "chat"
	}
	return fmt.Sprintf("%s-%s-%s%s", FilePrefix, name, t.ExportedAt.Format("20060102-150405"), ext)
}

// ExportToFile renders t with exporter and writes it atomically into dir.
// Returns the written path.
func ExportToFile(t *Transcript, exporter Exporter, dir string) (string, error) {
	if t == nil {
		return "", fmt.Errorf("export: nil transcript")
	}
	data, err := exporter.Export(t)
	if err != nil {
		return "", fmt.Errorf("export: render %s: %w", exporter.MimeType(), err)
	}
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, Filename(t, exporter.FileExtension()))
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("export: write %s: %w", path, err)
	}
	return path, nil
}

// ForFormat returns the exporter for "md", "markdown", "json" or "html".
func ForFormat(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "md", "markdown":
		return NewMarkdownExporter(), nil
	case "json":
		return NewJSONExporter(), nil
	case "html", "htm":
		return NewHTMLExporter(), nil
	default:
		return nil, fmt.Errorf("export: unsupported format %q", format)
	}
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9]+`)

// sanitizeFilename lowercases and collapses anything outside [a-z0-9] to "-".
func sanitizeFilename(name string) string {
	s := unsafeFilenameChars.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if len(s) > 50 {
		s = strings.TrimRight(s[:50], "-")
	}
	return s
}

func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
