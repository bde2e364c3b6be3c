// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// MarkdownExporter writes YAML frontmatter and one section per message.
type MarkdownExporter struct {
	// IncludeTimestamps adds the message time under each heading.
	IncludeTimestamps bool
}

// NewMarkdownExporter creates a markdown exporter with timestamps on.
func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{IncludeTimestamps: true}
}

type frontmatter struct {
	Session     string  `yaml:"session"`
	Program     string  `yaml:"program"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	Messages    int     `yaml:"messages"`
	Exported    string  `yaml:"exported"`
}

// Export renders the transcript as markdown.
func (e *MarkdownExporter) Export(t *Transcript) ([]byte, error) {
	conv := t.Conversation()
	fm, err := yaml.Marshal(frontmatter{
		Session:     t.SessionID,
		Program:     t.Program,
		Model:       t.Settings.ModelID,
		Temperature: t.Settings.Temperature,
		MaxTokens:   t.Settings.MaxTokens,
		Messages:    len(conv),
		Exported:    formatTimestamp(t.ExportedAt),
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n\n")
	fmt.Fprintf(&buf, "# %s\n\n", escapeMarkdown(t.Program))

	if sp := t.SystemPrompt(); sp != "" {
		buf.WriteString("> **System prompt:** ")
		buf.WriteString(strings.ReplaceAll(sp, "\n", "\n> "))
		buf.WriteString("\n\n")
	}

	for _, m := range conv {
		buf.WriteString("---\n\n")
		fmt.Fprintf(&buf, "### %s\n", m.Role.DisplayName())
		if e.IncludeTimestamps && !m.CreatedAt.IsZero() {
			fmt.Fprintf(&buf, "*%s*\n", formatTimestamp(m.CreatedAt))
		}
		buf.WriteString("\n")
		// Content is already markdown from the model; keep it verbatim.
		buf.WriteString(strings.TrimRight(m.Content, "\n"))
		buf.WriteString("\n\n")
	}
	return buf.Bytes(), nil
}

// FileExtension returns ".md".
func (e *MarkdownExporter) FileExtension() string { return ".md" }

// MimeType returns "text/markdown".
func (e *MarkdownExporter) MimeType() string { return "text/markdown" }

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"#", `\#`,
	"[", `\[`,
	"]", `\]`,
)

// escapeMarkdown escapes characters that would change heading rendering.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
