// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"log"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders assistant replies with glamour. The underlying renderer
// is rebuilt only when the wrap width changes.
type Markdown struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

// NewMarkdown creates a renderer for a glamour standard style ("dark",
// "light", "notty"...) wrapping at width.
func NewMarkdown(style string, width int) *Markdown {
	m := &Markdown{style: style}
	m.SetWidth(width)
	return m
}

// SetWidth changes the wrap width.
func (m *Markdown) SetWidth(width int) {
	width = max(width, 20)
	if m.renderer != nil && width == m.width {
		return
	}
	m.width = width
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		log.Printf("MARKDOWN_INIT_FAIL | style=%s err=%v", m.style, err)
		m.renderer = nil
		return
	}
	m.renderer = r
}

// Width returns the current wrap width.
func (m *Markdown) Width() int {
	return m.width
}

// Render converts markdown to styled terminal text. If glamour is not
// available or fails, the source is returned unchanged.
func (m *Markdown) Render(src string) string {
	if m == nil || m.renderer == nil {
		return src
	}
	out, err := m.renderer.Render(src)
	if err != nil {
		return src
	}
	return strings.Trim(out, "\n")
}
