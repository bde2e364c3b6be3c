// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/neuralcode/internal/ui/styles"
)

// Segment is one run of a markdown reply: either prose or a fenced code block.
type Segment struct {
	Text     string
	Code     bool
	Language string
}

// SplitCodeBlocks splits markdown into prose and fenced code segments.
// An unclosed fence runs to the end of the text, which is what a reply
// looks like while it is still streaming.
func SplitCodeBlocks(text string) []Segment {
	var (
		segments []Segment
		buf      []string
		inCode   bool
		lang     string
	)
	flush := func() {
		if len(buf) == 0 && !inCode {
			return
		}
		segments = append(segments, Segment{Text: strings.Join(buf, "\n"), Code: inCode, Language: lang})
		buf = nil
	}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			flush()
			if inCode {
				inCode, lang = false, ""
			} else {
				inCode, lang = true, strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			}
			continue
		}
		buf = append(buf, line)
	}
	flush()
	return segments
}

// Highlight returns code colored for a 256-color terminal with the named
// chroma style. Unknown languages are guessed from the content; any failure
// returns the code unchanged.
func Highlight(code, language, style string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	s := chromaStyles.Get(style)
	if s == nil {
		s = chromaStyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, s, iterator); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}

// RenderCodeBlock renders one highlighted block with a language badge.
func RenderCodeBlock(theme *styles.Theme, code, language string, width int) string {
	body := Highlight(code, language, theme.ChromaStyle())
	if language != "" {
		body = theme.CodeLangBadge.Render(language) + "\n" + body
	}
	return theme.CodeBlock.MaxWidth(max(width, 20)).Render(body)
}

// RenderCodeBlocks keeps prose as-is and highlights every fenced block.
func RenderCodeBlocks(theme *styles.Theme, text string, width int) string {
	segs := SplitCodeBlocks(text)
	parts := make([]string, 0, len(segs))
	for _, seg := range segs {
		if seg.Code {
			parts = append(parts, RenderCodeBlock(theme, seg.Text, seg.Language, width))
			continue
		}
		parts = append(parts, lipgloss.NewStyle().Width(max(width, 20)).Render(seg.Text))
	}
	return strings.Join(parts, "\n")
}
