// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// HTMLExporter renders a standalone page. Message bodies go through goldmark
// with raw HTML disabled, so model output cannot inject markup.
type HTMLExporter struct {
	md goldmark.Markdown
}

// NewHTMLExporter creates an HTML exporter with GFM tables and fenced code.
func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
	}
}

type htmlMessage struct {
	Role    string
	Class   string
	Time    string
	Body    template.HTML
	IsError bool
}

type htmlPage struct {
	Title        string
	Model        string
	Temperature  float64
	MaxTokens    int
	Exported     string
	SystemPrompt string
	Messages     []htmlMessage
}

// Export renders the transcript as HTML.
func (e *HTMLExporter) Export(t *Transcript) ([]byte, error) {
	page := htmlPage{
		Title:        t.Program,
		Model:        t.Settings.ModelID,
		Temperature:  t.Settings.Temperature,
		MaxTokens:    t.Settings.MaxTokens,
		Exported:     formatTimestamp(t.ExportedAt),
		SystemPrompt: t.SystemPrompt(),
	}
	for _, m := range t.Conversation() {
		var body bytes.Buffer
		if err := e.md.Convert([]byte(m.Content), &body); err != nil {
			return nil, err
		}
		hm := htmlMessage{
			Role:    m.Role.DisplayName(),
			Class:   string(m.Role),
			Body:    template.HTML(body.String()),
			IsError: m.IsError(),
		}
		if !m.CreatedAt.IsZero() {
			hm.Time = formatTimestamp(m.CreatedAt)
		}
		page.Messages = append(page.Messages, hm)
	}

	var out bytes.Buffer
	if err := pageTemplate.Execute(&out, page); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// FileExtension returns ".html".
func (e *HTMLExporter) FileExtension() string { return ".html" }

// MimeType returns "text/html".
func (e *HTMLExporter) MimeType() string { return "text/html" }

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} - NeuralCode</title>
<style>
body{margin:0;background:#0f1115;color:#e6e6e6;font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,sans-serif;line-height:1.55}
main{max-width:860px;margin:0 auto;padding:32px 20px}
header{border-bottom:1px solid #2a2f3a;margin-bottom:24px;padding-bottom:12px}
header h1{margin:0 0 6px;font-size:1.6em}
.meta{color:#8b93a7;font-size:.85em}
.system{background:#161a22;border-left:3px solid #6c7a96;padding:10px 14px;color:#aab3c5;font-size:.9em;margin-bottom:24px}
.msg{border-radius:8px;padding:12px 16px;margin:14px 0}
.msg .who{font-weight:600;font-size:.85em;margin-bottom:6px}
.msg .when{color:#8b93a7;font-weight:400;margin-left:8px}
.user{background:#1c2333}
.user .who{color:#7aa2f7}
.assistant{background:#151922}
.assistant .who{color:#9ece6a}
.error{border:1px solid #f7768e}
.error .who{color:#f7768e}
pre{background:#0b0d11;padding:12px;border-radius:6px;overflow-x:auto}
code{font-family:"JetBrains Mono",Menlo,Consolas,monospace;font-size:.9em}
table{border-collapse:collapse}
td,th{border:1px solid #2a2f3a;padding:4px 8px}
</style>
</head>
<body>
<main>
<header>
<h1>{{.Title}}</h1>
<div class="meta">Model {{.Model}} &middot; temperature {{printf "%.1f" .Temperature}} &middot; max tokens {{.MaxTokens}} &middot; exported {{.Exported}}</div>
</header>
{{if .SystemPrompt}}<div class="system"><strong>System prompt:</strong> {{.SystemPrompt}}</div>
{{end}}{{range .Messages}}<section class="msg {{.Class}}{{if .IsError}} error{{end}}">
<div class="who">{{.Role}}{{if .Time}}<span class="when">{{.Time}}</span>{{end}}</div>
{{.Body}}</section>
{{end}}</main>
</body>
</html>
`))
