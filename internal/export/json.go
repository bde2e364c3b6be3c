// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import "encoding/json"

// JSONExporter writes the full transcript as indented JSON.
type JSONExporter struct {
	Indent string
}

// NewJSONExporter creates a JSON exporter with two-space indent.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{Indent: "  "}
}

type jsonTranscript struct {
	Version string `json:"version"`
	*Transcript
	SystemPrompt string `json:"system_prompt"`
}

// Export renders the transcript as JSON.
func (e *JSONExporter) Export(t *Transcript) ([]byte, error) {
	doc := jsonTranscript{Version: "1", Transcript: t, SystemPrompt: t.SystemPrompt()}
	if e.Indent == "" {
		return json.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", e.Indent)
}

// FileExtension returns ".json".
func (e *JSONExporter) FileExtension() string { return ".json" }

// MimeType returns "application/json".
func (e *JSONExporter) MimeType() string { return "application/json" }
