// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for messages, programs and settings.
package model

// DefaultModelID is the model selected at startup.
const DefaultModelID = "qwen2.5-coder:3b"

// =============================================================================
// MODEL INFO TYPE
// =============================================================================

// ModelInfo describes one of the selectable local models.
type ModelInfo struct {
	// ID is the model identifier used in API calls
	ID string `json:"id"`

	// Name is the human-readable display name
	Name string `json:"name"`

	// Description is a brief explanation of the model's strengths
	Description string `json:"description"`
}

// supportedModels is the fixed selector list, in display order.
var supportedModels = []ModelInfo{
	{
		ID:          "qwen2.5-coder:3b",
		Name:        "Qwen 2.5 Coder 3B",
		Description: "Small code-tuned model, fastest responses",
	},
	{
		ID:          "mistral:7b",
		Name:        "Mistral 7B",
		Description: "General purpose model with solid reasoning",
	},
	{
		ID:          "neural-chat:7b",
		Name:        "Neural Chat 7B",
		Description: "Conversational fine-tune of Mistral",
	},
}

// Models returns the supported models in selector order.
func Models() []ModelInfo {
	out := make([]ModelInfo, len(supportedModels))
	copy(out, supportedModels)
	return out
}

// ModelIDs returns just the identifiers of the supported models.
func ModelIDs() []string {
	ids := make([]string, len(supportedModels))
	for i, m := range supportedModels {
		ids[i] = m.ID
	}
	return ids
}

// IsSupportedModel reports whether id is one of the selectable models.
func IsSupportedModel(id string) bool {
	_, ok := GetModelInfo(id)
	return ok
}

// GetModelInfo looks up a supported model by ID.
func GetModelInfo(id string) (ModelInfo, bool) {
	for _, m := range supportedModels {
		if m.ID == id {
			return m, true
		}
	}
	return ModelInfo{}, false
}
