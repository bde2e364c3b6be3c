// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for messages, programs and settings.
package model

import "strings"

// QuickAction is a prefill shortcut offered while the conversation is empty.
type QuickAction struct {
	Label   string
	Icon    string
	Prefill string
}

var quickActions = []QuickAction{
	{Label: "Analyze", Icon: "🔍", Prefill: "Analyze: "},
	{Label: "Create", Icon: "✨", Prefill: "Create: "},
	{Label: "Debug", Icon: "🐛", Prefill: "Debug: "},
	{Label: "Optimize", Icon: "🚀", Prefill: "Optimize: "},
}

// QuickActions returns the four fixed shortcuts in display order.
func QuickActions() []QuickAction {
	out := make([]QuickAction, len(quickActions))
	copy(out, quickActions)
	return out
}

// LookupQuickAction finds a shortcut by label, ignoring case.
func LookupQuickAction(label string) (QuickAction, bool) {
	for _, qa := range quickActions {
		if strings.EqualFold(qa.Label, label) {
			return qa, true
		}
	}
	return QuickAction{}, false
}
