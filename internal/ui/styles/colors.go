// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// ACCENTS
// =============================================================================

// Indigo is the brand accent: header, focused borders, selected program.
var Indigo = lipgloss.AdaptiveColor{Light: "#4F46E5", Dark: "#818CF8"}

// Teal marks user content and the input prompt.
var Teal = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#2DD4BF"}

// Green marks success and the active slider fill.
var Green = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}

// Amber marks warnings and the busy indicator.
var Amber = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}

// Red marks error replies.
var Red = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}

// =============================================================================
// SURFACES AND TEXT
// =============================================================================

var (
	Surface       = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#0F1115"}
	SurfaceRaised = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#161A22"}
	Border        = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#2A2F3A"}

	TextPrimary   = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#E6E6E6"}
	TextSecondary = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#AAB3C5"}
	TextMuted     = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7A96"}
	TextInverse   = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#0F1115"}
)

// =============================================================================
// MESSAGE BUBBLES
// =============================================================================

var (
	UserBubbleBg      = lipgloss.AdaptiveColor{Light: "#E0F2F1", Dark: "#1C2333"}
	UserBubbleBorder  = Teal
	AssistantBubbleBg = lipgloss.AdaptiveColor{Light: "#F5F5FF", Dark: "#151922"}
	AssistantBorder   = Indigo
	ErrorBubbleBg     = lipgloss.AdaptiveColor{Light: "#FEF2F2", Dark: "#2A1215"}
)

// Indicators pair a symbol with each status so state never relies on color.
var Indicators = struct {
	Success, Error, Busy, Idle string
}{
	Success: "[OK]",
	Error:   "❌",
	Busy:    "[~]",
	Idle:    "[ ]",
}

// RenderError renders msg in bold red behind the error indicator.
func RenderError(msg string) string {
	return lipgloss.NewStyle().Foreground(Red).Bold(true).Render(Indicators.Error + " " + msg)
}

// RenderSuccess renders msg in bold green behind the success indicator.
func RenderSuccess(msg string) string {
	return lipgloss.NewStyle().Foreground(Green).Bold(true).Render(Indicators.Success + " " + msg)
}
