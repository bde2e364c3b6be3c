// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const (
	// SidebarWidth is the fixed sidebar column count, borders included.
	SidebarWidth = 32
	// SidebarMinWidth is the terminal width below which the sidebar hides.
	SidebarMinWidth = 90
)

// Theme holds every style the chat screen renders with.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	// Header
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderMeta  lipgloss.Style

	// Sidebar
	Sidebar             lipgloss.Style
	SidebarFocused      lipgloss.Style
	SectionTitle        lipgloss.Style
	NewChatButton       lipgloss.Style
	SearchBox           lipgloss.Style
	ProgramItem         lipgloss.Style
	ProgramItemSelected lipgloss.Style
	ProgramTime         lipgloss.Style
	SettingLabel        lipgloss.Style
	SettingValue        lipgloss.Style
	SliderFill          lipgloss.Style
	SliderEmpty         lipgloss.Style

	// Messages
	RoleUser        lipgloss.Style
	RoleAssistant   lipgloss.Style
	RoleError       lipgloss.Style
	Timestamp       lipgloss.Style
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	ErrorBubble     lipgloss.Style

	// Welcome and quick actions
	Welcome         lipgloss.Style
	QuickAction     lipgloss.Style
	QuickActionKey  lipgloss.Style
	QuickActionHint lipgloss.Style

	// Input and status
	Input        lipgloss.Style
	InputFocused lipgloss.Style
	InputPrompt  lipgloss.Style
	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Spinner      lipgloss.Style
	Busy         lipgloss.Style
	Muted        lipgloss.Style

	// Code
	CodeBlock     lipgloss.Style
	CodeLangBadge lipgloss.Style
}

// NewTheme builds a theme for mode "dark", "light" or "auto".
// Auto asks the terminal for its background.
func NewTheme(mode string) *Theme {
	t := &Theme{ColorProfile: termenv.ColorProfile()}
	switch strings.ToLower(mode) {
	case "dark":
		t.IsDark = true
		lipgloss.SetHasDarkBackground(true)
	case "light":
		t.IsDark = false
		lipgloss.SetHasDarkBackground(false)
	default:
		t.IsDark = termenv.HasDarkBackground()
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Border).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().Bold(true).Foreground(Indigo)
	t.HeaderMeta = lipgloss.NewStyle().Foreground(TextSecondary)

	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
	t.SidebarFocused = t.Sidebar.BorderForeground(Indigo)
	t.SectionTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary).
		MarginTop(1)
	t.NewChatButton = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Indigo).
		Padding(0, 1)
	t.SearchBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Border).
		Padding(0, 1)
	t.ProgramItem = lipgloss.NewStyle().Foreground(TextPrimary).PaddingLeft(1)
	t.ProgramItemSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(Indigo)
	t.ProgramTime = lipgloss.NewStyle().Foreground(TextMuted).PaddingLeft(3)
	t.SettingLabel = lipgloss.NewStyle().Foreground(TextSecondary)
	t.SettingValue = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)
	t.SliderFill = lipgloss.NewStyle().Foreground(Green)
	t.SliderEmpty = lipgloss.NewStyle().Foreground(Border)

	t.RoleUser = lipgloss.NewStyle().Bold(true).Foreground(Teal)
	t.RoleAssistant = lipgloss.NewStyle().Bold(true).Foreground(Indigo)
	t.RoleError = lipgloss.NewStyle().Bold(true).Foreground(Red)
	t.Timestamp = lipgloss.NewStyle().Foreground(TextMuted)
	t.UserBubble = lipgloss.NewStyle().
		Background(UserBubbleBg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)
	t.AssistantBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(AssistantBorder).
		PaddingLeft(1)
	t.ErrorBubble = lipgloss.NewStyle().
		Foreground(Red).
		Background(ErrorBubbleBg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Red).
		Padding(0, 1)

	t.Welcome = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Align(lipgloss.Center)
	t.QuickAction = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1).
		MarginRight(1)
	t.QuickActionKey = lipgloss.NewStyle().Foreground(Indigo).Bold(true)
	t.QuickActionHint = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	t.Input = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
	t.InputFocused = t.Input.BorderForeground(Teal)
	t.InputPrompt = lipgloss.NewStyle().Foreground(Teal).Bold(true)
	t.StatusBar = lipgloss.NewStyle().Foreground(TextSecondary).Padding(0, 1)
	t.ShortcutKey = lipgloss.NewStyle().Foreground(Indigo).Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)
	t.Spinner = lipgloss.NewStyle().Foreground(Amber)
	t.Busy = lipgloss.NewStyle().Foreground(Amber).Italic(true)
	t.Muted = lipgloss.NewStyle().Foreground(TextMuted)

	t.CodeBlock = lipgloss.NewStyle().
		Background(SurfaceRaised).
		Padding(0, 1)
	t.CodeLangBadge = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Teal).
		Padding(0, 1)
}

// SetSize records the terminal size for layout decisions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// ShowSidebar reports whether the terminal is wide enough for two panes.
func (t *Theme) ShowSidebar() bool {
	return t.Width >= SidebarMinWidth
}

// ChatWidth returns the column count left for the chat pane.
func (t *Theme) ChatWidth() int {
	if t.ShowSidebar() {
		return max(t.Width-SidebarWidth, 20)
	}
	return max(t.Width, 20)
}

// GlamourStyle names the glamour style matching the background.
func (t *Theme) GlamourStyle() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}

// ChromaStyle names the chroma style matching the background.
func (t *Theme) ChromaStyle() string {
	if t.IsDark {
		return "monokai"
	}
	return "github"
}
