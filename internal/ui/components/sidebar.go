// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/jeranaias/neuralcode/internal/model"
	"github.com/jeranaias/neuralcode/internal/ui/styles"
	"github.com/jeranaias/neuralcode/internal/util"
)

const (
	// SidebarTitle heads the sidebar.
	SidebarTitle = "NeuralChat"
	// SidebarFooter closes the sidebar.
	SidebarFooter = "NeuralCode - Powered by Ollama Local Models"
	// SearchPlaceholder is shown in the empty program search box.
	SearchPlaceholder = "Search..."
)

// Sidebar renders the left pane: new chat, program search, recent programs
// and settings. Programs holds the already filtered list.
type Sidebar struct {
	Programs   []model.Program
	Current    string
	Selected   int
	SearchView string
	Focused    bool
	Settings   model.Settings
	Now        time.Time
	Height     int
	theme      *styles.Theme
}

// NewSidebar creates an empty sidebar.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{theme: theme, Now: time.Now()}
}

// View renders the sidebar at styles.SidebarWidth columns.
func (s *Sidebar) View() string {
	t := s.theme
	inner := styles.SidebarWidth - 4

	var b strings.Builder
	b.WriteString(t.HeaderTitle.Render(SidebarTitle))
	b.WriteString("\n\n")
	b.WriteString(t.NewChatButton.Render("+ New Chat"))
	b.WriteString(" ")
	b.WriteString(t.Muted.Render("ctrl+n"))
	b.WriteString("\n")
	b.WriteString(t.SettingLabel.Render("Clear Chat "))
	b.WriteString(t.Muted.Render("ctrl+l"))
	b.WriteString("\n")
	b.WriteString(t.SectionTitle.Render("Recent Programs"))
	b.WriteString("\n")
	b.WriteString(t.SearchBox.Width(inner - 2).Render(s.SearchView))
	b.WriteString("\n")

	if len(s.Programs) == 0 {
		b.WriteString(t.Muted.Render("No matching programs"))
		b.WriteString("\n")
	}
	for i, p := range s.Programs {
		label := util.TruncateWidth(p.Label(), inner-2)
		switch {
		case s.Focused && i == s.Selected:
			b.WriteString(t.ProgramItemSelected.Render(label))
		case p.Name == s.Current:
			b.WriteString(t.ProgramItem.Bold(true).Render(label))
		default:
			b.WriteString(t.ProgramItem.Render(label))
		}
		b.WriteString("\n")
		b.WriteString(t.ProgramTime.Render(p.RelativeTime(s.Now)))
		b.WriteString("\n")
	}

	b.WriteString(NewSettingsPanel(t, s.Settings, inner).View())
	b.WriteString("\n\n")
	b.WriteString(t.Muted.Width(inner).Render(SidebarFooter))

	box := t.Sidebar
	if s.Focused {
		box = t.SidebarFocused
	}
	box = box.Width(styles.SidebarWidth - 2)
	if s.Height > 2 {
		box = box.Height(s.Height - 2)
	}
	return box.Render(b.String())
}

// Clamp keeps Selected inside the program list.
func (s *Sidebar) Clamp() {
	if s.Selected >= len(s.Programs) {
		s.Selected = len(s.Programs) - 1
	}
	if s.Selected < 0 {
		s.Selected = 0
	}
}
