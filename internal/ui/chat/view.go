// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	settings := m.sess.Settings()
	m.header.Program = m.sess.CurrentProgram()
	m.header.ModelID = settings.ModelID
	m.header.Busy = m.busy

	inputBox := m.theme.Input
	if m.focus == focusInput && !m.busy {
		inputBox = m.theme.InputFocused
	}
	inputLine := m.input.View()
	if m.busy {
		inputLine = m.spinner.View() + " " + m.theme.Busy.Render("Generating...")
	}

	pane := lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		m.viewport.View(),
		m.notice.View(m.theme.ChatWidth()),
		inputBox.Width(m.theme.ChatWidth()-2).Render(inputLine),
		m.help.View(m.keys),
	)

	if !m.theme.ShowSidebar() {
		return pane
	}

	sb := m.sidebar
	sb.Programs = m.programs
	sb.Current = m.sess.CurrentProgram()
	sb.Selected = m.selected
	sb.SearchView = m.search.View()
	sb.Focused = m.focus != focusInput
	sb.Settings = settings
	sb.Now = m.sess.Now()
	sb.Height = m.height
	sb.Clamp()

	return lipgloss.JoinHorizontal(lipgloss.Top, sb.View(), pane)
}
