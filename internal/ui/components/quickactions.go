// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/neuralcode/internal/model"
	"github.com/jeranaias/neuralcode/internal/ui/styles"
)

// WelcomeText greets the user on an empty conversation.
const WelcomeText = "Ask for code, paste an error, or pick a quick action to start."

// QuickActions renders the prefill buttons with their alt+N keys.
type QuickActions struct {
	Actions []model.QuickAction
	Width   int
	theme   *styles.Theme
}

// NewQuickActions creates the row for the fixed actions.
func NewQuickActions(theme *styles.Theme) *QuickActions {
	return &QuickActions{Actions: model.QuickActions(), Width: 80, theme: theme}
}

// KeyFor returns the shortcut for the i-th action.
func KeyFor(i int) string {
	return fmt.Sprintf("alt+%d", i+1)
}

// View renders the welcome text and the button row.
func (q *QuickActions) View() string {
	t := q.theme
	buttons := make([]string, 0, len(q.Actions))
	for i, a := range q.Actions {
		buttons = append(buttons, t.QuickAction.Render(
			a.Icon+" "+a.Label+" "+t.QuickActionKey.Render(KeyFor(i))))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
	if lipgloss.Width(row) > q.Width {
		row = lipgloss.JoinVertical(lipgloss.Left, buttons...)
	}
	welcome := t.Welcome.Width(max(q.Width, 20)).Render(WelcomeText)
	hint := t.QuickActionHint.Render("Quick actions only fill the prompt; press enter to send.")
	return lipgloss.JoinVertical(lipgloss.Left, welcome, "", row, hint)
}
