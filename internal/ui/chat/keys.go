// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/jeranaias/neuralcode/internal/ui/components"
)

// KeyMap defines the chat screen bindings.
type KeyMap struct {
	Send         key.Binding
	Focus        key.Binding
	Up           key.Binding
	Down         key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	NewChat      key.Binding
	ClearChat    key.Binding
	TempDown     key.Binding
	TempUp       key.Binding
	TokensDown   key.Binding
	TokensUp     key.Binding
	NextModel    key.Binding
	QuickActions []key.Binding
	Export       key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	km := KeyMap{
		Send:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send / load")),
		Focus:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch focus")),
		Up:         key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:       key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		PageUp:     key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		NewChat:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new chat")),
		ClearChat:  key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear chat")),
		TempDown:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "temperature -")),
		TempUp:     key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "temperature +")),
		TokensDown: key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "max tokens -")),
		TokensUp:   key.NewBinding(key.WithKeys("ctrl+j"), key.WithHelp("ctrl+j", "max tokens +")),
		NextModel:  key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "next model")),
		Export:     key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "export markdown")),
		Help:       key.NewBinding(key.WithKeys("ctrl+h", "?"), key.WithHelp("?/ctrl+h", "help")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
	for i := range 4 {
		k := components.KeyFor(i)
		km.QuickActions = append(km.QuickActions, key.NewBinding(key.WithKeys(k), key.WithHelp(k, "quick action")))
	}
	return km
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Focus, k.NewChat, k.Export, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.Focus, k.Up, k.Down, k.PageUp, k.PageDown},
		{k.NewChat, k.ClearChat, k.Export, k.Help, k.Quit},
		{k.TempDown, k.TempUp, k.TokensDown, k.TokensUp, k.NextModel},
		k.QuickActions,
	}
}
