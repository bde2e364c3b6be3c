// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/neuralcode/internal/export"
	"github.com/jeranaias/neuralcode/internal/model"
	"github.com/jeranaias/neuralcode/internal/ui/components"
	"github.com/jeranaias/neuralcode/internal/ui/styles"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamUpdateMsg:
		return m.handleStreamUpdate(msg)

	case StreamDoneMsg:
		return m.handleStreamDone(msg)

	case SessionEventMsg:
		m.refreshPrograms()
		m.refreshContent()
		return m, nil

	case ConfigReloadedMsg:
		return m.handleConfigReloaded(msg)

	case ExportDoneMsg:
		if msg.Err != nil {
			m.notice = errorNotice(fmt.Errorf("export failed: %w", msg.Err))
		} else {
			m.notice = infoNotice("Exported to " + msg.Path)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateFocused(msg)
}

// =============================================================================
// KEYS
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Focus):
		m.setFocus((m.focus + 1) % 3)
		return m, nil

	case key.Matches(msg, m.keys.Help) && (msg.String() != "?" || m.focus == focusPrograms):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.resize(m.width, m.height)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.NewChat):
		return m, m.guarded("start a new chat", func() {
			m.sess.NewChat()
			m.notice = infoNotice("New chat")
		})

	case key.Matches(msg, m.keys.ClearChat):
		return m, m.guarded("clear the chat", func() {
			m.sess.ClearChat()
			m.notice = infoNotice("Chat cleared")
		})

	case key.Matches(msg, m.keys.TempDown):
		return m, m.applySettings(m.sess.Settings().TemperatureDown())
	case key.Matches(msg, m.keys.TempUp):
		return m, m.applySettings(m.sess.Settings().TemperatureUp())
	case key.Matches(msg, m.keys.TokensDown):
		return m, m.applySettings(m.sess.Settings().MaxTokensDown())
	case key.Matches(msg, m.keys.TokensUp):
		return m, m.applySettings(m.sess.Settings().MaxTokensUp())
	case key.Matches(msg, m.keys.NextModel):
		return m, m.applySettings(m.sess.Settings().NextModel())

	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd()
	}

	for i, b := range m.keys.QuickActions {
		if key.Matches(msg, b) {
			return m, m.quickAction(i)
		}
	}

	switch m.focus {
	case focusPrograms:
		return m.handleProgramKey(msg)
	case focusSearch:
		if key.Matches(msg, m.keys.Send, m.keys.Down) {
			m.setFocus(focusPrograms)
			return m, nil
		}
	case focusInput:
		if key.Matches(msg, m.keys.Send) {
			return m, m.submit()
		}
		if key.Matches(msg, m.keys.Up) {
			m.viewport.LineUp(1)
			return m, nil
		}
		if key.Matches(msg, m.keys.Down) {
			m.viewport.LineDown(1)
			return m, nil
		}
	}
	return m.updateFocused(msg)
}

func (m *Model) handleProgramKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		} else {
			m.setFocus(focusSearch)
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.programs)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Send):
		if len(m.programs) == 0 {
			return m, nil
		}
		name := m.programs[m.selected].Name
		return m, m.guarded("load a program", func() {
			m.sess.LoadProgram(name)
			m.notice = infoNotice("Loaded " + name)
			m.setFocus(focusInput)
		})
	}
	return m, nil
}

// updateFocused passes msg to the focused text input.
func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusInput:
		if m.busy {
			return m, nil
		}
		m.input, cmd = m.input.Update(msg)
	case focusSearch:
		before := m.search.Value()
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			m.selected = 0
			m.refreshPrograms()
		}
	}
	return m, cmd
}

// guarded runs fn unless a reply is streaming. Resetting the conversation
// under a running exchange would drop its reply into the new chat.
func (m *Model) guarded(action string, fn func()) tea.Cmd {
	if m.busy {
		m.notice = errorNotice(fmt.Errorf("wait for the reply to finish before you %s", action))
		return nil
	}
	fn()
	m.refreshPrograms()
	m.refreshContent()
	return nil
}

// =============================================================================
// ACTIONS
// =============================================================================

// submit sends the prompt. Input is disabled until StreamDoneMsg.
func (m *Model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.busy {
		return nil
	}
	m.input.Reset()
	m.input.Blur()
	m.busy = true
	m.streamText = ""
	m.notice = components.Notice{}

	sess, drv, pub := m.sess, m.drv, m.sender.Publish
	send := func() tea.Msg {
		return StreamDoneMsg{Result: drv.Send(context.Background(), sess, text, pub)}
	}
	m.refreshContent()
	return tea.Batch(send, m.spinner.Tick)
}

func (m *Model) quickAction(i int) tea.Cmd {
	actions := model.QuickActions()
	if i < 0 || i >= len(actions) {
		return nil
	}
	a := actions[i]
	return m.guarded("use a quick action", func() {
		if !m.sess.ApplyQuickAction(a) {
			m.notice = errorNotice(fmt.Errorf("quick actions are only available on an empty chat"))
		}
	})
}

func (m *Model) applySettings(s model.Settings) tea.Cmd {
	if err := m.sess.SetSettings(s); err != nil {
		m.notice = errorNotice(err)
	}
	return nil
}

func (m *Model) exportCmd() tea.Cmd {
	t := export.FromSession(m.sess)
	dir := m.exportDir
	return func() tea.Msg {
		path, err := export.ExportToFile(t, export.NewMarkdownExporter(), dir)
		if err != nil {
			log.Printf("EXPORT_FAIL | dir=%s err=%v", dir, err)
		} else {
			log.Printf("EXPORT_DONE | path=%s", path)
		}
		return ExportDoneMsg{Path: path, Err: err}
	}
}

// =============================================================================
// STREAM AND CONFIG MESSAGES
// =============================================================================

func (m *Model) handleStreamUpdate(msg StreamUpdateMsg) (tea.Model, tea.Cmd) {
	u := msg.Update
	if u.Done {
		m.streamText = ""
		if u.Err != nil {
			m.notice = errorNotice(u.Err)
		}
	} else {
		m.streamText = u.Text
	}
	m.refreshContent()
	return m, nil
}

func (m *Model) handleStreamDone(msg StreamDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.streamText = ""
	if msg.Result.Err != nil {
		m.notice = errorNotice(msg.Result.Err)
	}
	if m.focus == focusInput {
		m.input.Focus()
	}
	m.refreshPrograms()
	m.refreshContent()
	return m, nil
}

func (m *Model) handleConfigReloaded(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.notice = errorNotice(fmt.Errorf("config reload: %w", msg.Err))
		return m, nil
	}
	if err := m.sess.SetSettings(msg.Settings); err != nil {
		m.notice = errorNotice(fmt.Errorf("config reload: %w", err))
		return m, nil
	}
	m.notice = infoNotice("Config reloaded")
	return m, nil
}

// =============================================================================
// LAYOUT
// =============================================================================

// chrome is the line count around the viewport: header, notice, input box
// and help.
func (m *Model) chrome() int {
	h := 2 + 1 + 3 + 1
	if m.showHelp {
		h += lipgloss.Height(m.help.View(m.keys)) - 1
	}
	return h
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.theme.SetSize(width, height)
	cw := m.theme.ChatWidth()

	m.header.Width = cw
	m.help.Width = cw
	m.input.Width = max(cw-6, 10)
	m.search.Width = styles.SidebarWidth - 8
	m.viewport.Width = cw
	m.viewport.Height = max(height-m.chrome(), 3)
	m.md.SetWidth(cw - 4)
	m.msgView.Width = cw - 2
	m.ready = true
	m.refreshContent()
}

func errorNotice(err error) components.Notice {
	text := err.Error()
	if !strings.HasPrefix(text, model.ErrorPrefix) {
		text = model.ErrorPrefix + text
	}
	return components.Notice{Text: text, IsError: true}
}

func infoNotice(text string) components.Notice {
	return components.Notice{Text: text}
}
