// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/neuralcode/internal/driver"
	"github.com/jeranaias/neuralcode/internal/model"
	"github.com/jeranaias/neuralcode/internal/session"
	"github.com/jeranaias/neuralcode/internal/ui/components"
	"github.com/jeranaias/neuralcode/internal/ui/styles"
)

// InputPlaceholder is shown in the empty prompt.
const InputPlaceholder = "Ask for code..."

// focusArea is the pane receiving keys.
type focusArea int

const (
	focusInput focusArea = iota
	focusSearch
	focusPrograms
)

// Options configures New.
type Options struct {
	Session *session.Session
	Driver  *driver.Driver
	Theme   *styles.Theme
	Sender  *Sender

	// ExportDir receives ctrl+e transcripts. Empty means the working directory.
	ExportDir string

	ShowTimestamps bool
}

// Model is the chat screen.
type Model struct {
	sess   *session.Session
	drv    *driver.Driver
	theme  *styles.Theme
	sender *Sender
	keys   KeyMap

	input    textinput.Model
	search   textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model

	md      *components.Markdown
	msgView *components.MessageView
	header  *components.Header
	sidebar *components.Sidebar
	quick   *components.QuickActions

	focus    focusArea
	programs []model.Program
	selected int

	busy       bool
	streamText string
	notice     components.Notice
	showHelp   bool

	exportDir   string
	width       int
	height      int
	ready       bool
	unsubscribe func()
}

// New creates the chat model. Session and Driver are required.
func New(opts Options) *Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme("auto")
	}
	sender := opts.Sender
	if sender == nil {
		sender = NewSender(DefaultFPS)
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = theme.InputPrompt
	ti.Placeholder = InputPlaceholder
	ti.CharLimit = 8192
	ti.Focus()

	si := textinput.New()
	si.Prompt = ""
	si.Placeholder = components.SearchPlaceholder
	si.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	md := components.NewMarkdown(theme.GlamourStyle(), 80)
	msgView := components.NewMessageView(theme, md, 80)
	msgView.ShowTimestamp = opts.ShowTimestamps

	m := &Model{
		sess:      opts.Session,
		drv:       opts.Driver,
		theme:     theme,
		sender:    sender,
		keys:      DefaultKeyMap(),
		input:     ti,
		search:    si,
		viewport:  viewport.New(80, 20),
		spinner:   sp,
		help:      help.New(),
		md:        md,
		msgView:   msgView,
		header:    components.NewHeader(theme),
		sidebar:   components.NewSidebar(theme),
		quick:     components.NewQuickActions(theme),
		exportDir: opts.ExportDir,
	}
	m.unsubscribe = m.sess.Subscribe(sender.Observe)
	m.refreshPrograms()
	m.refreshContent()
	return m
}

// Close stops session notifications.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Busy reports whether an exchange is in flight.
func (m *Model) Busy() bool {
	return m.busy
}

// refreshPrograms re-runs the sidebar filter against the search box.
func (m *Model) refreshPrograms() {
	m.programs = slices.Collect(m.sess.FilterPrograms(m.search.Value()))
	if m.selected >= len(m.programs) {
		m.selected = len(m.programs) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// refreshContent rebuilds the viewport from the session.
func (m *Model) refreshContent() {
	var content string
	if m.sess.IsEmpty() && !m.busy {
		m.quick.Width = m.viewport.Width
		content = m.quick.View()
	} else {
		content = m.msgView.RenderAll(m.sess.Messages())
		if m.streamText != "" {
			content += "\n\n" + m.msgView.RenderStreaming(m.streamText)
		}
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	m.input.Blur()
	m.search.Blur()
	switch f {
	case focusInput:
		if !m.busy {
			m.input.Focus()
		}
	case focusSearch:
		m.search.Focus()
	}
}
