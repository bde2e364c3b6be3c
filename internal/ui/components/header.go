// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/neuralcode/internal/model"
	"github.com/jeranaias/neuralcode/internal/ui/styles"
	"github.com/jeranaias/neuralcode/internal/util"
)

// ProgramIcon prefixes the current program in the header.
const ProgramIcon = "💻"

// Header is the chat pane title bar.
type Header struct {
	Program string
	ModelID string
	Busy    bool
	Width   int
	theme   *styles.Theme
}

// NewHeader creates a header for the default program and model.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Program: model.DefaultProgramName,
		ModelID: model.DefaultModelID,
		Width:   80,
		theme:   theme,
	}
}

// View renders "💻 <program>" on the left and the model and state on the
// right.
func (h *Header) View() string {
	width := max(h.Width, 40)
	inner := width - 2

	modelName := h.ModelID
	if info, ok := model.GetModelInfo(h.ModelID); ok {
		modelName = info.Name
	}
	state := h.theme.Muted.Render(styles.Indicators.Idle + " ready")
	if h.Busy {
		state = h.theme.Busy.Render(styles.Indicators.Busy + " generating")
	}
	right := h.theme.HeaderMeta.Render(modelName) + "  " + state

	room := inner - lipgloss.Width(right) - 4
	left := h.theme.HeaderTitle.Render(ProgramIcon + " " + util.TruncateWidth(h.Program, max(room, 1)))

	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return h.theme.Header.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
