// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/jeranaias/neuralcode/internal/model"
	"github.com/jeranaias/neuralcode/internal/ui/styles"
)

// RenderSlider draws a horizontal bar for value within [lo, hi].
func RenderSlider(theme *styles.Theme, value, lo, hi float64, width int) string {
	width = max(width, 4)
	frac := 0.0
	if hi > lo {
		frac = math.Max(0, math.Min(1, (value-lo)/(hi-lo)))
	}
	filled := int(math.Round(frac * float64(width)))
	return theme.SliderFill.Render(strings.Repeat("━", filled)) +
		theme.SliderEmpty.Render(strings.Repeat("─", width-filled))
}

// SettingsPanel renders the generation settings with their key hints.
type SettingsPanel struct {
	Settings model.Settings
	Width    int
	theme    *styles.Theme
}

// NewSettingsPanel creates a panel showing settings.
func NewSettingsPanel(theme *styles.Theme, settings model.Settings, width int) *SettingsPanel {
	return &SettingsPanel{Settings: settings, Width: width, theme: theme}
}

// View renders the panel.
func (p *SettingsPanel) View() string {
	t := p.theme
	barWidth := max(p.Width-2, 4)
	s := p.Settings

	modelName := s.ModelID
	if info, ok := model.GetModelInfo(s.ModelID); ok {
		modelName = info.Name
	}

	lines := []string{
		t.SectionTitle.Render("Settings"),
		t.SettingLabel.Render("Temperature ") + t.SettingValue.Render(fmt.Sprintf("%.1f", s.Temperature)),
		RenderSlider(t, s.Temperature, model.MinTemperature, model.MaxTemperature, barWidth),
		t.Muted.Render("ctrl+y / ctrl+t"),
		t.SettingLabel.Render("Max tokens ") + t.SettingValue.Render(humanize.Comma(int64(s.MaxTokens))),
		RenderSlider(t, float64(s.MaxTokens), model.MinMaxTokens, model.MaxMaxTokens, barWidth),
		t.Muted.Render("ctrl+j / ctrl+k"),
		t.SettingLabel.Render("Model ") + t.SettingValue.Render(modelName),
		t.Muted.Render("ctrl+o to cycle"),
	}
	return strings.Join(lines, "\n")
}
