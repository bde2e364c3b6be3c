// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/jeranaias/neuralcode/internal/ui/styles"
	"github.com/jeranaias/neuralcode/internal/util"
)

// Notice is a one-line banner such as "Exported to ..." or a config error.
type Notice struct {
	Text    string
	IsError bool
}

// Empty reports whether there is nothing to show.
func (n Notice) Empty() bool {
	return n.Text == ""
}

// View renders the notice truncated to width.
func (n Notice) View(width int) string {
	if n.Empty() {
		return ""
	}
	text := util.TruncateWidth(util.FirstLine(n.Text), max(width-6, 10))
	if n.IsError {
		return styles.RenderError(text)
	}
	return styles.RenderSuccess(text)
}
