// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/neuralcode/internal/model"
	"github.com/jeranaias/neuralcode/internal/ui/styles"
)

// MessageView renders one conversation message.
type MessageView struct {
	Width         int
	ShowTimestamp bool
	Markdown      *Markdown
	theme         *styles.Theme
}

// NewMessageView creates a view; md may be nil for plain rendering.
func NewMessageView(theme *styles.Theme, md *Markdown, width int) *MessageView {
	return &MessageView{Width: width, Markdown: md, theme: theme, ShowTimestamp: true}
}

// Render draws msg with a role label and bubble. System messages render
// as nothing; the system prompt is never shown in the chat.
func (v *MessageView) Render(msg model.Message) string {
	switch {
	case msg.IsSystem():
		return ""
	case msg.IsError():
		return v.frame(v.theme.RoleError.Render(styles.Indicators.Error+" "+msg.Role.DisplayName()),
			msg, v.theme.ErrorBubble.Width(v.innerWidth()).Render(msg.Content))
	case msg.Role == model.RoleUser:
		return v.frame(v.theme.RoleUser.Render(msg.Role.DisplayName()),
			msg, v.theme.UserBubble.Width(v.innerWidth()).Render(msg.Content))
	default:
		return v.frame(v.theme.RoleAssistant.Render(msg.Role.DisplayName()),
			msg, v.theme.AssistantBubble.Render(v.Markdown.Render(msg.Content)))
	}
}

// RenderStreaming draws the in-progress reply, which already ends in the
// cursor marker. Code fences are highlighted but prose is left raw so a
// half-written markdown construct does not jump around between frames.
func (v *MessageView) RenderStreaming(text string) string {
	label := v.theme.RoleAssistant.Render(model.RoleAssistant.DisplayName())
	return label + "\n" + v.theme.AssistantBubble.Render(RenderCodeBlocks(v.theme, text, v.innerWidth()))
}

// RenderAll joins every visible message with a blank line between them.
func (v *MessageView) RenderAll(msgs []model.Message) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if r := v.Render(m); r != "" {
			parts = append(parts, r)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (v *MessageView) frame(label string, msg model.Message, body string) string {
	if v.ShowTimestamp && !msg.CreatedAt.IsZero() {
		label += " " + v.theme.Timestamp.Render(msg.CreatedAt.Format("15:04"))
	}
	return label + "\n" + body
}

func (v *MessageView) innerWidth() int {
	return max(v.Width-2, 20)
}
