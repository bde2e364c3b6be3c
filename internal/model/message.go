// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for messages, programs and settings.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SystemPrompt is the fixed instruction that always sits at index 0 of a conversation.
const SystemPrompt = "You are an expert software engineer. Generate clean, correct, and " +
	"well-formatted code. Return code inside proper markdown code blocks. " +
	"Explain only if explicitly asked."

// ErrorPrefix starts the content of every synthetic error message.
const ErrorPrefix = "Error: "

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
// Messages are values; the session store hands out copies.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) Message {
	return NewMessage(RoleSystem, content)
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) Message {
	return NewMessage(RoleAssistant, content)
}

// NewErrorMessage creates the synthetic assistant message recorded when a
// backend call fails. Its content always starts with ErrorPrefix.
func NewErrorMessage(err error) Message {
	text := "unknown error"
	if err != nil {
		text = err.Error()
	}
	return NewAssistantMessage(ErrorPrefix + text)
}

// IsSystem returns true if this is the system prompt.
func (m Message) IsSystem() bool {
	return m.Role == RoleSystem
}

// IsError returns true if this is a synthetic error reply.
func (m Message) IsError() bool {
	return m.Role == RoleAssistant && strings.HasPrefix(m.Content, ErrorPrefix)
}
