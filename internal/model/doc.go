// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for messages, programs and settings.
//
// This package defines the core domain types shared by the session store, the
// streaming driver and every front end.
//
// # Key Types
//
//   - Message: Single message with role, content and creation time
//   - Role: Message role enumeration (system, user, assistant)
//   - Program: A recently used preset shown in the sidebar
//   - Settings: Generation parameters (temperature, max tokens, model)
//   - QuickAction: One of the fixed prefill shortcuts
//
// # Usage
//
// Build the opening conversation:
//
//	msgs := []model.Message{model.NewSystemMessage(model.SystemPrompt)}
//	msgs = append(msgs, model.NewUserMessage("Write a binary search in Go"))
//
// Work with settings:
//
//	s := model.DefaultSettings().TemperatureUp()
//	if err := s.Validate(); err != nil {
//	    return err
//	}
package model
