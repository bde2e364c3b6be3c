// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for messages, programs and settings.
package model

import "time"

// Exchange is one completed prompt/reply round trip, as recorded in the
// transcript archive. Failed exchanges carry the error text as the reply.
type Exchange struct {
	SessionID string    `json:"session_id"`
	Program   string    `json:"program"`
	Model     string    `json:"model"`
	Prompt    string    `json:"prompt"`
	Reply     string    `json:"reply"`
	Failed    bool      `json:"failed"`
	At        time.Time `json:"at"`
}
