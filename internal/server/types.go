// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"time"

	"github.com/jeranaias/neuralcode/internal/model"
)

// SessionResponse is the body of GET /api/session and of every mutating call.
type SessionResponse struct {
	ID             string          `json:"id"`
	CurrentProgram string          `json:"current_program"`
	Settings       model.Settings  `json:"settings"`
	Messages       []model.Message `json:"messages"`
	Busy           bool            `json:"busy"`
}

// ProgramResponse is one entry of GET /api/programs.
type ProgramResponse struct {
	Name         string    `json:"name"`
	Icon         string    `json:"icon"`
	LastUsedAt   time.Time `json:"last_used_at"`
	RelativeTime string    `json:"relative_time"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Content string `json:"content"`
}

// StreamLine is one NDJSON line of a POST /api/chat response.
type StreamLine struct {
	Text       string `json:"text"`
	InProgress bool   `json:"in_progress,omitempty"`
	Done       bool   `json:"done,omitempty"`
	Error      string `json:"error,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Backend  string `json:"backend"`
	Uptime   string `json:"uptime"`
	Messages int    `json:"messages"`
}

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
