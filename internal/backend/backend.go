// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend defines the streaming chat backend used by the driver.
package backend

import (
	"context"
	"fmt"

	"github.com/jeranaias/neuralcode/internal/model"
	"github.com/jeranaias/neuralcode/internal/ollama"
)

// Driver names accepted by New.
const (
	DriverOllama    = "ollama"
	DriverLangChain = "langchain"
)

// =============================================================================
// INTERFACES
// =============================================================================

// Request is a single streaming chat call.
type Request struct {
	Model       string
	Messages    []model.Message
	Temperature float64
	NumPredict  int
}

// Fragment is one piece of streamed reply text.
type Fragment struct {
	Content string
}

// Stream yields fragments in arrival order.
// Recv returns io.EOF once the reply is complete.
type Stream interface {
	Recv() (Fragment, error)
	Close() error
}

// Backend starts streaming chat calls.
type Backend interface {
	Name() string
	Chat(ctx context.Context, req Request) (Stream, error)
}

// New builds the backend selected by driver.
func New(driver, baseURL string) (Backend, error) {
	switch driver {
	case "", DriverOllama:
		return NewOllama(ollama.NewClientWithConfig(&ollama.ClientConfig{BaseURL: baseURL})), nil
	case DriverLangChain:
		return NewLangChain(baseURL, model.DefaultModelID)
	default:
		return nil, fmt.Errorf("unknown backend driver %q (want %q or %q)", driver, DriverOllama, DriverLangChain)
	}
}
