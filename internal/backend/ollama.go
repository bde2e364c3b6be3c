// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend defines the streaming chat backend used by the driver.
package backend

import (
	"context"

	"github.com/jeranaias/neuralcode/internal/model"
	"github.com/jeranaias/neuralcode/internal/ollama"
)

// Ollama streams chat replies through the Ollama REST API.
type Ollama struct {
	client *ollama.Client
}

// NewOllama wraps an existing client.
func NewOllama(client *ollama.Client) *Ollama {
	return &Ollama{client: client}
}

// Name implements Backend.
func (o *Ollama) Name() string {
	return DriverOllama
}

// Client exposes the underlying HTTP client for model listing.
func (o *Ollama) Client() *ollama.Client {
	return o.client
}

// Chat implements Backend.
func (o *Ollama) Chat(ctx context.Context, req Request) (Stream, error) {
	reader, err := o.client.ChatStream(ctx, ollama.ChatRequest{
		Model:    req.Model,
		Messages: toOllamaMessages(req.Messages),
		Options: &ollama.Options{
			Temperature: req.Temperature,
			NumPredict:  req.NumPredict,
		},
	})
	if err != nil {
		return nil, err
	}
	return &ollamaStream{reader: reader}, nil
}

type ollamaStream struct {
	reader *ollama.StreamReader
}

func (s *ollamaStream) Recv() (Fragment, error) {
	chunk, err := s.reader.Next()
	if err != nil {
		return Fragment{}, err
	}
	return Fragment{Content: chunk.Content}, nil
}

func (s *ollamaStream) Close() error {
	return s.reader.Close()
}

func toOllamaMessages(msgs []model.Message) []ollama.Message {
	out := make([]ollama.Message, len(msgs))
	for i, m := range msgs {
		out[i] = ollama.Message{Role: m.Role.String(), Content: m.Content}
	}
	return out
}
