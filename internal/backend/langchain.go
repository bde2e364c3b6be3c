// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend defines the streaming chat backend used by the driver.
package backend

import (
	"context"
	"fmt"
	"io"

	"github.com/tmc/langchaingo/llms"
	lcollama "github.com/tmc/langchaingo/llms/ollama"

	"github.com/jeranaias/neuralcode/internal/model"
)

// LangChain streams chat replies through langchaingo's Ollama LLM.
type LangChain struct {
	llm *lcollama.LLM
}

// NewLangChain creates a langchaingo-backed client for the server at serverURL.
func NewLangChain(serverURL, defaultModel string) (*LangChain, error) {
	opts := []lcollama.Option{lcollama.WithModel(defaultModel)}
	if serverURL != "" {
		opts = append(opts, lcollama.WithServerURL(serverURL))
	}
	llm, err := lcollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create langchain ollama client: %w", err)
	}
	return &LangChain{llm: llm}, nil
}

// Name implements Backend.
func (l *LangChain) Name() string {
	return DriverLangChain
}

// Chat implements Backend. The langchaingo call is callback based, so it runs
// in its own goroutine and hands fragments over an unbuffered channel.
func (l *LangChain) Chat(ctx context.Context, req Request) (Stream, error) {
	ctx, cancel := context.WithCancel(ctx)
	s := &chanStream{
		frags:  make(chan Fragment),
		cancel: cancel,
	}

	content := toLangChainMessages(req.Messages)
	go func() {
		defer close(s.frags)
		_, err := l.llm.GenerateContent(ctx, content,
			llms.WithModel(req.Model),
			llms.WithTemperature(req.Temperature),
			llms.WithMaxTokens(req.NumPredict),
			llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
				select {
				case s.frags <- Fragment{Content: string(chunk)}:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			}),
		)
		s.err = err
	}()

	return s, nil
}

// chanStream adapts a producer goroutine to the Stream interface.
type chanStream struct {
	frags  chan Fragment
	cancel context.CancelFunc
	err    error // written before frags is closed
}

func (s *chanStream) Recv() (Fragment, error) {
	frag, ok := <-s.frags
	if !ok {
		if s.err != nil {
			return Fragment{}, s.err
		}
		return Fragment{}, io.EOF
	}
	return frag, nil
}

func (s *chanStream) Close() error {
	s.cancel()
	for range s.frags {
	}
	return nil
}

func toLangChainMessages(msgs []model.Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(msgs))
	for _, m := range msgs {
		var role llms.ChatMessageType
		switch m.Role {
		case model.RoleSystem:
			role = llms.ChatMessageTypeSystem
		case model.RoleAssistant:
			role = llms.ChatMessageTypeAI
		default:
			role = llms.ChatMessageTypeHuman
		}
		out = append(out, llms.TextParts(role, m.Content))
	}
	return out
}
