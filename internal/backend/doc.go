// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend defines the streaming chat backend used by the driver and
// its implementations.
//
// # Key Types
//
//   - Backend: Starts a streaming chat call
//   - Stream: Pull-based sequence of text fragments, io.EOF at the end
//   - Ollama: Backend over the internal Ollama HTTP client
//   - LangChain: Backend over langchaingo's Ollama LLM
//   - Scripted: Deterministic in-memory backend for tests and demos
//
// # Usage
//
//	b, err := backend.New(backend.DriverOllama, "http://127.0.0.1:11434")
//	stream, err := b.Chat(ctx, backend.Request{Model: "mistral:7b", Messages: msgs})
//	defer stream.Close()
//	for {
//	    frag, err := stream.Recv()
//	    if err == io.EOF {
//	        break
//	    }
//	    ...
//	}
package backend
