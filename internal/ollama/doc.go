// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with Ollama API.
//
// Only the endpoints the chat client needs are implemented: the model list
// (also used as the health check) and streaming chat.
//
// # Key Types
//
//   - Client: HTTP client for Ollama API communication
//   - ChatRequest: Request structure for chat completions
//   - Options: Generation parameters (temperature, num_predict)
//   - StreamReader: Pull-based reader over the NDJSON chat stream
//   - ClientError: Typed error with sentinel values for common failures
//
// # Usage
//
//	client := ollama.NewClient()
//	reader, err := client.ChatStream(ctx, ollama.ChatRequest{
//	    Model:    "qwen2.5-coder:3b",
//	    Messages: []ollama.Message{ollama.NewUserMessage("Hello")},
//	    Options:  &ollama.Options{Temperature: 0.2, NumPredict: 1024},
//	})
//	if err != nil {
//	    return err
//	}
//	defer reader.Close()
//	for {
//	    chunk, err := reader.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Print(chunk.Content)
//	}
package ollama
