// neuralcode - a terminal chat client for local Ollama models.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import "github.com/jeranaias/neuralcode/internal/cli"

// Build with:
//
//	go build -ldflags "-X github.com/jeranaias/neuralcode/internal/cli.Version=1.0.0"
func main() {
	cli.Execute()
}
