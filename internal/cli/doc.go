// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the neuralcode command tree.
//
// Usage:
//
//	neuralcode                    Start the TUI (default)
//	neuralcode chat               Line-mode chat with slash commands
//	neuralcode ask "prompt"       One-shot question
//	neuralcode serve              Local HTTP API on 127.0.0.1
//	neuralcode models             List models installed in Ollama
//	neuralcode config show|path|init
//	neuralcode history [--limit]  Archived exchanges
//	neuralcode version
//
// Global flags:
//
//	--config PATH   Use a specific config file
//	-v, --verbose   Log to stderr
package cli
