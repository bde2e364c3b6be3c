// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command registry used by line-mode chat.
//
// A Registry maps names and aliases to Commands, parses input lines with
// shell-style quoting, dispatches to handlers and offers tab completion for
// command names and enumerated first arguments.
package commands
