// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server exposes one chat session over a local HTTP API.
//
// Endpoints:
//   - GET  /health                     - Liveness and backend name
//   - GET  /api/session                - Messages, current program, settings
//   - GET  /api/programs?q=            - Filtered recent programs
//   - POST /api/programs/{name}/load   - Load a program (empties the chat)
//   - POST /api/chat/new               - New chat
//   - POST /api/chat/clear             - Clear chat
//   - PUT  /api/settings               - Replace generation settings
//   - POST /api/quick/{action}         - Apply a quick action to an empty chat
//   - POST /api/chat                   - Send a prompt, stream NDJSON updates
//
// The server binds to 127.0.0.1 only. At most one chat exchange runs at a
// time; a second POST /api/chat, and any reset while one runs, gets 409.
package server
