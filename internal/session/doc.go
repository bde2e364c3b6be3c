// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the in-memory chat session state store.
//
// A Session owns the message history, the recent-program list, the active
// generation settings and the name of the current program. Front ends receive
// a *Session explicitly; there is no package-level instance.
//
// # Key Types
//
//   - Session: The state store and its operations
//   - Event: Notification delivered to subscribers after every mutation
//   - Option: Functional options for New
//
// # Usage
//
//	sess := session.New(session.WithSettings(cfg.Settings()))
//	unsubscribe := sess.Subscribe(func(ev session.Event) {
//	    program.Send(ui.SessionEventMsg{Event: ev})
//	})
//	defer unsubscribe()
//
//	for p := range sess.FilterPrograms("gpt") {
//	    fmt.Println(p.Label())
//	}
//
// # Invariants
//
// Messages()[0] is always the system prompt. Reset operations truncate the
// history back to it and never remove it.
package session
