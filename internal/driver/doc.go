// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package driver runs one streaming chat exchange against a session.
//
// The driver trims the history to the system prompt plus the most recent
// messages, starts the backend stream, accumulates fragments and publishes the
// growing reply to a front end. When the stream ends the reply is appended to
// the session as an assistant message. Any backend failure becomes a single
// "Error: ..." assistant message instead.
//
// # Key Types
//
//   - Driver: Runs exchanges; holds the backend and optional recorder
//   - Update: Snapshot of the reply published to the front end
//   - Result: Outcome of one exchange
//   - BackendCallFailure: The only error kind a front end ever sees
//
// # Usage
//
//	d := driver.New(b, driver.WithRecorder(store))
//	res := d.Send(ctx, sess, "Write fizzbuzz in Go", func(u driver.Update) {
//	    program.Send(StreamUpdateMsg{Update: u})
//	})
//	if res.Err != nil {
//	    // already recorded in the session as "Error: ..."
//	}
package driver
