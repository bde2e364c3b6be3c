// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat is the Bubble Tea model for the NeuralCode chat screen.

The model owns no conversation state. Every key either mutates the
session.Session or starts a driver exchange, and the view is rebuilt from the
session afterwards.

# Streaming

A send runs driver.Send inside a tea.Cmd. The driver publishes every snapshot
through a Sender, which forwards it to the running program as StreamUpdateMsg.
In-progress snapshots pass a rate limiter so a fast model cannot flood the
event loop; the final snapshot always goes through. When the exchange ends the
command returns StreamDoneMsg and input is re-enabled.

# Session Notifications

Sender.Observe is subscribed to the session. Changes made outside the event
loop (the driver appending a reply, a config reload) arrive as SessionEventMsg
and trigger a re-render.
*/
package chat
