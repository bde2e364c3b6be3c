// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/neuralcode/internal/driver"
	"github.com/jeranaias/neuralcode/internal/model"
	"github.com/jeranaias/neuralcode/internal/session"
)

// StreamUpdateMsg carries one driver snapshot.
type StreamUpdateMsg struct {
	Update driver.Update
}

// StreamDoneMsg is returned by the send command when the exchange is over.
type StreamDoneMsg struct {
	Result driver.Result
}

// SessionEventMsg forwards a session notification into the event loop.
type SessionEventMsg struct {
	Event session.Event
}

// ConfigReloadedMsg is sent by the config watcher after the file changed.
// Err is set when the new file could not be loaded or validated.
type ConfigReloadedMsg struct {
	Settings model.Settings
	Err      error
}

// ExportDoneMsg reports where a transcript was written.
type ExportDoneMsg struct {
	Path string
	Err  error
}
