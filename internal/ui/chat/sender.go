// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/jeranaias/neuralcode/internal/driver"
	"github.com/jeranaias/neuralcode/internal/session"
)

// DefaultFPS caps how many in-progress frames reach the event loop per second.
const DefaultFPS = 30

// Target is what a Sender forwards to; *tea.Program satisfies it.
type Target interface {
	Send(msg tea.Msg)
}

// Sender forwards messages from background goroutines to the program.
// Until a target is attached every message is dropped.
type Sender struct {
	mu      sync.Mutex
	target  Target
	limiter *rate.Limiter
}

// NewSender creates a sender limiting in-progress frames to fps.
func NewSender(fps float64) *Sender {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Sender{limiter: rate.NewLimiter(rate.Limit(fps), 1)}
}

// Attach sets the program messages go to.
func (s *Sender) Attach(t Target) {
	s.mu.Lock()
	s.target = t
	s.mu.Unlock()
}

// Send forwards msg, blocking until the program accepts it. Must not be
// called from the event loop itself.
func (s *Sender) Send(msg tea.Msg) {
	s.mu.Lock()
	t := s.target
	s.mu.Unlock()
	if t != nil {
		t.Send(msg)
	}
}

// Publish is a driver.Publisher. In-progress frames over the rate are
// dropped; each frame carries the full text so nothing is lost.
func (s *Sender) Publish(u driver.Update) {
	if u.InProgress && !s.limiter.Allow() {
		return
	}
	s.Send(StreamUpdateMsg{Update: u})
}

// Observe is a session observer. Notifications raised from inside Update
// would deadlock a blocking send, so each one is delivered on its own
// goroutine.
func (s *Sender) Observe(e session.Event) {
	go s.Send(SessionEventMsg{Event: e})
}
