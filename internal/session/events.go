// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the in-memory chat session state store.
package session

import "github.com/jeranaias/neuralcode/internal/model"

// =============================================================================
// STATE-CHANGE NOTIFICATIONS
// =============================================================================

// EventKind identifies what changed.
type EventKind int

const (
	// EventReset fires after new chat, clear chat and ResetConversation.
	EventReset EventKind = iota

	// EventMessageAppended fires after a message is added.
	EventMessageAppended

	// EventProgramsChanged fires after a program is touched and the list re-sorted.
	EventProgramsChanged

	// EventSettingsChanged fires after SetSettings succeeds.
	EventSettingsChanged

	// EventProgramLoaded fires after LoadProgram.
	EventProgramLoaded
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventReset:
		return "reset"
	case EventMessageAppended:
		return "message_appended"
	case EventProgramsChanged:
		return "programs_changed"
	case EventSettingsChanged:
		return "settings_changed"
	case EventProgramLoaded:
		return "program_loaded"
	default:
		return "unknown"
	}
}

// Event describes a single mutation of the session.
type Event struct {
	Kind EventKind

	// Message is set for EventMessageAppended.
	Message *model.Message

	// Program is the affected program name, when there is one.
	Program string
}

// Subscribe registers fn to be called after every mutation.
// Observers run synchronously on the mutating goroutine, after the state lock
// is released, so they may read the session freely.
func (s *Session) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.observerMu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = fn
	s.observerMu.Unlock()

	return func() {
		s.observerMu.Lock()
		delete(s.observers, id)
		s.observerMu.Unlock()
	}
}

func (s *Session) notify(ev Event) {
	s.observerMu.Lock()
	fns := make([]func(Event), 0, len(s.observers))
	for id := 0; id < s.nextObsID; id++ {
		if fn, ok := s.observers[id]; ok {
			fns = append(fns, fn)
		}
	}
	s.observerMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
