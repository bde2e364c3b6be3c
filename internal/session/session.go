// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the in-memory chat session state store.
package session

import (
	"errors"
	"fmt"
	"iter"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/jeranaias/neuralcode/internal/model"
)

// ErrInvalidRole is returned by AppendMessage for a role outside system/user/assistant.
var ErrInvalidRole = errors.New("invalid message role")

// =============================================================================
// SESSION
// =============================================================================

// Session is the state store for one chat session.
// All methods are safe for concurrent use; callers still run one chat at a time.
type Session struct {
	mu sync.RWMutex

	id             string
	messages       []model.Message
	programs       []model.Program
	settings       model.Settings
	currentProgram string

	clock func() time.Time

	observers  map[int]func(Event)
	nextObsID  int
	observerMu sync.Mutex
}

// Option configures a Session at construction.
type Option func(*Session)

// WithClock overrides the time source used for default program timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Session) {
		s.clock = clock
	}
}

// WithSettings seeds the session with settings, typically from the config file.
// Invalid settings are ignored and the defaults kept.
func WithSettings(settings model.Settings) Option {
	return func(s *Session) {
		if settings.Validate() == nil {
			s.settings = settings
		}
	}
}

// WithPrograms replaces the default program list.
func WithPrograms(programs []model.Program) Option {
	return func(s *Session) {
		s.programs = append([]model.Program(nil), programs...)
	}
}

// New creates a session holding only the system prompt, the default programs
// sorted most-recent-first, default settings and the default current program.
func New(opts ...Option) *Session {
	s := &Session{
		id:             uuid.NewString(),
		settings:       model.DefaultSettings(),
		currentProgram: model.DefaultProgramName,
		clock:          time.Now,
		observers:      make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.programs == nil {
		s.programs = model.DefaultPrograms(s.clock())
	}
	sortPrograms(s.programs)
	s.messages = []model.Message{model.NewSystemMessage(model.SystemPrompt)}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Now returns the current time from the session clock.
func (s *Session) Now() time.Time {
	return s.clock()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Messages returns a copy of the message history. Index 0 is the system prompt.
func (s *Session) Messages() []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages, including the system prompt.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// IsEmpty reports whether only the system prompt is present.
func (s *Session) IsEmpty() bool {
	return s.Len() == 1
}

// Programs returns a copy of the program list, most recently used first.
func (s *Session) Programs() []model.Program {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Program, len(s.programs))
	copy(out, s.programs)
	return out
}

// Settings returns the active generation settings.
func (s *Session) Settings() model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetSettings replaces the active settings after validating them.
func (s *Session) SetSettings(settings model.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	s.notify(Event{Kind: EventSettingsChanged})
	return nil
}

// CurrentProgram returns the name shown in the header.
func (s *Session) CurrentProgram() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentProgram
}

// =============================================================================
// CONVERSATION OPERATIONS
// =============================================================================

// ResetConversation truncates the history to the system prompt and restores
// the default current program.
func (s *Session) ResetConversation() {
	s.mu.Lock()
	s.truncateLocked()
	s.currentProgram = model.DefaultProgramName
	s.mu.Unlock()
	s.notify(Event{Kind: EventReset, Program: model.DefaultProgramName})
}

// AppendMessage adds msg to the end of the history.
// The role is the only thing validated.
func (s *Session) AppendMessage(msg model.Message) error {
	if !msg.Role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, msg.Role)
	}
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
	s.notify(Event{Kind: EventMessageAppended, Message: &msg})
	return nil
}

// NewChat starts over: empty conversation and the default program.
func (s *Session) NewChat() {
	s.ResetConversation()
}

// ClearChat empties the conversation but keeps the current program.
func (s *Session) ClearChat() {
	s.mu.Lock()
	s.truncateLocked()
	program := s.currentProgram
	s.mu.Unlock()
	s.notify(Event{Kind: EventReset, Program: program})
}

// LoadProgram empties the conversation and makes name the current program.
// The name is not required to exist in the program list.
func (s *Session) LoadProgram(name string) {
	s.mu.Lock()
	s.truncateLocked()
	s.currentProgram = name
	s.mu.Unlock()
	s.notify(Event{Kind: EventProgramLoaded, Program: name})
}

// ApplyQuickAction appends the action's prefill as a user message, but only
// while the conversation is empty. It reports whether anything was appended.
func (s *Session) ApplyQuickAction(action model.QuickAction) bool {
	msg := model.NewUserMessage(action.Prefill)

	s.mu.Lock()
	if len(s.messages) != 1 {
		s.mu.Unlock()
		return false
	}
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	s.notify(Event{Kind: EventMessageAppended, Message: &msg})
	return true
}

// truncateLocked keeps only the system prompt. Caller holds s.mu.
func (s *Session) truncateLocked() {
	s.messages = s.messages[:1:1]
}

// =============================================================================
// PROGRAM OPERATIONS
// =============================================================================

// FilterPrograms returns the programs whose names contain query, ignoring
// case, most recent first. An empty query matches everything.
//
// The sequence is lazy and restartable: each range re-reads the current list
// and stops after model.MaxVisiblePrograms entries.
func (s *Session) FilterPrograms(query string) iter.Seq[model.Program] {
	needle := cases.Fold().String(query)
	return func(yield func(model.Program) bool) {
		fold := cases.Fold()
		count := 0
		for _, p := range s.Programs() {
			if count == model.MaxVisiblePrograms {
				return
			}
			if needle != "" && !strings.Contains(fold.String(p.Name), needle) {
				continue
			}
			count++
			if !yield(p) {
				return
			}
		}
	}
}

// TouchProgram marks name as used at now and re-sorts the list.
// Unknown names are ignored.
func (s *Session) TouchProgram(name string, now time.Time) {
	s.mu.Lock()
	found := false
	for i := range s.programs {
		if s.programs[i].Name == name {
			s.programs[i].LastUsedAt = now
			found = true
			break
		}
	}
	if found {
		sortPrograms(s.programs)
	}
	s.mu.Unlock()

	if found {
		s.notify(Event{Kind: EventProgramsChanged, Program: name})
	}
}

// sortPrograms orders by LastUsedAt descending; ties keep their order.
func sortPrograms(programs []model.Program) {
	sort.SliceStable(programs, func(i, j int) bool {
		return programs[i].LastUsedAt.After(programs[j].LastUsedAt)
	})
}
