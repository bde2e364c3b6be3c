// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend defines the streaming chat backend used by the driver.
package backend

import (
	"context"
	"io"
	"sync"
)

// Scripted replays a fixed list of fragments. It is used by tests and by
// offline demos.
type Scripted struct {
	Fragments []string

	// SetupErr, when set, is returned by Chat itself.
	SetupErr error

	// FailAfter, when StreamErr is set, is the number of fragments delivered
	// before Recv returns StreamErr.
	FailAfter int
	StreamErr error

	mu       sync.Mutex
	requests []Request
}

// Name implements Backend.
func (s *Scripted) Name() string {
	return "scripted"
}

// Chat implements Backend.
func (s *Scripted) Chat(_ context.Context, req Request) (Stream, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if s.SetupErr != nil {
		return nil, s.SetupErr
	}
	return &scriptedStream{script: s}, nil
}

// Requests returns every request received so far.
func (s *Scripted) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

type scriptedStream struct {
	script *Scripted
	pos    int
	closed bool
}

func (st *scriptedStream) Recv() (Fragment, error) {
	s := st.script
	if s.StreamErr != nil && st.pos == s.FailAfter {
		return Fragment{}, s.StreamErr
	}
	if st.closed || st.pos >= len(s.Fragments) {
		return Fragment{}, io.EOF
	}
	frag := Fragment{Content: s.Fragments[st.pos]}
	st.pos++
	return frag, nil
}

func (st *scriptedStream) Close() error {
	st.closed = true
	return nil
}
