// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package driver runs one streaming chat exchange against a session.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/jeranaias/neuralcode/internal/backend"
	"github.com/jeranaias/neuralcode/internal/model"
	"github.com/jeranaias/neuralcode/internal/session"
)

// HistoryWindow is how many of the latest messages follow the system prompt.
const HistoryWindow = 10

// CursorMarker is appended to in-progress text. It is display-only.
const CursorMarker = "▌"

// =============================================================================
// TYPES
// =============================================================================

// Update is a snapshot of the reply for the renderer.
type Update struct {
	// Text is the accumulated reply. While InProgress it ends with CursorMarker.
	Text string

	// InProgress is true for every snapshot before the last.
	InProgress bool

	// Done marks the final snapshot of an exchange.
	Done bool

	// Err is set on the final snapshot of a failed exchange.
	Err error
}

// Publisher receives updates in order on the driver's goroutine.
type Publisher func(Update)

// Result is the outcome of one exchange.
type Result struct {
	// Reply is the assistant message appended to the session.
	Reply model.Message

	// Err is a *BackendCallFailure when the backend failed.
	Err error

	// Fragments is how many fragments were consumed.
	Fragments int

	Duration time.Duration
}

// Recorder receives every finished exchange. Errors are logged only.
type Recorder interface {
	Record(ctx context.Context, ex model.Exchange) error
}

// =============================================================================
// ERRORS
// =============================================================================

// BackendCallFailure covers every way a chat call can fail: connection
// setup, a model error, or a broken stream.
type BackendCallFailure struct {
	// Op is "chat" for setup failures and "stream" for mid-stream failures.
	Op  string
	Err error
}

func (e *BackendCallFailure) Error() string {
	if e.Err == nil {
		return "backend call failed"
	}
	return e.Err.Error()
}

func (e *BackendCallFailure) Unwrap() error {
	return e.Err
}

// IsBackendCallFailure reports whether err is or wraps a BackendCallFailure.
func IsBackendCallFailure(err error) bool {
	var f *BackendCallFailure
	return errors.As(err, &f)
}

// =============================================================================
// DRIVER
// =============================================================================

// Driver runs chat exchanges. It adds no retries, timeouts or cancellation.
type Driver struct {
	backend  backend.Backend
	recorder Recorder
	clock    func() time.Time
}

// Option configures a Driver.
type Option func(*Driver)

// WithRecorder archives every finished exchange.
func WithRecorder(r Recorder) Option {
	return func(d *Driver) {
		d.recorder = r
	}
}

// WithClock overrides the time used to touch the current program.
func WithClock(clock func() time.Time) Option {
	return func(d *Driver) {
		d.clock = clock
	}
}

// New creates a driver over b.
func New(b backend.Backend, opts ...Option) *Driver {
	d := &Driver{backend: b, clock: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Backend returns the backend in use.
func (d *Driver) Backend() backend.Backend {
	return d.backend
}

// TrimHistory returns the system prompt followed by the last HistoryWindow
// messages of the whole history. A history no longer than the window is sent
// whole after the prompt, so the prompt then appears twice. The input is not
// modified.
func TrimHistory(msgs []model.Message) []model.Message {
	if len(msgs) == 0 {
		return nil
	}
	rest := msgs
	if len(msgs) > HistoryWindow {
		rest = msgs[len(msgs)-HistoryWindow:]
	}
	out := make([]model.Message, 0, 1+len(rest))
	out = append(out, msgs[0])
	return append(out, rest...)
}

// Send appends text as a user message and runs the exchange.
func (d *Driver) Send(ctx context.Context, sess *session.Session, text string, pub Publisher) Result {
	if err := sess.AppendMessage(model.NewUserMessage(text)); err != nil {
		log.Printf("APPEND_FAIL | role=user err=%v", err)
	}
	return d.Run(ctx, sess, pub)
}

// Run streams a reply to the session's current history.
//
// On success the final text is appended as an assistant message. On failure
// any partial text is discarded and an "Error: ..." message is appended
// instead. Either way exactly one assistant message is added and the final
// Update has Done set.
func (d *Driver) Run(ctx context.Context, sess *session.Session, pub Publisher) Result {
	if pub == nil {
		pub = func(Update) {}
	}

	settings := sess.Settings()
	trimmed := TrimHistory(sess.Messages())
	start := time.Now()

	log.Printf("CHAT_START | backend=%s model=%s messages=%d", d.backend.Name(), settings.ModelID, len(trimmed))

	text, fragments, err := d.stream(ctx, backend.Request{
		Model:       settings.ModelID,
		Messages:    trimmed,
		Temperature: settings.Temperature,
		NumPredict:  settings.MaxTokens,
	}, pub)

	res := Result{Fragments: fragments, Duration: time.Since(start)}
	if err != nil {
		res.Err = err
		res.Reply = model.NewErrorMessage(err)
		log.Printf("CHAT_FAIL | op=%s fragments=%d err=%v", err.Op, fragments, err.Err)
	} else {
		res.Reply = model.NewAssistantMessage(text)
		log.Printf("CHAT_DONE | chars=%d fragments=%d duration=%s", len(text), fragments, res.Duration.Round(time.Millisecond))
	}

	if err := sess.AppendMessage(res.Reply); err != nil {
		log.Printf("APPEND_FAIL | role=%s err=%v", res.Reply.Role, err)
	}
	pub(Update{Text: res.Reply.Content, Done: true, Err: res.Err})

	sess.TouchProgram(sess.CurrentProgram(), d.clock())
	d.record(ctx, sess, settings.ModelID, trimmed, res)

	return res
}

// stream consumes the backend reply. A panicking backend is reported as a
// failure like any other.
func (d *Driver) stream(ctx context.Context, req backend.Request, pub Publisher) (text string, fragments int, failure *BackendCallFailure) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			failure = &BackendCallFailure{Op: "stream", Err: fmt.Errorf("backend panic: %v", r)}
		}
	}()

	stream, err := d.backend.Chat(ctx, req)
	if err != nil {
		return "", 0, &BackendCallFailure{Op: "chat", Err: err}
	}
	defer stream.Close()

	var acc strings.Builder
	for {
		frag, err := stream.Recv()
		if err == io.EOF {
			return acc.String(), fragments, nil
		}
		if err != nil {
			return "", fragments, &BackendCallFailure{Op: "stream", Err: err}
		}
		fragments++
		acc.WriteString(frag.Content)
		pub(Update{Text: acc.String() + CursorMarker, InProgress: true})
	}
}

func (d *Driver) record(ctx context.Context, sess *session.Session, modelID string, trimmed []model.Message, res Result) {
	if d.recorder == nil {
		return
	}
	ex := model.Exchange{
		SessionID: sess.ID(),
		Program:   sess.CurrentProgram(),
		Model:     modelID,
		Prompt:    lastUserContent(trimmed),
		Reply:     res.Reply.Content,
		Failed:    res.Err != nil,
		At:        d.clock(),
	}
	if err := d.recorder.Record(ctx, ex); err != nil {
		log.Printf("ARCHIVE_WRITE_FAIL | session=%s err=%v", ex.SessionID, err)
	}
}

func lastUserContent(msgs []model.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == model.RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}
