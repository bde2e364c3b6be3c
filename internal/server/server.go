// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jeranaias/neuralcode/internal/driver"
	"github.com/jeranaias/neuralcode/internal/model"
	"github.com/jeranaias/neuralcode/internal/session"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultPort is the default listen port.
	DefaultPort = 8787

	// MaxRequestBodySize caps every request body (1MB).
	MaxRequestBodySize = 1 << 20

	// MaxPromptLength caps POST /api/chat content.
	MaxPromptLength = 100000

	// NDJSONContentType is the media type of the chat stream.
	NDJSONContentType = "application/x-ndjson"
)

// Version is reported by /health; set by the cli package at startup.
var Version = "dev"

// Config holds the listener and rate limit settings.
type Config struct {
	Port      int
	RateLimit float64
	Burst     int
}

// ============================================================================
// SERVER
// ============================================================================

// Server serves one session.
type Server struct {
	cfg     Config
	router  *http.ServeMux
	server  *http.Server
	limiter *RateLimiter

	sess *session.Session
	drv  *driver.Driver

	busy    atomic.Bool
	started time.Time
}

// New creates a server for sess. Zero config fields take defaults.
func New(sess *session.Session, drv *driver.Driver, cfg Config) *Server {
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultRatePerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}
	s := &Server{
		cfg:     cfg,
		router:  http.NewServeMux(),
		limiter: NewRateLimiter(cfg.RateLimit, cfg.Burst),
		sess:    sess,
		drv:     drv,
		started: time.Now(),
	}
	s.setupRoutes()
	return s
}

// Addr returns the loopback listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("127.0.0.1:%d", s.cfg.Port)
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /api/session", s.handleSession)
	s.router.HandleFunc("GET /api/programs", s.handlePrograms)
	s.router.HandleFunc("POST /api/programs/{name}/load", s.handleLoadProgram)
	s.router.HandleFunc("POST /api/chat/new", s.handleNewChat)
	s.router.HandleFunc("POST /api/chat/clear", s.handleClearChat)
	s.router.HandleFunc("PUT /api/settings", s.handleSettings)
	s.router.HandleFunc("POST /api/quick/{action}", s.handleQuickAction)
	s.router.HandleFunc("POST /api/chat", s.handleChat)
}

// Handler returns the router wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return Chain(
		RecoveryMiddleware(),
		SecurityHeadersMiddleware(),
		LoggingMiddleware(log.Default()),
		RateLimitMiddleware(s.limiter),
	)(s.router)
}

// Start listens on the loopback address until Shutdown.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Printf("SERVER_START | addr=%s version=%s", s.server.Addr, Version)
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the listener and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	log.Printf("SERVER_SHUTDOWN | starting graceful shutdown")
	return s.server.Shutdown(ctx)
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Version:  Version,
		Backend:  s.drv.Backend().Name(),
		Uptime:   time.Since(s.started).Round(time.Second).String(),
		Messages: s.sess.Len(),
	})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	s.writeSession(w, http.StatusOK)
}

func (s *Server) handlePrograms(w http.ResponseWriter, r *http.Request) {
	now := s.sess.Now()
	out := []ProgramResponse{}
	for p := range s.sess.FilterPrograms(r.URL.Query().Get("q")) {
		out = append(out, ProgramResponse{
			Name:         p.Name,
			Icon:         p.Icon,
			LastUsedAt:   p.LastUsedAt,
			RelativeTime: p.RelativeTime(now),
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLoadProgram(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !s.hasProgram(name) {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("unknown program %q", name))
		return
	}
	s.whenIdle(w, func() error { s.sess.LoadProgram(name); return nil })
}

func (s *Server) handleNewChat(w http.ResponseWriter, r *http.Request) {
	s.whenIdle(w, func() error { s.sess.NewChat(); return nil })
}

func (s *Server) handleClearChat(w http.ResponseWriter, r *http.Request) {
	s.whenIdle(w, func() error { s.sess.ClearChat(); return nil })
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	var settings model.Settings
	if !s.decodeBody(w, r, &settings) {
		return
	}
	if err := s.sess.SetSettings(settings); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, s.sess.Settings())
}

func (s *Server) handleQuickAction(w http.ResponseWriter, r *http.Request) {
	action, ok := model.LookupQuickAction(r.PathValue("action"))
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("unknown quick action %q", r.PathValue("action")))
		return
	}
	s.whenIdle(w, func() error {
		if !s.sess.ApplyQuickAction(action) {
			return errChatNotEmpty
		}
		return nil
	})
}

// handleChat streams one exchange as NDJSON. The exchange is not tied to the
// request context; a client that goes away does not cancel it.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		s.writeError(w, http.StatusBadRequest, "content must not be empty")
		return
	}
	if len(content) > MaxPromptLength {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("content exceeds %d bytes", MaxPromptLength))
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}
	if !s.busy.CompareAndSwap(false, true) {
		s.writeError(w, http.StatusConflict, "a chat exchange is already running")
		return
	}
	defer s.busy.Store(false)

	w.Header().Set("Content-Type", NDJSONContentType)
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	enc := json.NewEncoder(w)
	writeFailed := false
	publish := func(u driver.Update) {
		if writeFailed {
			return
		}
		line := StreamLine{Text: u.Text, InProgress: u.InProgress, Done: u.Done}
		if u.Err != nil {
			line.Error = u.Err.Error()
		}
		if err := enc.Encode(line); err != nil {
			log.Printf("STREAM_WRITE_FAIL | ip=%s err=%v", GetClientIP(r), err)
			writeFailed = true
			return
		}
		flusher.Flush()
	}

	s.drv.Send(context.WithoutCancel(r.Context()), s.sess, content, publish)
}

// ============================================================================
// HELPERS
// ============================================================================

// errChatNotEmpty rejects a quick action on a chat that already has turns.
var errChatNotEmpty = errors.New("quick actions only apply to an empty chat")

// whenIdle runs fn holding the busy flag and replies with the session. It
// answers 409 while a chat runs, or when fn fails. handleChat claims the same
// flag, so a reset can never interleave with an exchange.
func (s *Server) whenIdle(w http.ResponseWriter, fn func() error) {
	if !s.busy.CompareAndSwap(false, true) {
		s.writeError(w, http.StatusConflict, "a chat exchange is running")
		return
	}
	err := func() error {
		defer s.busy.Store(false)
		return fn()
	}()
	if err != nil {
		s.writeError(w, http.StatusConflict, err.Error())
		return
	}
	s.writeSession(w, http.StatusOK)
}

func (s *Server) hasProgram(name string) bool {
	for _, p := range s.sess.Programs() {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (s *Server) writeSession(w http.ResponseWriter, status int) {
	s.writeJSON(w, status, SessionResponse{
		ID:             s.sess.ID(),
		CurrentProgram: s.sess.CurrentProgram(),
		Settings:       s.sess.Settings(),
		Messages:       s.sess.Messages(),
		Busy:           s.busy.Load(),
	})
}

// decodeBody decodes a size-limited JSON body, writing 400/413 on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", MaxRequestBodySize))
			return false
		}
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("RESPONSE_ENCODE_FAIL | err=%v", err)
	}
}

// writeError writes an ErrorResponse.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}
