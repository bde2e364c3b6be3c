// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with Ollama API.
package ollama

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"time"
)

// maxLineSize bounds a single NDJSON line. Ollama lines are small; this only
// guards against a misbehaving server.
const maxLineSize = 1 << 20

// =============================================================================
// STREAM READER
// =============================================================================

// StreamReader handles line-by-line JSON parsing of streaming responses.
// It is not safe for concurrent use.
type StreamReader struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	done    bool
	stats   StreamStats
}

// NewStreamReader creates a new stream reader from a response body.
func NewStreamReader(body io.ReadCloser) *StreamReader {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &StreamReader{
		body:    body,
		scanner: scanner,
		stats:   StreamStats{StartTime: time.Now()},
	}
}

// Next returns the next chunk. It returns io.EOF after the final chunk
// (done: true) or when the body ends. Malformed lines are skipped; an
// {"error": ...} line is returned as a *ClientError.
func (s *StreamReader) Next() (StreamChunk, error) {
	if s.done {
		return StreamChunk{}, io.EOF
	}

	for s.scanner.Scan() {
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var resp chatStreamLine
		if err := json.Unmarshal(line, &resp); err != nil {
			// Skip malformed lines
			continue
		}

		if resp.Error != "" {
			s.done = true
			return StreamChunk{}, &ClientError{Type: ErrTypeStream, Message: resp.Error}
		}

		chunk := StreamChunk{
			Content: resp.Message.Content,
			Model:   resp.Model,
			Done:    resp.Done,
		}
		if chunk.Content != "" {
			s.stats.recordToken()
		}

		if resp.Done {
			chunk.DoneReason = resp.DoneReason
			chunk.TotalDuration = time.Duration(resp.TotalDuration)
			chunk.EvalDuration = time.Duration(resp.EvalDuration)
			chunk.PromptTokens = resp.PromptEvalCount
			chunk.CompletionTokens = resp.EvalCount
			s.stats.finish(chunk)
			s.done = true
		}
		return chunk, nil
	}

	s.done = true
	if err := s.scanner.Err(); err != nil {
		return StreamChunk{}, &ClientError{Type: ErrTypeStream, Message: "stream interrupted", Cause: err}
	}
	s.stats.EndTime = time.Now()
	return StreamChunk{}, io.EOF
}

// Close releases the response body.
func (s *StreamReader) Close() error {
	s.done = true
	return s.body.Close()
}

// Stats returns statistics gathered so far.
func (s *StreamReader) Stats() StreamStats {
	return s.stats
}

// =============================================================================
// STREAM STATISTICS
// =============================================================================

// StreamStats holds statistics collected during streaming.
type StreamStats struct {
	StartTime      time.Time
	FirstTokenTime time.Time
	EndTime        time.Time

	// Token counts (from the final chunk when present)
	Fragments        int
	PromptTokens     int
	CompletionTokens int

	// Computed
	TTFT            time.Duration // Time to first token
	TokensPerSecond float64
}

func (s *StreamStats) recordToken() {
	s.Fragments++
	if s.FirstTokenTime.IsZero() {
		s.FirstTokenTime = time.Now()
		s.TTFT = s.FirstTokenTime.Sub(s.StartTime)
	}
}

func (s *StreamStats) finish(final StreamChunk) {
	s.EndTime = time.Now()
	s.PromptTokens = final.PromptTokens
	s.CompletionTokens = final.CompletionTokens
	if final.EvalDuration > 0 {
		s.TokensPerSecond = float64(final.CompletionTokens) / final.EvalDuration.Seconds()
	}
}
