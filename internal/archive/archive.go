// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package archive stores finished chat exchanges in a local SQLite database.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jeranaias/neuralcode/internal/model"
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("archive closed")

// Store is a SQLite-backed transcript archive. Record and Recent may be
// called concurrently; Close must not race with them.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive at path and applies the schema.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer; also keeps :memory: databases on a single connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := db.Exec(
		`INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', ?)`,
		strconv.Itoa(SchemaVersion),
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to write schema version: %w", err)
	}

	return &Store{db: db}, nil
}

// Record stores one exchange. It satisfies driver.Recorder.
func (s *Store) Record(ctx context.Context, ex model.Exchange) error {
	if s.db == nil {
		return ErrClosed
	}
	at := ex.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exchanges (session_id, program, model, prompt, reply, failed, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ex.SessionID, ex.Program, ex.Model, ex.Prompt, ex.Reply, boolToInt(ex.Failed), at.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to record exchange: %w", err)
	}
	return nil
}

// Recent returns up to limit exchanges, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]model.Exchange, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, program, model, prompt, reply, failed, at
		 FROM exchanges ORDER BY at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchanges: %w", err)
	}
	defer rows.Close()

	var out []model.Exchange
	for rows.Next() {
		var (
			ex     model.Exchange
			failed int
			at     int64
		)
		if err := rows.Scan(&ex.SessionID, &ex.Program, &ex.Model, &ex.Prompt, &ex.Reply, &failed, &at); err != nil {
			return nil, fmt.Errorf("failed to scan exchange: %w", err)
		}
		ex.Failed = failed != 0
		ex.At = time.Unix(0, at)
		out = append(out, ex)
	}
	return out, rows.Err()
}

// Count returns the number of archived exchanges.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, ErrClosed
	}
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exchanges`).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
