// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package archive stores finished chat exchanges in a local SQLite database.
package archive

const (
	// SchemaVersion tracks the database schema version for migrations
	SchemaVersion = 1
)

// Schema creates the archive tables.
const Schema = `
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

CREATE TABLE IF NOT EXISTS exchanges (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    program TEXT NOT NULL,
    model TEXT NOT NULL,
    prompt TEXT NOT NULL,
    reply TEXT NOT NULL,
    failed INTEGER NOT NULL DEFAULT 0,
    at INTEGER NOT NULL          -- Unix nanoseconds
);

CREATE INDEX IF NOT EXISTS idx_exchanges_at ON exchanges(at);
CREATE INDEX IF NOT EXISTS idx_exchanges_session ON exchanges(session_id);
`
