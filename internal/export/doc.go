// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders chat transcripts to shareable files.
//
// # Key Types
//
//   - Transcript: Snapshot of a session's conversation and settings
//   - Exporter: Format interface (Markdown, JSON, HTML)
//
// # Supported Formats
//
//   - Markdown: YAML frontmatter followed by one section per message
//   - JSON: Machine-readable with full metadata
//   - HTML: Standalone page, message bodies rendered with goldmark
//
// # Usage
//
//	t := export.FromSession(sess)
//	path, err := export.ExportToFile(t, export.NewMarkdownExporter(), dir)
package export
