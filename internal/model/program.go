// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for messages, programs and settings.
package model

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// DefaultProgramName is the current program after startup and after "new chat".
const DefaultProgramName = "NeuralCode Assistant"

// MaxVisiblePrograms caps how many programs the sidebar lists at once.
const MaxVisiblePrograms = 6

// =============================================================================
// PROGRAM TYPE
// =============================================================================

// Program is a preset in the "Recent Programs" list.
// Names are unique within a list.
type Program struct {
	Name       string    `json:"name"`
	Icon       string    `json:"icon"`
	LastUsedAt time.Time `json:"last_used_at"`
}

// Label returns the icon and name joined for display.
func (p Program) Label() string {
	if p.Icon == "" {
		return p.Name
	}
	return p.Icon + " " + p.Name
}

// RelativeTime renders LastUsedAt relative to now, e.g. "Just now" or "2 hours ago".
func (p Program) RelativeTime(now time.Time) string {
	return RelativeTime(p.LastUsedAt, now)
}

// DefaultPrograms returns the built-in program list with timestamps offset from now.
// The order is the declaration order, not recency; the session store sorts it.
func DefaultPrograms(now time.Time) []Program {
	return []Program{
		{Name: "GPT-4 Analysis", Icon: "🧠", LastUsedAt: now.Add(-2 * time.Hour)},
		{Name: "Code Assistant", Icon: "💻", LastUsedAt: now.Add(-30 * time.Minute)},
		{Name: "Creative Writer", Icon: "✍️", LastUsedAt: now.Add(-1 * time.Hour)},
		{Name: "Data Scientist", Icon: "📊", LastUsedAt: now.Add(-5 * time.Hour)},
		{Name: "Language Tutor", Icon: "🌐", LastUsedAt: now.Add(-24 * time.Hour)},
		{Name: "Math Solver", Icon: "∑", LastUsedAt: now.Add(-48 * time.Hour)},
	}
}

// =============================================================================
// RELATIVE TIME
// =============================================================================

var relTimeMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "Just now", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "1 min %s", DivBy: 1},
	{D: time.Hour, Format: "%d min %s", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "1 hour %s", DivBy: 1},
	{D: humanize.Day, Format: "%d hours %s", DivBy: time.Hour},
	{D: 2 * humanize.Day, Format: "1 day %s", DivBy: 1},
	{D: humanize.Week, Format: "%d days %s", DivBy: humanize.Day},
	{D: 2 * humanize.Week, Format: "1 week %s", DivBy: 1},
	{D: humanize.Month, Format: "%d weeks %s", DivBy: humanize.Week},
	{D: math.MaxInt64, Format: "a long while %s", DivBy: 1},
}

// RelativeTime formats then relative to now using the sidebar's wording.
func RelativeTime(then, now time.Time) string {
	return humanize.CustomRelTime(then, now, "ago", "from now", relTimeMagnitudes)
}
