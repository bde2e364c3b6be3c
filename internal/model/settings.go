// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for messages, programs and settings.
package model

import (
	"fmt"
	"math"
)

// Slider bounds for the generation settings.
const (
	MinTemperature     = 0.0
	MaxTemperature     = 1.0
	TemperatureStep    = 0.1
	DefaultTemperature = 0.2

	MinMaxTokens     = 256
	MaxMaxTokens     = 2048
	MaxTokensStep    = 256
	DefaultMaxTokens = 1024
)

// =============================================================================
// SETTINGS TYPE
// =============================================================================

// Settings holds the generation parameters sent with every chat request.
// It is a plain value; nothing persists it.
type Settings struct {
	Temperature float64 `json:"temperature" toml:"temperature" yaml:"temperature"`
	MaxTokens   int     `json:"max_tokens" toml:"max_tokens" yaml:"max_tokens"`
	ModelID     string  `json:"model" toml:"model" yaml:"model"`
}

// DefaultSettings returns the slider defaults and the first supported model.
func DefaultSettings() Settings {
	return Settings{
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		ModelID:     DefaultModelID,
	}
}

// SettingsError describes a single out-of-range setting.
type SettingsError struct {
	Field  string
	Value  interface{}
	Reason string
}

// Error implements the error interface.
func (e *SettingsError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Validate checks every field against its allowed range or set.
// It returns the first violation found.
func (s Settings) Validate() error {
	if math.IsNaN(s.Temperature) || s.Temperature < MinTemperature || s.Temperature > MaxTemperature {
		return &SettingsError{
			Field:  "temperature",
			Value:  s.Temperature,
			Reason: fmt.Sprintf("must be between %.1f and %.1f", MinTemperature, MaxTemperature),
		}
	}
	if s.MaxTokens < MinMaxTokens || s.MaxTokens > MaxMaxTokens {
		return &SettingsError{
			Field:  "max_tokens",
			Value:  s.MaxTokens,
			Reason: fmt.Sprintf("must be between %d and %d", MinMaxTokens, MaxMaxTokens),
		}
	}
	if !IsSupportedModel(s.ModelID) {
		return &SettingsError{
			Field:  "model",
			Value:  s.ModelID,
			Reason: "not a supported model",
		}
	}
	return nil
}

// =============================================================================
// SLIDER STEPS
// =============================================================================

// TemperatureUp raises the temperature by one step, clamped to the maximum.
func (s Settings) TemperatureUp() Settings {
	s.Temperature = clampTemperature(s.Temperature + TemperatureStep)
	return s
}

// TemperatureDown lowers the temperature by one step, clamped to the minimum.
func (s Settings) TemperatureDown() Settings {
	s.Temperature = clampTemperature(s.Temperature - TemperatureStep)
	return s
}

// MaxTokensUp raises the token limit by one step, clamped to the maximum.
func (s Settings) MaxTokensUp() Settings {
	s.MaxTokens = clampTokens(s.MaxTokens + MaxTokensStep)
	return s
}

// MaxTokensDown lowers the token limit by one step, clamped to the minimum.
func (s Settings) MaxTokensDown() Settings {
	s.MaxTokens = clampTokens(s.MaxTokens - MaxTokensStep)
	return s
}

// NextModel cycles to the next supported model.
func (s Settings) NextModel() Settings {
	ids := ModelIDs()
	for i, id := range ids {
		if id == s.ModelID {
			s.ModelID = ids[(i+1)%len(ids)]
			return s
		}
	}
	s.ModelID = ids[0]
	return s
}

// clampTemperature snaps to one decimal place so repeated steps do not drift.
func clampTemperature(t float64) float64 {
	t = math.Round(t*10) / 10
	return math.Max(MinTemperature, math.Min(MaxTemperature, t))
}

func clampTokens(n int) int {
	if n < MinMaxTokens {
		return MinMaxTokens
	}
	if n > MaxMaxTokens {
		return MaxMaxTokens
	}
	return n
}
