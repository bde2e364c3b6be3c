// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for neuralcode.
package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DotEnvFile is loaded into the environment before overrides are read.
// Variables already set in the environment win.
var DotEnvFile = ".env"

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - NEURALCODE_MODEL: overrides chat.model
//   - NEURALCODE_TEMPERATURE: overrides chat.temperature
//   - NEURALCODE_MAX_TOKENS: overrides chat.max_tokens
//   - NEURALCODE_OLLAMA_URL: overrides backend.url
//   - NEURALCODE_BACKEND: overrides backend.driver
//   - NEURALCODE_PORT: overrides server.port
//   - NEURALCODE_ARCHIVE: set to "1" or "true" to enable the archive
//
// Unparseable numbers are logged and ignored.
func (c *Config) ApplyEnvOverrides() {
	if DotEnvFile != "" {
		if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("CONFIG_DOTENV_FAIL | file=%s err=%v", DotEnvFile, err)
		}
	}

	if v := os.Getenv("NEURALCODE_MODEL"); v != "" {
		c.Chat.ModelID = v
	}

	if v := os.Getenv("NEURALCODE_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Chat.Temperature = f
		} else {
			log.Printf("CONFIG_ENV_IGNORED | var=NEURALCODE_TEMPERATURE err=%v", err)
		}
	}

	if v := os.Getenv("NEURALCODE_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Chat.MaxTokens = n
		} else {
			log.Printf("CONFIG_ENV_IGNORED | var=NEURALCODE_MAX_TOKENS err=%v", err)
		}
	}

	if v := os.Getenv("NEURALCODE_OLLAMA_URL"); v != "" {
		c.Backend.URL = v
	}

	if v := os.Getenv("NEURALCODE_BACKEND"); v != "" {
		c.Backend.Driver = strings.ToLower(v)
	}

	if v := os.Getenv("NEURALCODE_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.Port = n
		} else {
			log.Printf("CONFIG_ENV_IGNORED | var=NEURALCODE_PORT err=%v", err)
		}
	}

	if v := os.Getenv("NEURALCODE_ARCHIVE"); v != "" {
		c.Archive.Enabled = v == "1" || strings.ToLower(v) == "true"
	}
}
