// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for neuralcode.
//
// Supports TOML, YAML and JSON configuration formats, with sensible defaults,
// environment variable overrides (including a .env file), validation and
// live reload.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - BackendConfig: Which chat backend to use and where it listens
//   - ServerConfig: Local HTTP API settings
//   - ArchiveConfig: Transcript archive settings
//   - Watcher: Reloads the config file when it changes
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (NEURALCODE_*), after loading ./.env
//   - ~/.neuralcode/config.toml (or config.yaml, config.json)
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	sess := session.New(session.WithSettings(cfg.Settings()))
package config
