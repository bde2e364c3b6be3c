// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across neuralcode packages.
//
// # Key Functions
//
//   - AtomicWriteFile: Crash-safe file replacement (config, exports, history)
//   - TruncateWidth: Cut a string to a maximum terminal width
//   - PadWidth: Right-pad a string to a terminal column width
package util
