// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package archive stores finished chat exchanges in a local SQLite database.
//
// The archive is write-mostly history for the `history` command. Sessions are
// never restored from it.
//
// # Usage
//
//	store, err := archive.Open(cfg.Archive.Path)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//	d := driver.New(b, driver.WithRecorder(store))
package archive
