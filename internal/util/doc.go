// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across the playground.
//
// # Key Functions
//
// Text (cell-width aware, via go-runewidth):
//   - Truncate: cut to a display width with an ellipsis
//   - PadRight: fixed-width columns for the sidebar and status bar
//   - Preview: one-line summary of a message
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	label := util.PadRight(item.Label, 14)
//	if err := util.AtomicWriteFile(path, data, 0600); err != nil { ... }
package util
