// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the structured zap logger shared by the TUI, the
// line-mode chat and the development backend.
//
// Logs are JSON lines with an ISO8601 "timestamp" key, written to a
// lumberjack-rotated file under the config directory. The TUI never logs
// to the terminal it is drawing on; the dev server additionally tees to
// stderr.
package logging
