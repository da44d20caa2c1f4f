// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a playground transcript to Markdown or JSON. It
// backs the header's Share action and `playground chat --export`.
//
// Exports are one-off files; the session itself is never persisted.
package export
