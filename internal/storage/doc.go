// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the playground's local persisted state: a tiny
// SQLite key/value table (modernc.org/sqlite, no cgo) holding the auth
// token and the theme preference.
//
// The chat transcript is deliberately not stored here; it lives in memory
// for the lifetime of the process.
package storage
