// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat messages and the
// in-memory transcript of a playground session.
//
// # Key Types
//
//   - Role: user, assistant (and system, for the settings drawer)
//   - Message: an immutable transcript entry with a UUID
//   - Transcript: ordered, append-only message history
package model
