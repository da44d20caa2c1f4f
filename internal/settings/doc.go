// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package settings holds the playground's generation parameters: model,
// agent type, sampling knobs and the optional system message.
//
// Settings is a plain struct with validating setters. The chat session
// reads a copy at submit time, so changing settings never affects a
// request already in flight.
package settings
