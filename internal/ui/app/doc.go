// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root Bubble Tea model of the playground.
//
// It owns routing between the login screen ("/") and the dashboard
// ("/dashboard"), deferring every decision to auth.Gate.Resolve. While the
// gate checks the stored token the app shows a loading screen.
//
// The dashboard composes the header, the sidebar, the chat panel and the
// settings drawer. The drawer and the chat panel share one
// *settings.Settings, so a change in the drawer applies to the next
// submission.
package app
