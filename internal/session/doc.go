// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session implements the chat session controller: the one piece of
// the playground with real state transitions.
//
// A submission goes Idle → Sending → Idle. While Sending, exactly one
// pending assistant placeholder exists and further submissions are
// rejected with ErrBusy. On success the placeholder is replaced by the
// backend's reply; on failure it is discarded and the user's message is
// left in place so it can be resubmitted.
//
// # Usage
//
// From a Bubble Tea model, split the submission so Update never blocks:
//
//	req, err := ctrl.Begin(text, settings)   // in Update
//	res := ctrl.Run(ctx, req)                // inside a tea.Cmd
//	ctrl.Resolve(res)                        // in Update, on the result msg
//
// From blocking code:
//
//	res, err := ctrl.Submit(ctx, text, settings)
package session
