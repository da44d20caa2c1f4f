// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package devserver is a local stand-in for the chatbot backend.
//
// It serves the same routes the client talks to (registration, the OAuth2
// password token exchange, /users/me and the chatbot endpoints) so the
// playground can be developed and tested without the real service. Users
// live in memory and replies come from a Responder per agent type.
//
// Usage:
//
//	srv, err := devserver.New(devserver.Options{Addr: ":8000", Secret: "dev"})
//	if err != nil { ... }
//	err = srv.ListenAndServe(ctx)
package devserver
