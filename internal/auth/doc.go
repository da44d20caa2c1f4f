// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth implements the playground's auth gate.
//
// Gate is the single session-context object: it holds the bearer token
// and the identity returned by /users/me, persists the token in the local
// store under the "token" key, and applies the redirect policy between
// the login route ("/") and the dashboard ("/dashboard").
//
// # Wiring
//
//	gate := auth.NewGate(store, auth.WithLogger(logger))
//	client := apiclient.New(cfg.API.BaseURL, gate) // gate is the TokenSource
//	gate.Attach(client)
//	_ = gate.Init(ctx)
//	route := gate.Resolve(auth.RouteDashboard)
package auth
