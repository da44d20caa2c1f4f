// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

// Route names a screen of the application.
type Route string

const (
	// RouteLogin is the public entry screen.
	RouteLogin Route = "/"

	// RouteDashboard is the chat playground.
	RouteDashboard Route = "/dashboard"

	// RouteLoading is shown while the stored token is being checked.
	RouteLoading Route = "loading"
)

// Public reports whether r can be viewed without logging in.
func (r Route) Public() bool {
	return r == RouteLogin || r == RouteLoading
}

// Resolve applies the redirect policy to a requested route:
//   - while the gate is still checking the stored token, RouteLoading;
//   - RouteLoading itself resolves to wherever the viewer belongs;
//   - unauthenticated viewers of any protected route go to RouteLogin;
//   - authenticated viewers of RouteLogin go to RouteDashboard;
//   - everything else is shown as requested.
func (g *Gate) Resolve(requested Route) Route {
	if g.Loading() {
		return RouteLoading
	}
	authed := g.Authenticated()
	switch {
	case requested == RouteLoading:
		if authed {
			return RouteDashboard
		}
		return RouteLogin
	case !authed && !requested.Public():
		return RouteLogin
	case authed && requested == RouteLogin:
		return RouteDashboard
	default:
		return requested
	}
}
