// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/jeranaias/playground-tui/internal/apiclient"
	"github.com/jeranaias/playground-tui/internal/config"
)

// gateReadyMsg reports that the stored token check finished.
type gateReadyMsg struct {
	err error
}

// loginDoneMsg carries the result of a login or registration.
type loginDoneMsg struct {
	user     apiclient.User
	register bool
	err      error
}

// logoutDoneMsg reports that the token was forgotten.
type logoutDoneMsg struct {
	err error
}

// themeSavedMsg reports the result of persisting the theme choice.
type themeSavedMsg struct {
	err error
}

// ConfigReloadedMsg delivers a configuration re-read after the file
// changed on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}
