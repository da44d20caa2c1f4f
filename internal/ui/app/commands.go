// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/playground-tui/internal/auth"
	"github.com/jeranaias/playground-tui/internal/storage"
	"github.com/jeranaias/playground-tui/internal/ui/components"
	"github.com/jeranaias/playground-tui/internal/ui/styles"
)

// authTimeout bounds the identity calls made from the UI.
const authTimeout = 30 * time.Second

func gateInitCmd(gate *auth.Gate) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()
		return gateReadyMsg{err: gate.Init(ctx)}
	}
}

func loginCmd(gate *auth.Gate, req components.LoginSubmitMsg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()
		if req.Register {
			user, err := gate.Register(ctx, req.Email, req.Username, req.Password)
			return loginDoneMsg{user: user, register: true, err: err}
		}
		user, err := gate.Login(ctx, req.Username, req.Password)
		return loginDoneMsg{user: user, err: err}
	}
}

func logoutCmd(gate *auth.Gate) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return logoutDoneMsg{err: gate.Logout(ctx)}
	}
}

func saveThemeCmd(prefs Prefs, mode styles.Mode) tea.Cmd {
	if prefs == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return themeSavedMsg{err: prefs.Set(ctx, storage.KeyTheme, string(mode))}
	}
}
