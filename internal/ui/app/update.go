// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/playground-tui/internal/apiclient"
	"github.com/jeranaias/playground-tui/internal/auth"
	"github.com/jeranaias/playground-tui/internal/ui/components"
	"github.com/jeranaias/playground-tui/internal/ui/styles"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and updates the model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyPress(msg)

	case gateReadyMsg:
		if msg.err != nil && !errors.Is(msg.err, auth.ErrNoToken) {
			a.logger.Info("starting logged out", zap.Error(msg.err))
		}
		a.requested = auth.RouteLoading
		return a, a.enterRoute()

	case components.LoginSubmitMsg:
		a.login.SetBusy(true)
		a.login.SetError("")
		return a, loginCmd(a.gate, msg)

	case loginDoneMsg:
		a.login.SetBusy(false)
		if msg.err != nil {
			a.logger.Info("login failed", zap.Bool("register", msg.register), zap.Error(msg.err))
			a.login.SetError(loginErrorText(msg.err))
			return a, nil
		}
		a.login.Reset()
		a.requested = auth.RouteDashboard
		return a, a.enterRoute()

	case logoutDoneMsg:
		if msg.err != nil {
			a.logger.Warn("logout could not clear the stored token", zap.Error(msg.err))
		}
		a.chat = a.chat.Clear()
		if a.drawer.IsOpen() {
			a.drawer.Close()
		}
		a.sidebar.SetFocused(false)
		a.showPage(components.NavPlayground)
		a.requested = auth.RouteLogin
		return a, a.enterRoute()

	case themeSavedMsg:
		if msg.err != nil {
			a.logger.Warn("failed to persist theme", zap.Error(msg.err))
		}
		return a, nil

	case ConfigReloadedMsg:
		a.applyConfig(msg)
		return a, nil
	}

	// Everything else (busy ticks, chat results, blink) goes to the panels.
	// Chat results are applied even when the dashboard is not showing.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.chat, cmd = a.chat.Update(msg)
	cmds = append(cmds, cmd)
	if a.Route() == auth.RouteLogin {
		cmds = append(cmds, a.login.Update(msg))
	}
	return a, tea.Batch(cmds...)
}

// =============================================================================
// KEYS
// =============================================================================

func (a *App) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}

	switch a.Route() {
	case auth.RouteLoading:
		return a, nil
	case auth.RouteLogin:
		return a, a.login.Update(msg)
	}
	return a.handleDashboardKey(msg)
}

func (a *App) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+o":
		a.sidebar.SetFocused(false)
		cmd := a.drawer.Toggle()
		a.layout()
		if a.drawer.IsOpen() {
			a.chat.SetFocused(false)
			return a, cmd
		}
		return a, tea.Batch(cmd, a.chat.SetFocused(true))

	case "ctrl+t":
		mode := a.theme.Toggle()
		a.chat.ThemeChanged()
		a.notice = "theme " + string(mode)
		a.logger.Debug("theme toggled", zap.String("mode", string(mode)))
		return a, saveThemeCmd(a.prefs, mode)
	}

	if a.drawer.IsOpen() {
		cmd := a.drawer.Update(msg)
		if !a.drawer.IsOpen() {
			a.layout()
			return a, tea.Batch(cmd, a.chat.SetFocused(true))
		}
		return a, cmd
	}

	switch msg.String() {
	case "ctrl+b":
		if a.sidebar.Focused() {
			a.sidebar.SetFocused(false)
			a.layout()
			return a, a.chat.SetFocused(true)
		}
		a.sidebar.SetFocused(true)
		a.chat.SetFocused(false)
		a.layout()
		return a, nil

	case "ctrl+s", "ctrl+n", "ctrl+y":
		// Chat actions stay reachable from any page.
		var cmd tea.Cmd
		a.chat, cmd = a.chat.Update(msg)
		return a, cmd
	}

	if a.sidebar.Focused() {
		return a.handleSidebarKey(msg)
	}

	if a.page != components.NavPlayground {
		if msg.Type == tea.KeyEsc {
			a.showPage(components.NavPlayground)
			return a, a.chat.SetFocused(true)
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.chat, cmd = a.chat.Update(msg)
	return a, cmd
}

func (a *App) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		a.sidebar.MoveUp()
	case "down", "j":
		a.sidebar.MoveDown()
	case "esc":
		a.sidebar.SetFocused(false)
		a.layout()
		return a, a.chat.SetFocused(true)
	case "enter":
		return a.selectNav(a.sidebar.Select())
	}
	return a, nil
}

func (a *App) selectNav(item components.NavItem) (tea.Model, tea.Cmd) {
	a.sidebar.SetFocused(false)
	switch item.ID {
	case components.NavSettings:
		cmd := a.drawer.Open()
		a.layout()
		return a, cmd
	case components.NavLogout:
		return a, logoutCmd(a.gate)
	}
	a.showPage(item.ID)
	a.layout()
	if item.ID == components.NavPlayground {
		return a, a.chat.SetFocused(true)
	}
	return a, nil
}

// =============================================================================
// ROUTING
// =============================================================================

// enterRoute prepares the screen the gate resolves to.
func (a *App) enterRoute() tea.Cmd {
	switch a.Route() {
	case auth.RouteDashboard:
		if user, ok := a.gate.User(); ok {
			a.sidebar.SetUser(user.Username)
			a.chat.SetUser(user.Username)
		}
		a.layout()
		return a.chat.SetFocused(true)
	case auth.RouteLogin:
		a.chat.SetFocused(false)
		return textinput.Blink
	}
	return nil
}

func (a *App) showPage(id components.NavID) {
	a.page = id
	a.sidebar.SetActive(id)
	a.header.Title = pageTitle(id)
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

// applyConfig takes UI changes from a reloaded file. The theme is only
// switched when the file's value changed, so a toggle made in the app
// survives unrelated edits.
func (a *App) applyConfig(msg ConfigReloadedMsg) {
	if msg.Err != nil {
		a.logger.Warn("config reload failed", zap.Error(msg.Err))
		a.notice = "config reload failed"
		return
	}
	if msg.Config == nil {
		return
	}

	prev := a.cfg
	a.cfg = msg.Config
	if prev == nil || prev.UI.Theme != msg.Config.UI.Theme {
		if mode, ok := styles.ParseMode(msg.Config.UI.Theme); ok {
			a.theme.SetMode(mode)
			a.chat.ThemeChanged()
		}
	}
	if prev == nil || prev.UI.ShowSidebar != msg.Config.UI.ShowSidebar {
		a.showSidebar = msg.Config.UI.ShowSidebar
		a.layout()
	}
	a.notice = "config reloaded"
	a.logger.Info("config reloaded", zap.String("theme", msg.Config.UI.Theme))
}

// =============================================================================
// LAYOUT
// =============================================================================

func (a *App) resize(w, h int) {
	a.width, a.height = w, h
	a.theme.SetSize(w, h)
	a.login.SetSize(w, h)
	a.header.SetWidth(w)
	a.status.Width = w
	a.layout()
}

// bodySizes returns the column widths of sidebar, main area and drawer,
// and the body height.
func (a *App) bodySizes() (sidebar, main, drawer, height int) {
	height = a.height - lipgloss.Height(a.header.View()) - 1
	if height < 1 {
		height = 1
	}

	if a.showSidebar || a.sidebar.Focused() {
		sidebar = a.theme.SidebarWidth()
		if sidebar == 0 && a.sidebar.Focused() {
			sidebar = 18
		}
	}
	if a.drawer.IsOpen() {
		drawer = a.theme.DrawerWidth()
		if drawer > a.width-sidebar {
			drawer = a.width - sidebar
		}
	}
	main = a.width - sidebar - drawer
	if main < 0 {
		main = 0
	}
	return sidebar, main, drawer, height
}

func (a *App) layout() {
	if a.width == 0 {
		return
	}
	_, main, drawer, height := a.bodySizes()
	a.sidebar.SetHeight(height)
	a.drawer.SetWidth(drawer)
	if main > 0 {
		a.chat.SetSize(main, height)
	}
}

// =============================================================================
// ERRORS
// =============================================================================

// loginErrorText turns a gate error into the message shown on the form.
func loginErrorText(err error) string {
	var apiErr *apiclient.APIError
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		return "Username and password are required"
	case errors.Is(err, auth.ErrUnauthorized):
		return "Incorrect username or password"
	case errors.As(err, &apiErr) && apiErr.Detail != "" && apiErr.Detail[0] != '[':
		return apiErr.Detail
	case errors.As(err, &apiErr):
		return "The server rejected the request"
	default:
		return "Could not reach the server"
	}
}
