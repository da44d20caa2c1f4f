// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/playground-tui/internal/auth"
	"github.com/jeranaias/playground-tui/internal/config"
	"github.com/jeranaias/playground-tui/internal/logging"
	"github.com/jeranaias/playground-tui/internal/session"
	"github.com/jeranaias/playground-tui/internal/settings"
	"github.com/jeranaias/playground-tui/internal/storage"
	"github.com/jeranaias/playground-tui/internal/ui/chat"
	"github.com/jeranaias/playground-tui/internal/ui/components"
	"github.com/jeranaias/playground-tui/internal/ui/styles"
)

// Prefs persists UI preferences between runs.
type Prefs interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Deps are the collaborators the app is built from.
type Deps struct {
	Config     *config.Config
	Gate       *auth.Gate
	Controller *session.Controller
	Theme      *styles.Theme

	// Prefs stores the theme choice. Optional.
	Prefs Prefs

	// Clipboard defaults to the system clipboard.
	Clipboard *components.Clipboard

	// ExportDir receives shared conversations.
	ExportDir string

	// Context parents chat and feedback requests. Defaults to
	// context.Background.
	Context context.Context

	Logger *zap.Logger
}

// =============================================================================
// APP MODEL
// =============================================================================

// App is the root model.
type App struct {
	cfg      *config.Config
	gate     *auth.Gate
	prefs    Prefs
	theme    *styles.Theme
	settings *settings.Settings
	logger   *zap.Logger

	requested auth.Route
	width     int
	height    int

	login   *components.LoginForm
	header  *components.Header
	sidebar *components.Sidebar
	drawer  *components.SettingsDrawer
	status  *components.StatusBar
	chat    chat.Model

	page        components.NavID
	showSidebar bool
	notice      string
}

// New builds the app. The gate starts in its loading state; Init checks
// the stored token.
func New(deps Deps) *App {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := deps.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}
	logger := logging.OrNop(deps.Logger)

	s := settings.FromConfig(cfg.Defaults)

	a := &App{
		cfg:         cfg,
		gate:        deps.Gate,
		prefs:       deps.Prefs,
		theme:       theme,
		settings:    &s,
		logger:      logger,
		requested:   auth.RouteLoading,
		login:       components.NewLoginForm(theme),
		header:      components.NewHeader(theme),
		sidebar:     components.NewSidebar(theme),
		status:      components.NewStatusBar(theme),
		page:        components.NavPlayground,
		showSidebar: cfg.UI.ShowSidebar,
	}
	a.drawer = components.NewSettingsDrawer(theme, a.settings)
	a.chat = chat.New(theme, deps.Controller, a.settings, chat.Options{
		Context:        deps.Context,
		RequestTimeout: cfg.Timeout(),
		ExportDir:      deps.ExportDir,
		LineNumbers:    cfg.UI.CodeLineNumbers,
		Clipboard:      deps.Clipboard,
		Logger:         logger.Named("chat"),
	})
	return a
}

// Init starts the stored token check.
func (a *App) Init() tea.Cmd {
	return tea.Batch(gateInitCmd(a.gate), a.chat.Init())
}

// Route returns the screen currently shown.
func (a *App) Route() auth.Route {
	return a.gate.Resolve(a.requested)
}

// Settings returns the settings shared by the drawer and the chat panel.
func (a *App) Settings() *settings.Settings { return a.settings }

// Page returns the dashboard page shown in the main area.
func (a *App) Page() components.NavID { return a.page }

// =============================================================================
// RUN
// =============================================================================

// ResolveTheme picks the startup theme: the last toggled choice if one was
// stored, otherwise the configured mode.
func ResolveTheme(ctx context.Context, prefs Prefs, cfg *config.Config) styles.Mode {
	if prefs != nil {
		stored, err := prefs.Get(ctx, storage.KeyTheme)
		if err == nil {
			if mode, ok := styles.ParseMode(stored); ok {
				return mode
			}
		}
	}
	if cfg != nil {
		if mode, ok := styles.ParseMode(cfg.UI.Theme); ok {
			return mode
		}
	}
	return styles.ModeAuto
}

// Run starts the program on the alternate screen and blocks until it
// exits. When configPath is set, edits to that file are delivered to the
// running app.
func Run(ctx context.Context, a *App, configPath string) error {
	p := tea.NewProgram(a,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if configPath != "" {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			err := config.Watch(watchCtx, configPath, config.DefaultWatchDebounce, func(cfg *config.Config, err error) {
				p.Send(ConfigReloadedMsg{Config: cfg, Err: err})
			})
			if err != nil {
				a.logger.Warn("config watch stopped", zap.String("path", configPath), zap.Error(err))
			}
		}()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
