// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jeranaias/playground-tui/internal/config"
	"github.com/jeranaias/playground-tui/internal/session"
	"github.com/jeranaias/playground-tui/internal/ui/app"
	"github.com/jeranaias/playground-tui/internal/ui/styles"
)

// runTUI starts the full-screen interface.
func runTUI(ctx context.Context, opts *rootOptions) error {
	if !IsTTY() || !IsStdoutTTY() {
		return usageErrorf("the interface needs a terminal; use 'playground chat' for piped input")
	}

	e, err := opts.openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	theme := styles.NewThemeWithMode(app.ResolveTheme(ctx, e.store, e.cfg))
	ctrl := session.New(e.client, session.WithLogger(e.logger.Named("session")))

	a := app.New(app.Deps{
		Config:     e.cfg,
		Gate:       e.gate,
		Controller: ctrl,
		Theme:      theme,
		Prefs:      e.store,
		ExportDir:  filepath.Join(dir, "exports"),
		Context:    ctx,
		Logger:     e.logger,
	})

	e.logger.Info("starting interface", zap.String("version", Version))
	if err := app.Run(ctx, a, e.configPath); err != nil {
		return fmt.Errorf("interface exited: %w", err)
	}
	return nil
}
