// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/playground-tui/internal/apiclient"
	"github.com/jeranaias/playground-tui/internal/auth"
	"github.com/jeranaias/playground-tui/internal/config"
	"github.com/jeranaias/playground-tui/internal/logging"
	"github.com/jeranaias/playground-tui/internal/storage"
)

// =============================================================================
// CONFIG
// =============================================================================

// resolveConfigPath returns --config or the default location.
func (o *rootOptions) resolveConfigPath() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	return config.ConfigPath()
}

// loadConfig reads the config file and applies the global flags.
func (o *rootOptions) loadConfig() (*config.Config, string, error) {
	path, err := o.resolveConfigPath()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return nil, "", err
	}
	if o.apiURL != "" {
		cfg.API.BaseURL = strings.TrimRight(o.apiURL, "/")
	}
	if o.verbose {
		cfg.Logging.Level = "debug"
	}
	config.SetGlobal(cfg)
	return cfg, path, nil
}

// =============================================================================
// SESSION ENVIRONMENT
// =============================================================================

// env is everything a command needs to talk to the backend as the stored
// user: config, logger, token store, gate and client.
type env struct {
	cfg        *config.Config
	configPath string
	logger     *zap.Logger
	store      *storage.Store
	gate       *auth.Gate
	client     *apiclient.Client

	closeLog func() error
}

// openEnv loads config, opens the log file and the token store, and wires
// the gate to a client that authenticates through it.
func (o *rootOptions) openEnv() (*env, error) {
	cfg, path, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.New(logging.Options{
		File:       cfg.Logging.File,
		Level:      cfg.Logging.Level,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Writer:     o.logWriter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	logging.SetGlobal(logger)

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	gate := auth.NewGate(store, auth.WithLogger(logger.Named("auth")))
	client := apiclient.New(cfg.API.BaseURL, gate).
		WithTimeout(cfg.Timeout()).
		WithFeedbackLimit(cfg.API.FeedbackPerSec, 1).
		WithLogger(logger.Named("api"))
	gate.Attach(client)

	logger.Debug("environment ready",
		zap.String("config", path),
		zap.String("api", cfg.API.BaseURL),
		zap.String("store", cfg.Storage.Path))

	return &env{
		cfg:        cfg,
		configPath: path,
		logger:     logger,
		store:      store,
		gate:       gate,
		client:     client,
		closeLog:   closeLog,
	}, nil
}

// requireUser restores the stored session or explains how to get one.
func (e *env) requireUser(ctx context.Context) (apiclient.User, error) {
	if err := e.gate.Init(ctx); err != nil {
		return apiclient.User{}, fmt.Errorf("not logged in (run playground login): %w", err)
	}
	user, _ := e.gate.User()
	return user, nil
}

// Close releases the store and flushes the log.
func (e *env) Close() {
	e.gate.Close()
	if err := e.store.Close(); err != nil {
		e.logger.Warn("failed to close store", zap.Error(err))
	}
	_ = e.logger.Sync()
	if e.closeLog != nil {
		_ = e.closeLog()
	}
}
