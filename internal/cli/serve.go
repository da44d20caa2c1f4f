// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/playground-tui/internal/devserver"
	"github.com/jeranaias/playground-tui/internal/logging"
)

type serveOptions struct {
	addr string
	seed []string
}

func newServeCmd(root *rootOptions) *cobra.Command {
	so := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local development backend",
		Long: `serve runs an in-memory stand-in for the chatbot backend with the
same endpoints: /register, /token, /users/me, /api/v1/chatbot/chat,
/api/v1/chatbot/feedback and /health. Accounts live only as long as the
process.`,
		Example: `  playground serve
  playground serve --addr :9000 --user alice:secret`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, root, so)
		},
	}
	cmd.Flags().StringVar(&so.addr, "addr", "", "listen address (default from config, :8000)")
	cmd.Flags().StringArrayVar(&so.seed, "user", nil, "pre-register username:password (repeatable)")
	return cmd
}

func runServe(cmd *cobra.Command, root *rootOptions, so *serveOptions) error {
	root.logWriter = os.Stderr
	cfg, _, err := root.loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(logging.Options{
		File:       cfg.Logging.File,
		Level:      cfg.Logging.Level,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Writer:     root.logWriter,
	})
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer closeLog()

	secret := cfg.Server.JWTSecret
	if secret == "" {
		secret, err = randomSecret()
		if err != nil {
			return err
		}
		logger.Warn("no server.jwt_secret configured; tokens will not survive a restart")
	}

	addr := cfg.Server.Addr
	if so.addr != "" {
		addr = so.addr
	}

	srv, err := devserver.New(devserver.Options{
		Addr:           addr,
		Secret:         secret,
		TokenTTL:       cfg.TokenTTL(),
		RequestTimeout: time.Duration(cfg.Server.RequestTimeout) * time.Second,
		Logger:         logger.Named("devserver"),
	})
	if err != nil {
		return err
	}

	for _, pair := range so.seed {
		username, password, ok := splitPair(pair)
		if !ok {
			return usageErrorf("--user wants username:password, got %q", pair)
		}
		if _, err := srv.Users().Register(username+"@localhost", username, password); err != nil {
			return fmt.Errorf("failed to seed %s: %w", username, err)
		}
		logger.Info("seeded user", zap.String("username", username))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s dev backend on %s (ctrl+c to stop)\n", SuccessStyle.Render("[OK]"), addr)
	return srv.ListenAndServe(cmd.Context())
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func splitPair(s string) (string, string, bool) {
	user, pass, ok := strings.Cut(s, ":")
	return user, pass, ok && user != "" && pass != ""
}
