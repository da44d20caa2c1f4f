// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const authTimeout = 30 * time.Second

// =============================================================================
// LOGIN
// =============================================================================

type loginOptions struct {
	username      string
	email         string
	register      bool
	passwordStdin bool
}

func newLoginCmd(root *rootOptions) *cobra.Command {
	lo := &loginOptions{}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the access token",
		Example: `  playground login
  playground login -u alice
  echo "$PASSWORD" | playground login -u alice --password-stdin
  playground login --register -u alice --email alice@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogin(cmd, root, lo)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&lo.username, "username", "u", "", "username or email")
	f.StringVar(&lo.email, "email", "", "email address (with --register)")
	f.BoolVar(&lo.register, "register", false, "create the account first")
	f.BoolVar(&lo.passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func runLogin(cmd *cobra.Command, root *rootOptions, lo *loginOptions) error {
	if lo.register && strings.TrimSpace(lo.email) == "" {
		return usageErrorf("--register needs --email")
	}

	in := cmd.InOrStdin()
	out := cmd.OutOrStdout()
	interactive := !lo.passwordStdin && in == os.Stdin && IsTTY()

	username := strings.TrimSpace(lo.username)
	if username == "" {
		if !interactive {
			return usageErrorf("--username is required when stdin is not a terminal")
		}
		name, err := promptLine("Username: ")
		if err != nil {
			return err
		}
		username = strings.TrimSpace(name)
	}

	var password string
	var err error
	if interactive {
		password, err = readSecret(in, out, "Password: ")
	} else {
		password, err = readLine(bufio.NewReader(in))
	}
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	e, err := root.openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), authTimeout)
	defer cancel()

	if lo.register {
		user, err := e.gate.Register(ctx, lo.email, username, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s registered and signed in as %s\n", SuccessStyle.Render("[OK]"), user.Username)
		return nil
	}

	user, err := e.gate.Login(ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s signed in as %s\n", SuccessStyle.Render("[OK]"), user.Username)
	return nil
}

// promptLine reads one line with liner's editing.
func promptLine(prompt string) (string, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	s, err := line.Prompt(prompt)
	if err == liner.ErrPromptAborted {
		return "", fmt.Errorf("aborted")
	}
	return s, err
}

// =============================================================================
// LOGOUT / WHOAMI
// =============================================================================

func newLogoutCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := root.openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.gate.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := root.openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), authTimeout)
			defer cancel()
			user, err := e.requireUser(ctx)
			if err != nil {
				return err
			}
			printUser(cmd.OutOrStdout(), user.Username, user.Email, string(user.ID), e.cfg.API.BaseURL)
			return nil
		},
	}
}

func printUser(w io.Writer, username, email, id, server string) {
	fmt.Fprintln(w, RenderField("Username", username))
	fmt.Fprintln(w, RenderField("Email", email))
	fmt.Fprintln(w, RenderField("ID", id))
	fmt.Fprintln(w, RenderField("Server", server))
}
