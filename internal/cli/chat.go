// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/playground-tui/internal/config"
	"github.com/jeranaias/playground-tui/internal/export"
	"github.com/jeranaias/playground-tui/internal/session"
	"github.com/jeranaias/playground-tui/internal/settings"
	"github.com/jeranaias/playground-tui/internal/ui/components"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader is the prompt source of the REPL.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

// lineEditor wraps liner with a history file in the config directory.
type lineEditor struct {
	line        *liner.State
	historyFile string
}

func newLineEditor() *lineEditor {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	ed := &lineEditor{line: line, historyFile: filepath.Join(dir, "chat_history")}
	if f, err := os.Open(ed.historyFile); err == nil {
		ed.line.ReadHistory(f)
		f.Close()
	}
	return ed
}

// Prompt reads a line and records it in the history.
func (ed *lineEditor) Prompt(prompt string) (string, error) {
	input, err := ed.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		ed.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves the history with 0600 permissions and restores the terminal.
func (ed *lineEditor) Close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(ed.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			ed.line.WriteHistory(f)
			f.Close()
		}
	}
	ed.line.Close()
}

// =============================================================================
// COMMAND
// =============================================================================

type chatOptions struct {
	model     string
	agentType string
	export    string
}

func newChatCmd(root *rootOptions) *cobra.Command {
	co := &chatOptions{}
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat from a plain terminal",
		Long: `chat is a line-oriented version of the playground. Each line is sent
as a prompt with the conversation so far as history.

Commands:
  /model [id]     show or switch the model
  /agent [id]     show or switch the agent type
  /good, /bad     rate the last reply
  /export [fmt]   write the conversation (markdown or json)
  /clear          start a new conversation
  /help           list commands
  /quit           exit`,
		Example: `  playground chat
  playground chat --model gpt-4o-mini --agent multi_step
  playground chat --export markdown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd, root, co)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&co.model, "model", "m", "", "model id")
	f.StringVarP(&co.agentType, "agent", "a", "", "agent type")
	f.StringVar(&co.export, "export", "", "write the conversation on exit (markdown or json)")
	return cmd
}

func runChat(cmd *cobra.Command, root *rootOptions, co *chatOptions) error {
	if co.export != "" {
		if _, err := export.ForFormat(co.export, nil); err != nil {
			return usageErrorf("%v", err)
		}
	}

	e, err := root.openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	initCtx, cancel := context.WithTimeout(ctx, authTimeout)
	user, err := e.requireUser(initCtx)
	cancel()
	if err != nil {
		return err
	}

	s := settings.FromConfig(e.cfg.Defaults)
	if co.model != "" {
		if err := s.SetModel(co.model); err != nil {
			return usageErrorf("%v", err)
		}
	}
	if co.agentType != "" {
		if err := s.SetAgentType(co.agentType); err != nil {
			return usageErrorf("%v", err)
		}
	}

	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	r := &chatREPL{
		ctrl:      session.New(e.client, session.WithLogger(e.logger.Named("session"))),
		settings:  &s,
		out:       cmd.OutOrStdout(),
		username:  user.Username,
		exportDir: filepath.Join(dir, "exports"),
		logger:    e.logger,
	}
	if ColorsEnabled() {
		r.md = components.NewMarkdownRenderer(min(TerminalWidth(), e.cfg.UI.WordWrap+4), true)
	}

	ed := newLineEditor()
	err = r.run(ctx, ed)
	ed.Close()
	if err != nil {
		return err
	}

	if co.export != "" && r.ctrl.Len() > 0 {
		return r.export(co.export)
	}
	return nil
}

// =============================================================================
// REPL
// =============================================================================

// chatREPL drives a session.Controller from a line reader.
type chatREPL struct {
	ctrl      *session.Controller
	settings  *settings.Settings
	out       io.Writer
	md        *components.MarkdownRenderer
	username  string
	exportDir string
	logger    *zap.Logger
}

// run reads lines until /quit, EOF or ctrl+c.
func (r *chatREPL) run(ctx context.Context, in lineReader) error {
	fmt.Fprintf(r.out, "%s  model %s, agent %s. /help for commands.\n",
		TitleStyle.Render("Playground chat"), r.settings.Model, r.settings.AgentType)

	for {
		line, err := in.Prompt("you> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if quit := r.command(ctx, line); quit {
				return nil
			}
			continue
		}
		r.send(ctx, line)
	}
}

func (r *chatREPL) send(ctx context.Context, prompt string) {
	res, err := r.ctrl.Submit(ctx, prompt, *r.settings)
	if err != nil {
		fmt.Fprintln(r.out, WarningStyle.Render(err.Error()))
		return
	}
	if !res.OK() {
		fmt.Fprintf(r.out, "%s %v\n", ErrorStyle.Render("request failed:"), res.Err)
		return
	}
	fmt.Fprintln(r.out, PromptStyle.Render("assistant>"))
	if r.md != nil {
		fmt.Fprintln(r.out, r.md.Render(res.Reply))
	} else {
		fmt.Fprintln(r.out, res.Reply)
	}
	fmt.Fprintln(r.out, DimStyle.Render(fmt.Sprintf("(%s)", res.Duration.Round(time.Millisecond))))
}

// command handles a slash command and reports whether to quit.
func (r *chatREPL) command(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	name, arg := fields[0], ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch name {
	case "/quit", "/exit", "/q":
		return true

	case "/help", "/h":
		fmt.Fprintln(r.out, "/model [id]  /agent [id]  /good  /bad  /export [fmt]  /clear  /quit")

	case "/model":
		if arg == "" {
			fmt.Fprintf(r.out, "model: %s (available: %s)\n", r.settings.Model, strings.Join(settings.ModelIDs(), ", "))
			return false
		}
		if err := r.settings.SetModel(arg); err != nil {
			fmt.Fprintln(r.out, WarningStyle.Render(err.Error()))
			return false
		}
		fmt.Fprintf(r.out, "model set to %s\n", arg)

	case "/agent":
		if arg == "" {
			fmt.Fprintf(r.out, "agent: %s (available: %s)\n", r.settings.AgentType, strings.Join(settings.AgentIDs(), ", "))
			return false
		}
		if err := r.settings.SetAgentType(arg); err != nil {
			fmt.Fprintln(r.out, WarningStyle.Render(err.Error()))
			return false
		}
		fmt.Fprintf(r.out, "agent set to %s: %s\n", arg, r.settings.AgentDescription())

	case "/good", "/bad":
		r.feedback(ctx, name == "/good")

	case "/export":
		format := arg
		if format == "" {
			format = "markdown"
		}
		if err := r.export(format); err != nil {
			fmt.Fprintln(r.out, WarningStyle.Render(err.Error()))
		}

	case "/clear":
		if err := r.ctrl.Reset(); err != nil {
			fmt.Fprintln(r.out, WarningStyle.Render(err.Error()))
			return false
		}
		fmt.Fprintln(r.out, "new conversation")

	default:
		fmt.Fprintf(r.out, "unknown command %s (try /help)\n", name)
	}
	return false
}

func (r *chatREPL) feedback(ctx context.Context, positive bool) {
	msgs := r.ctrl.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].IsAssistant() {
			if err := r.ctrl.SubmitFeedback(ctx, i, positive); err != nil {
				fmt.Fprintln(r.out, WarningStyle.Render(err.Error()))
				return
			}
			fmt.Fprintln(r.out, "feedback sent")
			return
		}
	}
	fmt.Fprintln(r.out, "no reply to rate yet")
}

func (r *chatREPL) export(format string) error {
	opts := export.DefaultOptions()
	opts.OutputDir = r.exportDir
	exp, err := export.ForFormat(format, opts)
	if err != nil {
		return err
	}
	path, err := export.ToFile(export.Document{
		Transcript: r.ctrl.Transcript(),
		Model:      r.settings.Model,
		AgentType:  r.settings.AgentType,
		Username:   r.username,
	}, exp, opts)
	if err != nil {
		return err
	}
	r.logger.Info("conversation exported", zap.String("path", path))
	fmt.Fprintf(r.out, "%s wrote %s\n", SuccessStyle.Render("[OK]"), path)
	return nil
}
