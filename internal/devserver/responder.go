// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/playground-tui/internal/apiclient"
	"github.com/jeranaias/playground-tui/internal/util"
)

// Responder produces a reply for one chat request.
type Responder interface {
	Respond(ctx context.Context, req apiclient.ChatRequest) (string, error)
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(ctx context.Context, req apiclient.ChatRequest) (string, error)

// Respond implements Responder.
func (f ResponderFunc) Respond(ctx context.Context, req apiclient.ChatRequest) (string, error) {
	return f(ctx, req)
}

// DefaultResponders returns canned responders for the three agent types.
func DefaultResponders() map[string]Responder {
	return map[string]Responder{
		"simple":       ResponderFunc(simpleReply),
		"prompt_optim": ResponderFunc(promptOptimReply),
		"multi_step":   ResponderFunc(multiStepReply),
	}
}

// simpleReply echoes the prompt with a little context.
func simpleReply(_ context.Context, req apiclient.ChatRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = "default"
	}
	return fmt.Sprintf("**%s** received your message (%d earlier turns):\n\n> %s",
		model, len(req.History), strings.ReplaceAll(req.Prompt, "\n", "\n> ")), nil
}

// promptOptimReply shows a rewritten prompt before answering it.
func promptOptimReply(ctx context.Context, req apiclient.ChatRequest) (string, error) {
	optimized := strings.TrimSpace(req.Prompt)
	if len(req.History) > 0 {
		last := req.History[len(req.History)-1]
		optimized = fmt.Sprintf("%s (following up on: %q)", optimized, util.Preview(util.FirstLine(last.Content), 40))
	}
	if !strings.HasSuffix(optimized, "?") && !strings.HasSuffix(optimized, ".") {
		optimized += "."
	}

	answer, err := simpleReply(ctx, apiclient.ChatRequest{Prompt: optimized, Model: req.Model, History: req.History})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Optimized prompt: `%s`\n\n%s", optimized, answer), nil
}

// multiStepReply splits the prompt into at most three subtasks and
// reports a result per step.
func multiStepReply(_ context.Context, req apiclient.ChatRequest) (string, error) {
	steps := splitSubtasks(req.Prompt, 3)

	var sb strings.Builder
	sb.WriteString("## Plan\n\n")
	for i, step := range steps {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
	}
	sb.WriteString("\n## Results\n\n")
	for i, step := range steps {
		sb.WriteString(fmt.Sprintf("- **Step %d**: done (%s)\n", i+1, util.Preview(step, 48)))
	}
	return sb.String(), nil
}

func splitSubtasks(prompt string, max int) []string {
	fields := strings.FieldsFunc(prompt, func(r rune) bool {
		return r == '.' || r == ';' || r == '\n' || r == '?' || r == '!'
	})
	var steps []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if len(steps) == max {
			steps[max-1] += "; " + f
			continue
		}
		steps = append(steps, f)
	}
	if len(steps) == 0 {
		steps = []string{strings.TrimSpace(prompt)}
	}
	return steps
}
