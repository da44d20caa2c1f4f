// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat panel of the playground dashboard.
//
// The panel is a Bubble Tea model wrapped around a session.Controller. It
// never blocks the event loop: a submit runs Controller.Begin inline,
// hands the network call to a tea.Cmd (SubmitCmd) and applies the
// ChatResultMsg with Controller.Resolve.
//
// # Focus
//
// The panel has two focus targets. In the input, Enter sends and
// alt+enter or ctrl+j inserts a newline. Esc moves focus to the
// transcript, where up/down select an assistant reply, + and - send
// feedback for it, y copies it and c copies its code blocks in turn.
//
// # Files
//
//   - messages.go: tea.Msg types
//   - commands.go: tea.Cmd factories (submit, feedback, export)
//   - keys.go: key bindings
//   - model.go: state and accessors
//   - update.go: event handling
//   - view.go: rendering
package chat
