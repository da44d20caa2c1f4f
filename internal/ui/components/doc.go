// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the reusable UI pieces of the playground TUI.

# Layout

  - Header: page title plus the settings, share and theme buttons
  - Sidebar: Playground, Models, API, Documentation, Settings, Help,
    Account and Logout
  - StatusBar: model/agent badges, a transient message and key hints

# Forms

  - LoginForm: username/password with a registration mode; emits
    LoginSubmitMsg
  - SettingsDrawer: edits a shared *settings.Settings in place

# Content

  - RenderMessage: one transcript entry
  - RenderContent: glamour for prose, chroma CodeBlocks for fenced code
  - BusyIndicator: spinner plus a 500ms ellipsis, the single pending marker
  - Clipboard: copy with a two-second "copied!" confirmation

Components are plain structs with Update/View methods driven by the
chat and app models; only BusyIndicator is a value-type tea component.
*/
package components
