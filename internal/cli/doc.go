// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the playground command line.
//
// Running playground with no subcommand starts the terminal UI. The
// subcommands cover the same backend from a plain terminal:
//
//	playground                  start the TUI
//	playground login            sign in and store the token
//	playground logout           forget the stored token
//	playground whoami           show the signed-in user
//	playground chat             line-oriented chat REPL
//	playground serve            run the local development backend
//	playground config show      print the effective configuration
//	playground config path      print the config file location
//	playground config init      write a default config file
//	playground version          print version information
//
// Global flags: --config, --api-url, --verbose.
package cli
