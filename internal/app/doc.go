// Package app is the composition root of arisan-admin.
//
// # Overview
//
// Open wires configuration, logging, the session store and the API client
// into a Runtime. Run opens a Runtime, loads the operator's preferences and
// starts the TUI; the CLI subcommands use the same Runtime without the TUI.
//
// # Startup
//
//  1. Load config.toml, .env and ARISAN_* overrides
//  2. Open the JSON log file under the log directory
//  3. Open the session file holding the bearer token
//  4. Build the API client with the session as its token source
//  5. Start the TUI and block until the operator quits
//
// # Error Handling
//
// Configuration parse errors, an unknown log level, an unwritable log
// directory and an invalid API URL are fatal and returned from Open. Backend
// failures after startup are reported inside the TUI.
package app
