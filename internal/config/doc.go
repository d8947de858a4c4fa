// Package config loads the console configuration.
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/arisan-admin/config.toml
//  3. If the file doesn't exist, use the built-in defaults
//  4. A .env file in the working directory is loaded into the environment
//  5. ARISAN_API_URL, ARISAN_LOG_DIR and ARISAN_SESSION_PATH override the file
//
// Example configuration:
//
//	api_url = "https://backend.example.id/api"
//	request_timeout = 10       # seconds
//	page_size = 50             # rows per page on the Users screen
//	log_dir = "~/.local/state/arisan-admin"
//	session_path = "~/.local/state/arisan-admin/session.toml"
//	max_image_dimension = 1920 # uploads larger than this are downscaled
//
// Paths starting with ~ are expanded to the home directory and made
// absolute. Empty or whitespace-only values use the default. A file that
// fails to parse is an error (parse config: ...); the console refuses to
// start rather than silently talking to the wrong backend.
package config
