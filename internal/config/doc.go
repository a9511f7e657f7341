// Package config loads the viewer's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/logviewer/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing, empty or zero, use defaults
//
// # TOML Format
//
//	max_lines = 10000              # buffer capacity
//	refresh_interval_ms = 500      # poll interval, clamped to >= 100
//	encoding = "auto"              # or any WHATWG label: utf-16le, windows-1252, ...
//	large_file_threshold = 2097152 # bytes; larger files open at end-of-file
//	sample_size = 4096             # bytes sampled for UTF-16 detection
//	nul_threshold = 0.30           # NUL fraction that means UTF-16, in (0,1]
//	debounce_ms = 300              # filter rebuild quiescence window
//	regex_timeout_ms = 250         # per-line regex budget
//	watch = false                  # fsnotify wake-ups in addition to polling
//	log_file = "~/.local/state/logviewer/logviewer.log"
//
// Tilde expansion is performed for the config path and log_file.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//   - An encoding label golang.org/x/text does not know
//   - nul_threshold outside (0,1]
//
// Missing config files are NOT an error; the viewer works out of the box.
package config
