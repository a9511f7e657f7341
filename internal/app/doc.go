// Package app provides the orchestration layer for LogViewer.
//
// # Overview
//
// This package wires together configuration, the session file, the tail
// reader, the scheduler and a front end. It is the composition root: every
// dependency is built here and handed down explicitly.
//
// # Architecture
//
// Run follows a simple initialization pattern:
//
//  1. Load ~/.config/logviewer/config.toml and fold in command-line overrides
//  2. Open the slog text log at log_file (the terminal belongs to the UI)
//  3. Load the session: last file, last filter, filter history, theme
//  4. Build tail.Reader, state.Store and, with watch enabled, an fsnotify
//     watcher
//  5. Start the scheduler, the watcher and the front end under one errgroup
//  6. Block until the user quits or the context is cancelled
//
// # Components
//
//   - app.go: Options, Run and the session persister
//   - poller.go: plain-mode printer that polls the store and writes new
//     matches to stdout
//   - logging.go: log file setup
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read tunables
//	       ├─────> prefs.Load()         Last file, filter, history, theme
//	       ├─────> tail.NewReader()     Decoding reader
//	       ├─────> scheduler.New()      Control loop
//	       └─────> errgroup
//	                 ├─> sched.Run()    Ticks, commands, rebuilds
//	                 ├─> watcher.Run()  Optional early wake-ups
//	                 └─> ui.Run() or printer.run()
//
// # Shutdown
//
// When the front end returns, the shared context is cancelled. The
// scheduler stops, hands the final session to the persister (which keeps
// the theme the UI saved) and closes the file. A file that cannot be opened
// at start is not fatal: the scheduler keeps retrying and shows the error.
package app
