// Package ui provides the terminal user interface for LogViewer.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program over a single screen. It never reads the
// file itself: it polls state.Store for snapshots published by the
// scheduler and sends every user action back through the Controller
// interface, which *scheduler.Scheduler satisfies. Controller calls run as
// tea.Cmds so a slow rebuild never blocks rendering.
//
// # Screen Layout
//
//   - Header: file path, detected encoding and its source, run state, read
//     offset against file size, poll interval and line limit
//   - Filter bar: the filter mode and case flag, then the pattern or the
//     live text input while editing
//   - Lines: a viewport of matching lines with matched spans highlighted;
//     lines without spans get their severity token colored. "w" word-wraps
//     long lines and "l" shows the line numbers in a gutter
//   - Status: "Filtered: M/N lines" or "Showing all N lines", the last
//     scheduler status or error, and rotation and replacement counters
//   - Key hints from bubbles/help
//
// # Filtering
//
// "/" focuses the input. Each edit is sent with EditFilter and the scheduler
// debounces the rebuild; enter commits with SetFilter, which records the
// history, and an immediate rebuild. Up and
// down walk the filter history, most recent first, and restore the draft
// when walking past the newest entry. An invalid regex leaves the previous
// filter in force and shows the compile error in the status line.
//
// # Files
//
//   - app.go: Model, Options, Controller, Update loop and key handling
//   - keys.go: key bindings
//   - header.go: header, filter bar, status line and footer
//   - lines.go: match rendering, span splitting and level colors
//   - help.go: help overlay
//   - theme.go: the Dark and Light palettes
//
// The theme, wrap and line number choices are saved to the session file as
// soon as they change.
package ui
