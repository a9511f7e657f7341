// Package scheduler runs the polling control loop of the viewer.
//
// # Overview
//
// A Scheduler owns the tail reader, the line buffer and the filter engine.
// Run executes a single goroutine that ticks at a configurable interval:
//
//	tick → ReadNewText → Append → Extend + Trim → store.Update
//
// Reads happen on the loop itself, so text is appended strictly in read order
// and a tick's read and append are never interleaved with a command.
//
// # Lifecycle
//
//	idle ──Start──→ running ⇄ paused
//	  └──────────Stop / ctx done──────────→ stopped
//
// Pause disarms the tick timer and keeps the read offset, buffer and pending
// fragment, so Resume continues exactly where reading stopped. Stopped is
// terminal: the final session goes to the Persister, the file is closed and
// every later command returns ErrStopped. Commands that do not fit the current
// state return a *TransitionError.
//
// # Commands
//
// Open, Start, Pause, Resume, Stop, SetFilter, EditFilter, RequestRebuild, RebuildNow,
// SetCapacity, SetInterval and Clear may be called from any goroutine. Each
// is sent to the loop over a channel, executed there, and its error returned
// to the caller.
//
// # Timers
//
// The tick timer is re-armed after each tick with the interval current at
// that moment; SetInterval never disturbs an armed timer. Filter changes go
// through a filter.Debouncer whose firing is delivered to the loop over a
// channel, so a burst of keystrokes produces one full rebuild. An optional
// Notifier (fsnotify) wakes the loop for an immediate tick when the file is
// written.
//
// # Errors
//
// A failed read leaves every piece of state untouched. The error is
// published through store.Update, which counts consecutive failures, and the
// loop keeps ticking so the viewer recovers when the file comes back.
// Rotation and truncation are reported in the status line and logged at
// Info.
package scheduler
