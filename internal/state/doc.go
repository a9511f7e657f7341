// Package state provides thread-safe state sharing between the control loop
// and the terminal UI.
//
// # Overview
//
// The scheduler's control loop owns the file reader, the line buffer and the
// filter engine. Nothing else may touch them. After each tick or command the
// loop publishes a View into a Store, and the UI renders from Snapshot copies
// on its own schedule.
//
//	Producer (control loop):       Consumer (UI):
//	┌────────────────┐            ┌─────────────────┐
//	│ ReadNewText()  │            │                 │
//	│ Append/Extend  │            │                 │
//	│      ↓         │            │                 │
//	│ store.Update() │───────────→│ store.Snapshot()│
//	│      ↓         │  (mutex)   │      ↓          │
//	│  next tick     │            │  render view    │
//	└────────────────┘            └─────────────────┘
//
// # Update Semantics
//
// Update is called once per tick with that tick's error:
//
//	store.Update(view, nil)   // LastError = nil, ConsecutiveFailures = 0
//	store.Update(view, err)   // LastError = err, ConsecutiveFailures++
//
// A failed read leaves the buffer untouched, so the view passed with an error
// still carries the last good lines. Publish replaces the view after a
// command (pause, filter change, capacity change) without resetting the
// failure count, so a paused viewer of a missing file still reports it.
//
// Every write bumps Version. The UI compares Version before taking a full
// Snapshot and skips rendering when nothing changed.
//
// # Defensive Copying
//
// Snapshot clones the match slice and the history, and wraps LastError, so
// callers may keep or modify what they receive. Line text is shared; strings
// are immutable.
//
// The zero Store is ready to use.
package state
