package state

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/imsjrhowa/LogViewer/internal/filter"
	"github.com/imsjrhowa/LogViewer/internal/tail"
)

// RunState is the scheduler lifecycle state.
type RunState string

const (
	Idle    RunState = "idle"
	Running RunState = "running"
	Paused  RunState = "paused"
	Stopped RunState = "stopped"
)

// View is what the control loop publishes after every tick or command.
type View struct {
	State       RunState
	File        tail.Info
	LineCount   int
	TotalLines  uint64
	Pending     string
	Capacity    int
	Interval    time.Duration
	Filter      filter.Spec
	FilterStale bool
	FilterError error
	History     []string
	Result      filter.Result
	Status      string
	Rotations   int
	Malformed   int
}

// Summary describes the filter result, e.g. "Filtered: 3/120 lines".
func (v View) Summary() string {
	if v.Result.Spec.Active() {
		return fmt.Sprintf("Filtered: %d/%d lines", len(v.Result.Matches), v.LineCount)
	}
	return fmt.Sprintf("Showing all %d lines", v.LineCount)
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	View
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive failed reads
	Version             uint64
}

// IsFailing returns true when the file has been unreadable for multiple ticks.
func (s Snapshot) IsFailing() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records the outcome of a tick. When err is non-nil the error is
// recorded and the failure counter grows; a nil err resets both.
func (s *Store) Update(view View, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.View = cloneView(view)
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.Version++
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Publish replaces the view after a command without touching the error
// accounting of the last tick.
func (s *Store) Publish(view View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.View = cloneView(view)
	s.snapshot.Version++
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.View = cloneView(s.snapshot.View)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Version returns the number of writes so far, letting readers skip
// unchanged snapshots without copying.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Version
}

func cloneView(v View) View {
	v.History = slices.Clone(v.History)
	if len(v.Result.Matches) == 0 {
		v.Result.Matches = nil
		return v
	}
	v.Result.Matches = slices.Clone(v.Result.Matches)
	return v
}
