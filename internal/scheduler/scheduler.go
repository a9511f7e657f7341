package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/imsjrhowa/LogViewer/internal/filter"
	"github.com/imsjrhowa/LogViewer/internal/linebuf"
	"github.com/imsjrhowa/LogViewer/internal/state"
	"github.com/imsjrhowa/LogViewer/internal/tail"
)

const (
	DefaultInterval = 500 * time.Millisecond
	MinInterval     = 100 * time.Millisecond
	DefaultCapacity = 10000
)

// Status messages published in state.View.Status.
const (
	StatusOpened    = "Opened"
	StatusUpdated   = "Updated"
	StatusPaused    = "Paused"
	StatusRunning   = "Running"
	StatusStopped   = "Stopped"
	StatusCleared   = "Cleared"
	StatusRotated   = "File rotated - reopened"
	StatusTruncated = "File truncated - reloading"
)

// ErrStopped is returned by commands issued after the scheduler stopped.
var ErrStopped = errors.New("scheduler stopped")

// TransitionError reports a command that is not valid in the current state.
type TransitionError struct {
	Op   string
	From state.RunState
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Op, e.From)
}

// LineSource produces decoded text from a tailed file. *tail.Reader
// satisfies it.
type LineSource interface {
	Open(path string, preferEndIfLarge bool) error
	ReadNewText() (tail.Chunk, error)
	Close() error
	Info() tail.Info
}

// Notifier delivers early wake-ups when the tailed file changes.
type Notifier interface {
	Watch(path string) error
	Wake() <-chan struct{}
}

// Session is what survives a restart.
type Session struct {
	Path    string
	Filter  filter.Spec
	History []string
}

// Persister stores the final session at shutdown.
type Persister interface {
	Persist(Session) error
}

// PersistFunc adapts a function to Persister.
type PersistFunc func(Session) error

func (f PersistFunc) Persist(s Session) error { return f(s) }

// Config holds the tunables. Zero fields take defaults.
type Config struct {
	Capacity  int
	Interval  time.Duration
	Debounce  time.Duration
	Filter    filter.Options
	PreferEnd bool
	Initial   filter.Spec
	History   []string
}

// Deps are the scheduler's collaborators. Source and Store are required.
type Deps struct {
	Source    LineSource
	Store     *state.Store
	Notifier  Notifier
	Persister Persister
	Logger    *slog.Logger
}

type command struct {
	fn    func() error
	reply chan error
}

// Scheduler is the control loop. Run owns the source, the line buffer and
// the filter engine; every other method sends a command to it.
type Scheduler struct {
	cfg  Config
	deps Deps
	log  *slog.Logger

	cmds    chan command
	rebuild chan struct{}
	done    chan struct{}
	started atomic.Bool

	// Owned by the loop.
	state     state.RunState
	buf       *linebuf.Buffer
	engine    *filter.Engine
	debounce  *filter.Debouncer
	interval  time.Duration
	timer     *time.Timer
	status    string
	rotations int
	malformed int
	failing   bool
}

// New builds a Scheduler in the idle state. An invalid initial filter is
// logged and surfaced as the filter error; the viewer starts unfiltered.
func New(cfg Config, deps Deps) *Scheduler {
	if cfg.Capacity < 1 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	cfg.Interval = max(cfg.Interval, MinInterval)
	if deps.Store == nil {
		deps.Store = &state.Store{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Scheduler{
		cfg:      cfg,
		deps:     deps,
		log:      logger,
		cmds:     make(chan command),
		rebuild:  make(chan struct{}, 1),
		done:     make(chan struct{}),
		state:    state.Idle,
		buf:      linebuf.New(cfg.Capacity),
		engine:   filter.NewEngine(cfg.Filter, filter.NewHistory(filter.DefaultHistoryLimit, cfg.History)),
		interval: cfg.Interval,
	}
	s.debounce = filter.NewDebouncer(cfg.Debounce, func() {
		select {
		case s.rebuild <- struct{}{}:
		default:
		}
	})

	if cfg.Initial.Active() {
		if err := s.engine.SetFilter(cfg.Initial.Pattern, cfg.Initial.Mode, cfg.Initial.CaseSensitive); err != nil {
			logger.Warn("initial filter rejected", "pattern", cfg.Initial.Pattern, "error", err)
			s.status = filterErrorStatus(err)
		}
	}
	s.engine.Rebuild(nil)
	return s
}

// Store returns the store the loop publishes into.
func (s *Scheduler) Store() *state.Store { return s.deps.Store }

// Done is closed when Run has returned.
func (s *Scheduler) Done() <-chan struct{} { return s.done }

// Run executes the control loop until Stop is called or ctx is done. The
// final session is handed to the Persister on the way out.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return errors.New("scheduler: Run called twice")
	}
	defer close(s.done)
	defer s.shutdown()

	var wake <-chan struct{}
	if s.deps.Notifier != nil {
		wake = s.deps.Notifier.Wake()
	}
	s.publish()

	for {
		var tick <-chan time.Time
		if s.timer != nil {
			tick = s.timer.C
		}

		select {
		case <-ctx.Done():
			return nil
		case cmd := <-s.cmds:
			cmd.reply <- cmd.fn()
			if s.state == state.Stopped {
				return nil
			}
		case <-tick:
			s.timer = nil
			s.tick()
			s.arm()
		case <-s.rebuild:
			s.rebuildNow()
		case <-wake:
			if s.state == state.Running {
				s.tickNow()
			}
		}
	}
}

func (s *Scheduler) shutdown() {
	s.disarm()
	s.debounce.Cancel()
	s.state = state.Stopped
	s.status = StatusStopped

	if s.deps.Persister != nil {
		session := Session{
			Path:    s.deps.Source.Info().Path,
			Filter:  s.engine.Spec(),
			History: s.engine.History().Items(),
		}
		if err := s.deps.Persister.Persist(session); err != nil {
			s.log.Warn("persist session failed", "error", err)
		}
	}
	s.publish()
	if err := s.deps.Source.Close(); err != nil {
		s.log.Debug("close source", "error", err)
	}
}

// do runs fn on the loop and returns its error. The loop replies to every
// command it receives before it exits.
func (s *Scheduler) do(fn func() error) error {
	reply := make(chan error, 1)
	select {
	case s.cmds <- command{fn: fn, reply: reply}:
	case <-s.done:
		return ErrStopped
	}
	return <-reply
}

// Open starts tailing path. A different path clears the buffer and the
// result. When running, the first read happens immediately.
func (s *Scheduler) Open(path string) error {
	return s.do(func() error {
		info := s.deps.Source.Info()
		if info.Path == path && info.Open {
			return nil
		}
		if info.Path != path {
			s.buf.Clear()
			s.engine.Reset()
			s.rotations = 0
			s.malformed = 0
		}

		if s.deps.Notifier != nil {
			if err := s.deps.Notifier.Watch(path); err != nil {
				s.log.Warn("watch failed; polling only", "path", path, "error", err)
			}
		}

		if err := s.deps.Source.Open(path, s.cfg.PreferEnd); err != nil {
			s.log.Warn("open failed", "path", path, "error", err)
			s.status = errorStatus(err)
			s.failing = true
			s.deps.Store.Update(s.view(), err)
			return err
		}
		info = s.deps.Source.Info()
		s.log.Info("opened", "path", path, "encoding", info.Encoding, "offset", info.Offset, "size", info.Size)
		s.status = StatusOpened
		if s.state == state.Running {
			s.tickNow()
		}
		s.publish()
		return nil
	})
}

// Start leaves the idle state and begins ticking.
func (s *Scheduler) Start() error {
	return s.do(func() error {
		if s.state != state.Idle {
			return &TransitionError{Op: "start", From: s.state}
		}
		s.state = state.Running
		s.status = StatusRunning
		s.tickNow()
		s.publish()
		return nil
	})
}

// Pause stops ticking. The read offset, buffer and pending fragment are kept.
func (s *Scheduler) Pause() error {
	return s.do(func() error {
		if s.state != state.Running {
			return &TransitionError{Op: "pause", From: s.state}
		}
		s.disarm()
		s.state = state.Paused
		s.status = StatusPaused
		s.publish()
		return nil
	})
}

// Resume re-arms the tick timer; the next read starts at the stored offset.
func (s *Scheduler) Resume() error {
	return s.do(func() error {
		if s.state != state.Paused {
			return &TransitionError{Op: "resume", From: s.state}
		}
		s.state = state.Running
		s.status = StatusRunning
		s.arm()
		s.publish()
		return nil
	})
}

// Stop ends the loop. Later commands return ErrStopped.
func (s *Scheduler) Stop() error {
	return s.do(func() error {
		s.state = state.Stopped
		return nil
	})
}

// SetFilter commits a filter, recording a non-empty pattern in the history,
// and schedules a debounced rebuild. An invalid regex returns a
// *filter.SyntaxError and keeps the previous filter.
func (s *Scheduler) SetFilter(pattern string, mode filter.Mode, caseSensitive bool) error {
	return s.do(func() error {
		return s.applyFilter(s.engine.SetFilter(pattern, mode, caseSensitive))
	})
}

// EditFilter is SetFilter for a pattern still being typed: the history is
// left alone.
func (s *Scheduler) EditFilter(pattern string, mode filter.Mode, caseSensitive bool) error {
	return s.do(func() error {
		return s.applyFilter(s.engine.EditFilter(pattern, mode, caseSensitive))
	})
}

func (s *Scheduler) applyFilter(err error) error {
	if err != nil {
		s.status = filterErrorStatus(err)
		s.publish()
		return err
	}
	s.debounce.Trigger()
	s.publish()
	return nil
}

// RequestRebuild schedules a full rebuild after the debounce window, whether
// or not the filter changed. Each call restarts the window.
func (s *Scheduler) RequestRebuild() error {
	return s.do(func() error {
		s.debounce.Trigger()
		return nil
	})
}

// RebuildNow re-evaluates the whole buffer without waiting for the debounce
// window, used when a filter edit is committed.
func (s *Scheduler) RebuildNow() error {
	return s.do(func() error {
		s.debounce.Cancel()
		s.rebuildNow()
		return nil
	})
}

// SetCapacity changes the buffer's line limit, trimming immediately.
func (s *Scheduler) SetCapacity(n int) error {
	return s.do(func() error {
		if n < 1 {
			return fmt.Errorf("capacity must be at least 1, got %d", n)
		}
		s.buf.SetCapacity(n)
		if oldest, ok := s.buf.Oldest(); ok {
			s.engine.Trim(oldest)
		}
		s.publish()
		return nil
	})
}

// SetInterval changes the tick interval from the next arming on. Values
// below MinInterval are raised to it.
func (s *Scheduler) SetInterval(d time.Duration) error {
	return s.do(func() error {
		s.interval = max(d, MinInterval)
		s.publish()
		return nil
	})
}

// Clear empties the buffer and the result. The file offset is kept.
func (s *Scheduler) Clear() error {
	return s.do(func() error {
		s.buf.Clear()
		s.engine.Reset()
		s.status = StatusCleared
		s.publish()
		return nil
	})
}

func (s *Scheduler) arm() {
	if s.state != state.Running || s.timer != nil {
		return
	}
	s.timer = time.NewTimer(s.interval)
}

func (s *Scheduler) disarm() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) tickNow() {
	s.disarm()
	s.tick()
	s.arm()
}

// tick performs one read and folds the result into the buffer and the
// filter result.
func (s *Scheduler) tick() {
	chunk, err := s.deps.Source.ReadNewText()
	changed := false

	if rot := chunk.Rotation; rot != nil {
		s.buf.DiscardPending()
		s.rotations++
		s.status = StatusRotated
		if rot.Reason == tail.ReasonTruncated {
			s.status = StatusTruncated
		}
		s.log.Info("file reopened", "path", s.deps.Source.Info().Path, "reason", string(rot.Reason),
			"previous_offset", rot.PreviousOffset, "size", rot.Size)
		changed = true
	}

	if err != nil {
		if errors.Is(err, tail.ErrNotOpen) {
			if changed {
				s.publish()
			}
			return
		}
		s.log.Warn("read failed", "path", s.deps.Source.Info().Path, "error", err)
		s.status = errorStatus(err)
		s.failing = true
		s.deps.Store.Update(s.view(), err)
		return
	}

	if m := chunk.Malformed; m != nil {
		s.malformed += m.Replacements
		s.log.Debug("replaced malformed bytes", "encoding", m.Encoding, "count", m.Replacements)
	}
	if chunk.Text != "" {
		added := s.buf.Append(chunk.Text)
		s.engine.Extend(added)
		if oldest, ok := s.buf.Oldest(); ok {
			s.engine.Trim(oldest)
		}
		if chunk.Rotation == nil {
			s.status = StatusUpdated
		}
		changed = true
	}

	if changed || s.failing {
		if s.failing {
			s.log.Info("read recovered", "path", s.deps.Source.Info().Path)
			if !changed {
				s.status = StatusUpdated
			}
		}
		s.failing = false
		s.deps.Store.Update(s.view(), nil)
	}
}

func (s *Scheduler) rebuildNow() {
	start := time.Now()
	s.engine.Rebuild(s.buf.Lines())
	s.log.Debug("filter rebuilt", "filter", s.engine.Spec().String(),
		"matches", len(s.engine.Result().Matches), "lines", s.buf.Len(), "took", time.Since(start))
	s.publish()
}

func (s *Scheduler) publish() {
	s.deps.Store.Publish(s.view())
}

func (s *Scheduler) view() state.View {
	return state.View{
		State:       s.state,
		File:        s.deps.Source.Info(),
		LineCount:   s.buf.Len(),
		TotalLines:  s.buf.Total(),
		Pending:     s.buf.Pending(),
		Capacity:    s.buf.Cap(),
		Interval:    s.interval,
		Filter:      s.engine.Spec(),
		FilterStale: s.engine.Stale(),
		FilterError: s.engine.LastError(),
		History:     s.engine.History().Items(),
		Result:      s.engine.Result(),
		Status:      s.status,
		Rotations:   s.rotations,
		Malformed:   s.malformed,
	}
}

func errorStatus(err error) string { return "Error: " + err.Error() }

func filterErrorStatus(err error) string { return "Filter error: " + err.Error() }
