package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/imsjrhowa/LogViewer/internal/filter"
	"github.com/imsjrhowa/LogViewer/internal/prefs"
	"github.com/imsjrhowa/LogViewer/internal/scheduler"
	"github.com/imsjrhowa/LogViewer/internal/state"
)

const (
	intervalStep = 100 * time.Millisecond
	minCapacity  = 100
)

// Controller is the part of the scheduler the UI drives.
type Controller interface {
	SetFilter(pattern string, mode filter.Mode, caseSensitive bool) error
	EditFilter(pattern string, mode filter.Mode, caseSensitive bool) error
	RebuildNow() error
	Pause() error
	Resume() error
	Clear() error
	SetCapacity(n int) error
	SetInterval(d time.Duration) error
}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller Controller
	Store      *state.Store
	PollTick   time.Duration
	ThemeName  string
	PrefsPath  string
	Filter     filter.Spec
	Clipboard  func(string) error

	Wrap        bool
	LineNumbers bool
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	ctrl      Controller
	store     *state.Store
	prefsPath string
	pollTick  time.Duration
	copyFn    func(string) error
	keys      keyMap

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	help     help.Model

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time

	// Filter input. mode and caseSensitive are what the user asked for,
	// which may differ from the snapshot when the last edit was rejected.
	input         textinput.Model
	editing       bool
	mode          filter.Mode
	caseSensitive bool
	histIdx       int // -1 = draft
	draft         string

	// Line viewport
	lines        viewport.Model
	follow       bool
	wrap         bool
	lineNumbers  bool
	plain        []string
	rowLine      []int
	lastRendered uint64
	rendered     bool
	notice       string
	cmdErr       error
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = 200 * time.Millisecond
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dark"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "filter..."
	ti.CharLimit = 512
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.SetValue(opts.Filter.Pattern)

	return Model{
		ctx:           ctx,
		ctrl:          opts.Controller,
		store:         opts.Store,
		prefsPath:     prefsPath,
		pollTick:      pollTick,
		copyFn:        copyFn,
		keys:          DefaultKeyMap(),
		theme:         GetTheme(themeName),
		help:          help.New(),
		input:         ti,
		mode:          opts.Filter.Mode,
		caseSensitive: opts.Filter.CaseSensitive,
		histIdx:       -1,
		follow:        true,
		wrap:          opts.Wrap,
		lineNumbers:   opts.LineNumbers,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	// Fetch snapshot immediately on start
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.lines = viewport.New(m.width, m.viewportHeight())
		}
		m.ready = true
		m.help.Width = m.width
		m.input.Width = max(m.width-30, 10)
		m.updateLineViewport(true)
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		snap := state.Snapshot(msg)
		changed := !m.rendered || snap.Version != m.snapshot.Version
		m.snapshot = snap
		m.lastUpdated = time.Now()
		if changed {
			m.updateLineViewport(false)
		}
		return m, nil

	case controlMsg:
		m.cmdErr = msg.err
		if m.store != nil {
			return m, fetchSnapshotCmd(m.store)
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	// Show help overlay if active
	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle help overlay
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.editing {
		return m.handleInputKey(msg)
	}

	m.notice = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.updateLineViewport(true)
		return m, nil

	case key.Matches(msg, m.keys.ToggleWrap):
		m.wrap = !m.wrap
		m.savePrefs()
		m.updateLineViewport(true)
		return m, nil

	case key.Matches(msg, m.keys.ToggleLineNumbers):
		m.lineNumbers = !m.lineNumbers
		m.savePrefs()
		m.updateLineViewport(true)
		return m, nil

	case key.Matches(msg, m.keys.EditFilter):
		m.editing = true
		m.histIdx = -1
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.CycleMode):
		m.mode = m.mode.Next()
		return m, m.setFilterCmd()

	case key.Matches(msg, m.keys.ToggleCase):
		m.caseSensitive = !m.caseSensitive
		return m, m.setFilterCmd()

	case key.Matches(msg, m.keys.TogglePause):
		return m, m.togglePauseCmd()

	case key.Matches(msg, m.keys.Clear):
		return m, m.controlCmd(func(c Controller) error { return c.Clear() })

	case key.Matches(msg, m.keys.ToggleFollow):
		m.follow = !m.follow
		if m.follow {
			m.lines.GotoBottom()
		}
		return m, nil

	case key.Matches(msg, m.keys.Slower):
		d := m.interval() + intervalStep
		return m, m.controlCmd(func(c Controller) error { return c.SetInterval(d) })

	case key.Matches(msg, m.keys.Faster):
		d := max(m.interval()-intervalStep, scheduler.MinInterval)
		return m, m.controlCmd(func(c Controller) error { return c.SetInterval(d) })

	case key.Matches(msg, m.keys.MoreLines):
		n := m.capacity() * 2
		return m, m.controlCmd(func(c Controller) error { return c.SetCapacity(n) })

	case key.Matches(msg, m.keys.FewerLines):
		n := max(m.capacity()/2, minCapacity)
		return m, m.controlCmd(func(c Controller) error { return c.SetCapacity(n) })

	case key.Matches(msg, m.keys.Copy):
		m.copyVisible()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.follow = false
		m.lines.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		m.lines.ScrollDown(1)
	case key.Matches(msg, m.keys.PageUp):
		m.follow = false
		m.lines.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.lines.PageDown()
	case key.Matches(msg, m.keys.Top):
		m.follow = false
		m.lines.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.follow = true
		m.lines.GotoBottom()
	}

	return m, nil
}

// handleInputKey handles keyboard input while the filter has focus. Every
// edit is previewed through the scheduler, which debounces the rebuild; only
// enter commits the pattern to the history.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.editing = false
		m.input.Blur()
		pattern, mode, cs := m.input.Value(), m.mode, m.caseSensitive
		return m, m.controlCmd(func(c Controller) error {
			if err := c.SetFilter(pattern, mode, cs); err != nil {
				return err
			}
			return c.RebuildNow()
		})

	case key.Matches(msg, m.keys.Escape):
		m.editing = false
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.CycleMode):
		m.mode = m.mode.Next()
		return m, m.editFilterCmd()

	case key.Matches(msg, m.keys.HistPrev):
		if m.walkHistory(1) {
			return m, m.editFilterCmd()
		}
		return m, nil

	case key.Matches(msg, m.keys.HistNext):
		if m.walkHistory(-1) {
			return m, m.editFilterCmd()
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	m.histIdx = -1
	return m, tea.Batch(cmd, m.editFilterCmd())
}

// walkHistory moves through the filter history, older for step 1 and newer
// for step -1. Leaving the newest entry restores what was being typed.
func (m *Model) walkHistory(step int) bool {
	items := m.snapshot.History
	next := m.histIdx + step
	if next < -1 || next >= len(items) {
		return false
	}
	if m.histIdx == -1 {
		m.draft = m.input.Value()
	}
	m.histIdx = next
	if next == -1 {
		m.input.SetValue(m.draft)
	} else {
		m.input.SetValue(items[next])
	}
	m.input.CursorEnd()
	return true
}

func (m Model) setFilterCmd() tea.Cmd {
	pattern, mode, cs := m.input.Value(), m.mode, m.caseSensitive
	return m.controlCmd(func(c Controller) error { return c.SetFilter(pattern, mode, cs) })
}

func (m Model) editFilterCmd() tea.Cmd {
	pattern, mode, cs := m.input.Value(), m.mode, m.caseSensitive
	return m.controlCmd(func(c Controller) error { return c.EditFilter(pattern, mode, cs) })
}

func (m Model) togglePauseCmd() tea.Cmd {
	switch m.snapshot.State {
	case state.Running:
		return m.controlCmd(func(c Controller) error { return c.Pause() })
	case state.Paused:
		return m.controlCmd(func(c Controller) error { return c.Resume() })
	default:
		return nil
	}
}

func (m Model) controlCmd(fn func(Controller) error) tea.Cmd {
	if m.ctrl == nil {
		return nil
	}
	ctrl := m.ctrl
	return func() tea.Msg {
		return controlMsg{err: fn(ctrl)}
	}
}

func (m Model) interval() time.Duration {
	if m.snapshot.Interval > 0 {
		return m.snapshot.Interval
	}
	return scheduler.DefaultInterval
}

func (m Model) capacity() int {
	if m.snapshot.Capacity > 0 {
		return m.snapshot.Capacity
	}
	return scheduler.DefaultCapacity
}

// copyVisible puts the lines currently on screen on the clipboard. A wrapped
// line that is partly visible is copied whole.
func (m *Model) copyVisible() {
	from := min(m.lines.YOffset, len(m.rowLine))
	to := min(from+m.lines.Height, len(m.rowLine))
	if from == to {
		m.notice = "Nothing to copy"
		return
	}
	first, last := m.rowLine[from], m.rowLine[to-1]
	if err := m.copyFn(strings.Join(m.plain[first:last+1], "\n")); err != nil {
		m.notice = fmt.Sprintf("Copy failed: %v", err)
		return
	}
	m.notice = fmt.Sprintf("Copied %d lines", last-first+1)
}

// savePrefs records the display settings, keeping the rest of the session.
func (m Model) savePrefs() {
	p, _ := prefs.Load(m.prefsPath)
	p.Theme = m.theme.Name
	p.View.Wrap = m.wrap
	p.View.LineNumbers = m.lineNumbers
	_ = prefs.Save(m.prefsPath, p)
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.ctx.Err() != nil {
		return m, tea.Quit
	}

	// Fetch latest snapshot
	if m.store != nil && m.store.Version() != m.snapshot.Version {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}

	// Schedule next tick
	cmds = append(cmds, tickCmd(m.pollTick))

	return m, tea.Batch(cmds...)
}

// viewportHeight is what remains after header, filter bar, status line and
// key hints.
func (m Model) viewportHeight() int {
	return max(m.height-4, 1)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type controlMsg struct{ err error }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(opts Options) error {
	m := New(opts)
	var progOpts []tea.ProgramOption
	progOpts = append(progOpts, tea.WithAltScreen())
	if opts.Context != nil {
		progOpts = append(progOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, progOpts...)
	_, err := p.Run()
	if err != nil && opts.Context != nil && opts.Context.Err() != nil {
		// Cancelled from outside.
		return nil
	}
	return err
}
