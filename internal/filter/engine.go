package filter

import (
	"slices"
	"sort"

	"github.com/imsjrhowa/LogViewer/internal/linebuf"
)

// Match is a line that passed the filter, with the byte ranges that matched.
type Match struct {
	Line  linebuf.Line
	Spans []Span
}

// Result is the set of matching lines for Spec, in buffer order.
type Result struct {
	Spec    Spec
	Matches []Match
}

// Engine owns the active predicate and the match result. It is not safe for
// concurrent use; the scheduler calls it from its control loop.
type Engine struct {
	opts    Options
	spec    Spec
	pred    Predicate
	history *History
	result  Result
	stale   bool
	lastErr error
}

// NewEngine returns an Engine that matches every line. A nil history gets a
// fresh one with the default limit.
func NewEngine(opts Options, history *History) *Engine {
	if history == nil {
		history = NewHistory(DefaultHistoryLimit, nil)
	}
	return &Engine{opts: opts.withDefaults(), pred: matchAll{}, history: history}
}

// SetFilter commits a filter: it replaces the active one and records a
// non-empty pattern in the history. An invalid regex returns a *SyntaxError
// and leaves the previous predicate in force. On success the result is stale
// until the next Rebuild.
func (e *Engine) SetFilter(pattern string, mode Mode, caseSensitive bool) error {
	if err := e.EditFilter(pattern, mode, caseSensitive); err != nil {
		return err
	}
	if e.spec.Active() {
		e.history.Push(pattern)
	}
	return nil
}

// EditFilter is SetFilter without the history update, for previewing a
// pattern while it is being typed.
func (e *Engine) EditFilter(pattern string, mode Mode, caseSensitive bool) error {
	spec := Spec{Pattern: pattern, Mode: mode, CaseSensitive: caseSensitive}
	pred, err := Compile(spec, e.opts)
	if err != nil {
		e.lastErr = err
		return err
	}
	e.spec = spec
	e.pred = pred
	e.lastErr = nil
	e.stale = true
	return nil
}

// Spec returns the active filter, which may be newer than Result().Spec.
func (e *Engine) Spec() Spec { return e.spec }

// Matches reports whether line passes the active filter.
func (e *Engine) Matches(line string) bool { return e.pred.Match(line) }

// Rebuild re-evaluates every line against the active filter.
func (e *Engine) Rebuild(lines []linebuf.Line) {
	e.result = Result{Spec: e.spec, Matches: e.evaluate(nil, lines)}
	e.stale = false
}

// Extend evaluates newly appended lines only. It does nothing while a filter
// change is waiting for its rebuild.
func (e *Engine) Extend(lines []linebuf.Line) {
	if e.stale {
		return
	}
	e.result.Matches = e.evaluate(e.result.Matches, lines)
}

func (e *Engine) evaluate(dst []Match, lines []linebuf.Line) []Match {
	active := e.spec.Active()
	for _, l := range lines {
		if !e.pred.Match(l.Text) {
			continue
		}
		m := Match{Line: l}
		if active {
			m.Spans = e.pred.Spans(l.Text)
		}
		dst = append(dst, m)
	}
	return dst
}

// Trim drops matches for lines older than oldest, the buffer's oldest
// retained sequence number.
func (e *Engine) Trim(oldest uint64) {
	matches := e.result.Matches
	i := sort.Search(len(matches), func(i int) bool { return matches[i].Line.Seq >= oldest })
	if i > 0 {
		e.result.Matches = slices.Delete(matches, 0, i)
	}
}

// Reset empties the result without changing the filter, used when the
// buffer is cleared.
func (e *Engine) Reset() {
	e.result = Result{Spec: e.spec}
	e.stale = false
}

// Result returns a copy of the current match result.
func (e *Engine) Result() Result {
	r := Result{Spec: e.result.Spec}
	if len(e.result.Matches) > 0 {
		r.Matches = slices.Clone(e.result.Matches)
	}
	return r
}

// Stale reports whether the filter changed since the last Rebuild.
func (e *Engine) Stale() bool { return e.stale }

// LastError returns the error from the most recent failed SetFilter, cleared
// by the next successful one.
func (e *Engine) LastError() error { return e.lastErr }

// History returns the pattern history.
func (e *Engine) History() *History { return e.history }
