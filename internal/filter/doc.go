// Package filter matches buffered log lines against a user pattern.
//
// # Modes
//
// Six modes are supported: Contains, StartsWith, EndsWith, Regex, ExactMatch
// and NotContains. Without case sensitivity both the line and the pattern are
// case-folded with golang.org/x/text/cases before comparison. Regex mode uses
// github.com/dlclark/regexp2, so lookaround and backreferences work; each
// evaluation is bounded by Options.RegexTimeout and a timeout counts as no
// match.
//
// # Engine
//
// Engine keeps the active predicate and the current Result. The scheduler
// drives it in two ways:
//
//   - Extend(newLines) and Trim(oldestSeq) on every tick, so only fresh lines
//     are evaluated and evicted lines are dropped.
//   - Rebuild(allLines) after a filter change, once the Debouncer has seen the
//     user stop typing.
//
// SetFilter marks the result stale; Extend is a no-op until the next Rebuild
// so the result always equals a full rebuild for Result().Spec.
//
// # History
//
// Every successfully applied non-empty pattern is pushed to a History of up
// to DefaultHistoryLimit distinct entries, most recent first.
package filter
