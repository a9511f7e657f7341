package filter

import (
	"fmt"
	"strings"
)

// Mode selects how a pattern is matched against a line.
type Mode int

const (
	Contains Mode = iota
	StartsWith
	EndsWith
	Regex
	ExactMatch
	NotContains
)

var modeNames = [...]string{
	Contains:    "contains",
	StartsWith:  "starts_with",
	EndsWith:    "ends_with",
	Regex:       "regex",
	ExactMatch:  "exact_match",
	NotContains: "not_contains",
}

var modeLabels = [...]string{
	Contains:    "Contains",
	StartsWith:  "Starts With",
	EndsWith:    "Ends With",
	Regex:       "Regex",
	ExactMatch:  "Exact Match",
	NotContains: "Not Contains",
}

// Modes returns every mode in cycling order.
func Modes() []Mode {
	return []Mode{Contains, StartsWith, EndsWith, Regex, ExactMatch, NotContains}
}

func (m Mode) valid() bool { return m >= Contains && m <= NotContains }

// String returns the persisted name, e.g. "starts_with".
func (m Mode) String() string {
	if !m.valid() {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// Label returns the display name, e.g. "Starts With".
func (m Mode) Label() string {
	if !m.valid() {
		return m.String()
	}
	return modeLabels[m]
}

// Next returns the mode after m in cycling order.
func (m Mode) Next() Mode {
	if !m.valid() {
		return Contains
	}
	return (m + 1) % Mode(len(modeNames))
}

// ParseMode accepts a persisted name or display label, case-insensitively.
// "exact" is an alias for exact_match.
func ParseMode(s string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if key == "exact" {
		return ExactMatch, nil
	}
	for i, name := range modeNames {
		if key == name {
			return Mode(i), nil
		}
	}
	return Contains, fmt.Errorf("unknown filter mode %q", s)
}

// Spec is one filter configuration. An empty Pattern matches every line.
type Spec struct {
	Pattern       string
	Mode          Mode
	CaseSensitive bool
}

// Active reports whether the spec filters anything.
func (s Spec) Active() bool { return s.Pattern != "" }

func (s Spec) String() string {
	if !s.Active() {
		return "none"
	}
	cs := "ignore case"
	if s.CaseSensitive {
		cs = "match case"
	}
	return fmt.Sprintf("%s %q (%s)", s.Mode.Label(), s.Pattern, cs)
}
