package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/cases"
)

// DefaultRegexTimeout bounds a single regex evaluation.
const DefaultRegexTimeout = 250 * time.Millisecond

// Options tune predicate compilation.
type Options struct {
	RegexTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.RegexTimeout <= 0 {
		o.RegexTimeout = DefaultRegexTimeout
	}
	return o
}

// Span is a half-open byte range [Start, End) of a line that matched.
type Span struct {
	Start int
	End   int
}

// Predicate decides whether a line passes a filter and where it matched.
type Predicate interface {
	Match(line string) bool
	Spans(line string) []Span
}

// SyntaxError reports a regex pattern that does not compile.
type SyntaxError struct {
	Pattern string
	Err     error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid regex %q: %v", e.Pattern, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Compile builds the predicate for spec. Only Regex mode can fail.
func Compile(spec Spec, opts Options) (Predicate, error) {
	opts = opts.withDefaults()
	if !spec.Active() {
		return matchAll{}, nil
	}
	if spec.Mode == Regex {
		flags := regexp2.None
		if !spec.CaseSensitive {
			flags |= regexp2.IgnoreCase
		}
		re, err := regexp2.Compile(spec.Pattern, flags)
		if err != nil {
			return nil, &SyntaxError{Pattern: spec.Pattern, Err: err}
		}
		re.MatchTimeout = opts.RegexTimeout
		return &regexPredicate{re: re}, nil
	}
	if !spec.Mode.valid() {
		return nil, fmt.Errorf("compile filter: unknown mode %d", int(spec.Mode))
	}

	p := &literalPredicate{mode: spec.Mode, pattern: spec.Pattern, caseSensitive: spec.CaseSensitive}
	if !spec.CaseSensitive {
		p.fold = cases.Fold()
		p.folded = p.fold.String(spec.Pattern)
		re, err := regexp2.Compile(literalSpanPattern(spec.Mode, spec.Pattern), regexp2.IgnoreCase)
		if err == nil {
			re.MatchTimeout = opts.RegexTimeout
			p.spans = re
		}
	}
	return p, nil
}

type matchAll struct{}

func (matchAll) Match(string) bool   { return true }
func (matchAll) Spans(string) []Span { return nil }

// literalPredicate handles every mode except Regex. Case-insensitive
// matching compares case-folded strings; spans for that case come from an
// escaped IgnoreCase regex because folding can change byte lengths.
type literalPredicate struct {
	mode          Mode
	pattern       string
	caseSensitive bool
	fold          cases.Caser
	folded        string
	spans         *regexp2.Regexp
}

func (p *literalPredicate) Match(line string) bool {
	s, pat := line, p.pattern
	if !p.caseSensitive {
		s, pat = p.fold.String(line), p.folded
	}
	switch p.mode {
	case StartsWith:
		return strings.HasPrefix(s, pat)
	case EndsWith:
		return strings.HasSuffix(s, pat)
	case ExactMatch:
		return s == pat
	case NotContains:
		return !strings.Contains(s, pat)
	default:
		return strings.Contains(s, pat)
	}
}

func (p *literalPredicate) Spans(line string) []Span {
	if p.mode == NotContains || !p.Match(line) {
		return nil
	}
	if !p.caseSensitive {
		if p.spans == nil {
			return nil
		}
		return regexSpans(p.spans, line)
	}
	switch p.mode {
	case StartsWith:
		return []Span{{Start: 0, End: len(p.pattern)}}
	case EndsWith:
		return []Span{{Start: len(line) - len(p.pattern), End: len(line)}}
	case ExactMatch:
		return []Span{{Start: 0, End: len(line)}}
	default:
		var spans []Span
		for off := 0; off < len(line); {
			i := strings.Index(line[off:], p.pattern)
			if i < 0 {
				break
			}
			start := off + i
			spans = append(spans, Span{Start: start, End: start + len(p.pattern)})
			off = start + len(p.pattern)
		}
		return spans
	}
}

func literalSpanPattern(mode Mode, pattern string) string {
	escaped := regexp2.Escape(pattern)
	switch mode {
	case StartsWith:
		return `\A` + escaped
	case EndsWith:
		return escaped + `\z`
	case ExactMatch:
		return `\A` + escaped + `\z`
	default:
		return escaped
	}
}

type regexPredicate struct {
	re *regexp2.Regexp
}

// Match reports a match anywhere in the line. A match that times out counts
// as no match.
func (p *regexPredicate) Match(line string) bool {
	ok, err := p.re.MatchString(line)
	return err == nil && ok
}

func (p *regexPredicate) Spans(line string) []Span {
	return regexSpans(p.re, line)
}

// regexSpans collects every non-empty match of re in line as byte offsets.
// regexp2 reports positions in runes.
func regexSpans(re *regexp2.Regexp, line string) []Span {
	m, err := re.FindStringMatch(line)
	if err != nil || m == nil {
		return nil
	}

	offsets := make([]int, 0, len(line)+1)
	for i := range line {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(line))

	var spans []Span
	for m != nil {
		if m.Length > 0 && m.Index+m.Length < len(offsets) {
			spans = append(spans, Span{Start: offsets[m.Index], End: offsets[m.Index+m.Length]})
		}
		m, err = re.FindNextMatch(m)
		if err != nil {
			break
		}
	}
	return spans
}
