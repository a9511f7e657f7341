package ui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/imsjrhowa/LogViewer/internal/filter"
)

// levelRe finds the severity token that gets colored on unhighlighted lines.
var levelRe = regexp.MustCompile(`\b(TRACE|DEBUG|INFO|NOTICE|WARN|WARNING|ERROR|ERR|FATAL|CRITICAL|PANIC)\b`)

// segment is a run of line text that is either inside a match span or not.
type segment struct {
	text  string
	match bool
}

// splitSpans cuts line at the span boundaries. Spans are byte offsets, sorted
// and non-overlapping; out-of-range spans are clamped.
func splitSpans(line string, spans []filter.Span) []segment {
	if len(spans) == 0 {
		return []segment{{text: line}}
	}
	var out []segment
	pos := 0
	for _, sp := range spans {
		start := min(max(sp.Start, pos), len(line))
		end := min(max(sp.End, start), len(line))
		if start > pos {
			out = append(out, segment{text: line[pos:start]})
		}
		if end > start {
			out = append(out, segment{text: line[start:end], match: true})
		}
		pos = end
	}
	if pos < len(line) {
		out = append(out, segment{text: line[pos:]})
	}
	return out
}

// updateLineViewport re-renders the viewport content from the snapshot.
func (m *Model) updateLineViewport(resized bool) {
	if !m.ready {
		return
	}
	m.lines.Width = m.width
	m.lines.Height = m.viewportHeight()
	m.lines.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))

	if resized || !m.rendered || m.lastRendered != m.snapshot.Version {
		m.lines.SetContent(m.renderLineContent())
		m.lastRendered = m.snapshot.Version
		m.rendered = true
	}

	if m.follow {
		m.lines.GotoBottom()
	}
}

// renderLineContent renders every matching line with its spans highlighted
// and records the plain text for copying. rowLine maps each rendered row to
// its match so copying works on whole lines when they wrap.
func (m *Model) renderLineContent() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	matches := m.snapshot.Result.Matches

	m.plain = make([]string, 0, len(matches))
	m.rowLine = make([]int, 0, len(matches))
	if len(matches) == 0 {
		msg := "No lines yet"
		switch {
		case m.snapshot.File.Path == "":
			msg = "No file open"
		case m.snapshot.Result.Spec.Active():
			msg = "No matching lines"
		}
		return styles.MutedText.Render(msg)
	}

	numWidth, gutter := 0, 0
	if m.lineNumbers {
		numWidth = len(fmt.Sprint(matches[len(matches)-1].Line.Seq))
		gutter = numWidth + 3
	}
	textWidth := max(m.width-gutter, 10)

	rows := make([]string, 0, len(matches))
	for i, match := range matches {
		text := expandTabs(match.Line.Text)
		m.plain = append(m.plain, text)

		var body string
		if len(match.Spans) > 0 {
			var b strings.Builder
			for _, seg := range splitSpans(match.Line.Text, match.Spans) {
				style := styles.Text
				if seg.match {
					style = styles.Match
				}
				b.WriteString(style.Render(expandTabs(seg.text)))
			}
			body = b.String()
		} else {
			body = m.colorizeLevel(text, styles)
		}

		parts := []string{body}
		if m.wrap {
			parts = strings.Split(wrapLine(body, textWidth), "\n")
		}
		for j, part := range parts {
			if m.lineNumbers {
				num := strings.Repeat(" ", numWidth)
				if j == 0 {
					num = fmt.Sprintf("%*d", numWidth, match.Line.Seq)
				}
				part = styles.FaintText.Render(num+" │ ") + part
			}
			rows = append(rows, part)
			m.rowLine = append(m.rowLine, i)
		}
	}
	return strings.Join(rows, "\n")
}

// wrapLine word-wraps line to width, breaking words that are longer than a
// whole row.
func wrapLine(line string, width int) string {
	if line == "" || width <= 0 {
		return line
	}
	return wrap.String(wordwrap.String(line, width), width)
}

// colorizeLevel colors the first severity token of a line.
func (m *Model) colorizeLevel(line string, styles Styles) string {
	loc := levelRe.FindStringSubmatchIndex(line)
	if loc == nil {
		return styles.Text.Render(line)
	}
	start, end := loc[2], loc[3]
	return styles.Text.Render(line[:start]) +
		levelStyle(line[start:end], styles).Bold(true).Render(line[start:end]) +
		styles.Text.Render(line[end:])
}

// levelStyle returns the style for a log level.
func levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "INFO", "NOTICE":
		return styles.SuccessText
	case "WARN", "WARNING":
		return styles.WarningText
	case "ERROR", "ERR", "FATAL", "CRITICAL", "PANIC":
		return styles.DangerText
	case "DEBUG", "TRACE":
		return styles.InfoText
	default:
		return styles.Text
	}
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", "    ")
}
