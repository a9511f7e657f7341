package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/imsjrhowa/LogViewer/internal/state"
	"github.com/imsjrhowa/LogViewer/internal/tail"
)

// renderMain renders the full screen.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderFilterBar())
	b.WriteString("\n")
	b.WriteString(m.lines.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the file line: path, encoding, state and position.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	snap := m.snapshot
	sep := styles.FaintText.Render("  ")

	path := snap.File.Path
	if path == "" {
		path = "no file"
	}
	parts := []string{
		styles.Logo.Render("logviewer"),
		styles.Text.Render(truncateMiddle(path, max(m.width/2, 20))),
	}
	if enc := encodingLabel(snap.File); enc != "" {
		parts = append(parts, styles.AccentText.Render(enc))
	}
	parts = append(parts, m.stateBadge(styles))
	if snap.File.Open {
		parts = append(parts, styles.MutedText.Render(fmt.Sprintf("%s / %s",
			humanize.IBytes(uint64(max(snap.File.Offset, 0))),
			humanize.IBytes(uint64(max(snap.File.Size, 0))))))
	}
	parts = append(parts,
		styles.FaintText.Render(fmt.Sprintf("every %s", snap.Interval)),
		styles.FaintText.Render(fmt.Sprintf("max %s", humanize.Comma(int64(snap.Capacity)))),
	)

	return styles.Header.Width(m.width).MaxHeight(1).Render(strings.Join(parts, sep))
}

func (m Model) stateBadge(styles Styles) string {
	label := strings.ToUpper(string(m.snapshot.State))
	if label == "" {
		label = "IDLE"
	}
	switch {
	case m.snapshot.IsFailing():
		return styles.DangerText.Render("FAILING")
	case m.snapshot.State == state.Running:
		return styles.SuccessText.Render(label)
	case m.snapshot.State == state.Paused:
		return styles.WarningText.Render(label)
	default:
		return styles.MutedText.Render(label)
	}
}

// encodingLabel describes the decoder, e.g. "utf-16le (bom)".
func encodingLabel(info tail.Info) string {
	if info.DetectionPending {
		return "detecting"
	}
	if info.Encoding == "" {
		return ""
	}
	if info.Source == "" {
		return info.Encoding
	}
	return fmt.Sprintf("%s (%s)", info.Encoding, info.Source)
}

// renderFilterBar shows the filter input while editing, otherwise the
// active filter.
func (m Model) renderFilterBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)

	flags := []string{m.mode.Label()}
	if m.caseSensitive {
		flags = append(flags, "Aa")
	} else {
		flags = append(flags, "aa")
	}
	badge := styles.AccentText.Render("[" + strings.Join(flags, " ") + "]")

	var body string
	switch {
	case m.editing:
		body = m.input.View()
	case m.input.Value() == "":
		body = styles.MutedText.Render("/ to filter")
	default:
		body = styles.Text.Render("/ " + m.input.Value())
	}

	if m.snapshot.FilterStale {
		body += styles.FaintText.Render("  …")
	}
	return styles.Header.Width(m.width).MaxHeight(1).Render(badge + styles.Text.Render(" ") + body)
}

// renderStatus renders the summary, the last status and any error.
func (m Model) renderStatus() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	snap := m.snapshot
	sep := styles.FaintText.Render("  │  ")

	parts := []string{styles.Text.Render(snap.Summary())}

	switch {
	case snap.FilterError != nil:
		parts = append(parts, styles.DangerText.Render("Filter error: "+snap.FilterError.Error()))
	case m.cmdErr != nil:
		parts = append(parts, styles.DangerText.Render(m.cmdErr.Error()))
	case snap.Status != "":
		style := styles.MutedText
		if snap.LastError != nil {
			style = styles.DangerText
		}
		parts = append(parts, style.Render(snap.Status))
	}

	if m.notice != "" {
		parts = append(parts, styles.InfoText.Render(m.notice))
	}
	if !m.follow {
		parts = append(parts, styles.WarningText.Render("follow off"))
	}
	if snap.Rotations > 0 {
		parts = append(parts, styles.FaintText.Render(fmt.Sprintf("reopened %d×", snap.Rotations)))
	}
	if snap.Malformed > 0 {
		parts = append(parts, styles.WarningText.Render(fmt.Sprintf("%s replaced", humanize.Comma(int64(snap.Malformed)))))
	}
	if !m.lastUpdated.IsZero() && !snap.LastUpdated.IsZero() {
		parts = append(parts, styles.FaintText.Render("updated "+humanize.Time(snap.LastUpdated)))
	}

	return styles.Footer.Width(m.width).MaxHeight(1).Render(strings.Join(parts, sep))
}

func (m Model) renderFooter() string {
	return lipgloss.NewStyle().Width(m.width).MaxHeight(1).Render(m.help.View(m.keys))
}
