package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors for the UI.
type Theme struct {
	Name string

	// Base colors
	Background string // Outermost background
	Surface    string // Header and status bars
	FocusBg    string // Line viewport

	// Text colors
	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// Match highlight
	MatchBg   string
	MatchText string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		FaintText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Faint)),

		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),

		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),

		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),

		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		InfoText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Info)),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true),

		Match: lipgloss.NewStyle().
			Background(lipgloss.Color(t.MatchBg)).
			Foreground(lipgloss.Color(t.MatchText)).
			Bold(true),
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	// Text
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	// Components
	Header lipgloss.Style
	Footer lipgloss.Style
	Logo   lipgloss.Style
	Match  lipgloss.Style
}

// WithBackground returns a copy of Styles with every style carrying the
// given background, so segments rendered side by side leave no gaps.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)

	return Styles{
		Text:        s.Text.Background(bg),
		MutedText:   s.MutedText.Background(bg),
		FaintText:   s.FaintText.Background(bg),
		AccentText:  s.AccentText.Background(bg),
		SuccessText: s.SuccessText.Background(bg),
		WarningText: s.WarningText.Background(bg),
		DangerText:  s.DangerText.Background(bg),
		InfoText:    s.InfoText.Background(bg),

		Header: s.Header.Background(bg),
		Footer: s.Footer.Background(bg),
		Logo:   s.Logo.Background(bg),
		// Match keeps its own background.
		Match: s.Match,
	}
}

// Theme definitions

var themes = map[string]Theme{
	"Dark":  darkTheme(),
	"Light": lightTheme(),
}

var themeOrder = []string{"Dark", "Light"}

// GetTheme returns a theme by name, falling back to Dark.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return darkTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func darkTheme() Theme {
	// Nightfox palette: https://github.com/EdenEast/nightfox.nvim
	return Theme{
		Name: "Dark",

		Background: "#131a24", // bg0
		Surface:    "#192330", // bg1
		FocusBg:    "#212e3f", // bg2

		Text:    "#cdcecf", // fg1
		Muted:   "#738091", // comment
		Faint:   "#71839b", // fg3
		Accent:  "#719cd6", // blue
		Success: "#81b29a", // green
		Warning: "#dbc074", // yellow
		Danger:  "#c94f6d", // red
		Info:    "#63cdcf", // cyan

		MatchBg:   "#dbc074", // yellow
		MatchText: "#131a24", // bg0
	}
}

func lightTheme() Theme {
	// Tailwind CSS Slate/Sky palette: https://tailwindcss.com/docs/colors
	return Theme{
		Name: "Light",

		Background: "#f8fafc", // slate-50
		Surface:    "#e2e8f0", // slate-200
		FocusBg:    "#ffffff",

		Text:    "#0f172a", // slate-900
		Muted:   "#475569", // slate-600
		Faint:   "#64748b", // slate-500
		Accent:  "#0284c7", // sky-600
		Success: "#15803d", // green-700
		Warning: "#b45309", // amber-700
		Danger:  "#b91c1c", // red-700
		Info:    "#0e7490", // cyan-700

		MatchBg:   "#fde68a", // amber-200
		MatchText: "#0f172a", // slate-900
	}
}
