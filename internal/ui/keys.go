package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding

	// Filter
	EditFilter key.Binding
	Confirm    key.Binding
	Escape     key.Binding
	CycleMode  key.Binding
	ToggleCase key.Binding
	HistPrev   key.Binding
	HistNext   key.Binding

	// Tailing
	TogglePause  key.Binding
	Clear        key.Binding
	ToggleFollow key.Binding
	Slower       key.Binding
	Faster       key.Binding
	MoreLines    key.Binding
	FewerLines   key.Binding
	Copy         key.Binding

	// Display
	ToggleWrap        key.Binding
	ToggleLineNumbers key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),

		// Filter
		EditFilter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Edit filter"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Apply filter"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Leave filter input"),
		),
		CycleMode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Cycle filter mode"),
		),
		ToggleCase: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Toggle case sensitivity"),
		),
		HistPrev: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("up", "Older filter"),
		),
		HistNext: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("down", "Newer filter"),
		),

		// Tailing
		TogglePause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Pause/resume"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Clear lines"),
		),
		ToggleFollow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Toggle follow"),
		),
		Slower: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Poll slower"),
		),
		Faster: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "Poll faster"),
		),
		MoreLines: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "Double max lines"),
		),
		FewerLines: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "Halve max lines"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Copy visible lines"),
		),

		// Display
		ToggleWrap: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "Toggle word wrap"),
		),
		ToggleLineNumbers: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Toggle line numbers"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Scroll down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdown", "Page down"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.EditFilter, k.CycleMode, k.ToggleCase, k.TogglePause, k.ToggleFollow, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Filter
		{k.EditFilter, k.Confirm, k.Escape, k.HistPrev, k.HistNext, k.CycleMode, k.ToggleCase},
		// Tailing
		{k.TogglePause, k.Clear, k.ToggleFollow, k.Slower, k.Faster, k.MoreLines, k.FewerLines, k.Copy},
		// Navigation
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown},
		// General
		{k.ToggleWrap, k.ToggleLineNumbers, k.CycleTheme, k.Help, k.Quit},
	}
}
