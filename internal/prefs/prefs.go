// Package prefs handles session persistence between runs.
// The session is stored in ~/.config/logviewer/session.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/imsjrhowa/LogViewer/internal/filter"
)

// Prefs holds what the viewer remembers across runs.
type Prefs struct {
	Theme    string      `toml:"theme"`
	LastFile string      `toml:"last_file"`
	Filter   FilterPrefs `toml:"filter"`
	View     ViewPrefs   `toml:"view"`
}

// ViewPrefs are the line view toggles.
type ViewPrefs struct {
	Wrap        bool `toml:"wrap"`
	LineNumbers bool `toml:"line_numbers"`
}

// FilterPrefs is the last filter and the pattern history, most recent first.
type FilterPrefs struct {
	Pattern       string   `toml:"pattern"`
	Mode          string   `toml:"mode"`
	CaseSensitive bool     `toml:"case_sensitive"`
	History       []string `toml:"history"`
}

const (
	defaultPrefsPath = "~/.config/logviewer/session.toml"
	defaultTheme     = "Dark"
)

// DefaultPath returns the default session file path.
func DefaultPath() string {
	return defaultPrefsPath
}

func defaults() Prefs {
	return Prefs{
		Theme:  defaultTheme,
		Filter: FilterPrefs{Mode: filter.Contains.String()},
		View:   ViewPrefs{LineNumbers: true},
	}
}

// Load reads the session from the given path, falling back to defaults if
// missing or unreadable.
func Load(path string) (Prefs, error) {
	prefs := defaults()

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs, nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return defaults(), nil // Graceful degradation
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	if _, err := filter.ParseMode(prefs.Filter.Mode); err != nil {
		prefs.Filter.Mode = filter.Contains.String()
	}

	return prefs, nil
}

// Save writes the session to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	return nil
}

// FilterSpec returns the remembered filter. An unknown mode reads as
// contains.
func (p Prefs) FilterSpec() filter.Spec {
	mode, err := filter.ParseMode(p.Filter.Mode)
	if err != nil {
		mode = filter.Contains
	}
	return filter.Spec{Pattern: p.Filter.Pattern, Mode: mode, CaseSensitive: p.Filter.CaseSensitive}
}

// SetFilter records spec and history.
func (p *Prefs) SetFilter(spec filter.Spec, history []string) {
	p.Filter = FilterPrefs{
		Pattern:       spec.Pattern,
		Mode:          spec.Mode.String(),
		CaseSensitive: spec.CaseSensitive,
		History:       history,
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
