package prefs

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/imsjrhowa/LogViewer/internal/filter"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if p.Filter.Mode != "contains" {
		t.Fatalf("Filter.Mode = %q, want contains", p.Filter.Mode)
	}
	if p.LastFile != "" {
		t.Fatalf("LastFile = %q, want empty", p.LastFile)
	}
	if p.View.Wrap || !p.View.LineNumbers {
		t.Fatalf("View = %+v, want line numbers without wrap", p.View)
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "logviewer")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	body := `theme = "Light"
last_file = "/var/log/syslog"

[filter]
pattern = "timeout"
mode = "ends_with"
case_sensitive = true
history = ["timeout", "error"]

[view]
wrap = true
line_numbers = false
`
	if err := os.WriteFile(filepath.Join(dir, "session.toml"), []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Light" {
		t.Fatalf("Theme = %q, want %q", p.Theme, "Light")
	}
	if p.LastFile != "/var/log/syslog" {
		t.Fatalf("LastFile = %q, want %q", p.LastFile, "/var/log/syslog")
	}
	want := filter.Spec{Pattern: "timeout", Mode: filter.EndsWith, CaseSensitive: true}
	if got := p.FilterSpec(); got != want {
		t.Fatalf("FilterSpec() = %+v, want %+v", got, want)
	}
	if !reflect.DeepEqual(p.Filter.History, []string{"timeout", "error"}) {
		t.Fatalf("History = %v", p.Filter.History)
	}
	if !p.View.Wrap || p.View.LineNumbers {
		t.Fatalf("View = %+v, want wrap without line numbers", p.View)
	}
}

func TestSave_RoundTripsSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "session.toml")

	p := Prefs{Theme: "Light", LastFile: "/tmp/app.log"}
	p.SetFilter(filter.Spec{Pattern: `\d+ms`, Mode: filter.Regex}, []string{`\d+ms`, "warn"})
	if err := Save(path, p); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !reflect.DeepEqual(loaded, p) {
		t.Fatalf("loaded = %+v, want %+v", loaded, p)
	}
}

func TestLoad_EmptyThemeAndBadModeFallBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	body := "theme = \"\"\n[filter]\npattern = \"x\"\nmode = \"fuzzy\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if got := p.FilterSpec(); got.Mode != filter.Contains || got.Pattern != "x" {
		t.Fatalf("FilterSpec() = %+v, want contains x", got)
	}
}

func TestLoad_InvalidTOMLFallsBackToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	if err := os.WriteFile(path, []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
}
