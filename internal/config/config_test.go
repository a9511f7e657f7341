package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.MaxLines != defaultMaxLines {
		t.Fatalf("MaxLines = %d, want %d", cfg.MaxLines, defaultMaxLines)
	}
	if cfg.RefreshInterval != defaultRefreshInterval {
		t.Fatalf("RefreshInterval = %v, want %v", cfg.RefreshInterval, defaultRefreshInterval)
	}
	if cfg.Encoding != "auto" {
		t.Fatalf("Encoding = %q, want auto", cfg.Encoding)
	}
	if cfg.NULThreshold != defaultNULThreshold {
		t.Fatalf("NULThreshold = %v, want %v", cfg.NULThreshold, defaultNULThreshold)
	}

	wantLog, err := ExpandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("ExpandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
}

func TestLoad_DefaultPathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "logviewer")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("max_lines = 42\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.MaxLines != 42 {
		t.Fatalf("MaxLines = %d, want 42", cfg.MaxLines)
	}
}

func TestLoad_ParsesConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
max_lines = 500
refresh_interval_ms = 250
encoding = "UTF-16LE"
large_file_threshold = 1024
sample_size = 512
nul_threshold = 0.5
debounce_ms = 120
regex_timeout_ms = 50
watch = true
log_file = "  ~/logs/viewer.log  "
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.MaxLines != 500 {
		t.Fatalf("MaxLines = %d, want 500", cfg.MaxLines)
	}
	if cfg.RefreshInterval != 250*time.Millisecond {
		t.Fatalf("RefreshInterval = %v, want 250ms", cfg.RefreshInterval)
	}
	if cfg.Encoding != "utf-16le" {
		t.Fatalf("Encoding = %q, want %q", cfg.Encoding, "utf-16le")
	}
	if cfg.LargeFileThreshold != 1024 || cfg.SampleSize != 512 || cfg.NULThreshold != 0.5 {
		t.Fatalf("detection = %d/%d/%v, want 1024/512/0.5", cfg.LargeFileThreshold, cfg.SampleSize, cfg.NULThreshold)
	}
	if cfg.Debounce != 120*time.Millisecond || cfg.RegexTimeout != 50*time.Millisecond {
		t.Fatalf("Debounce/RegexTimeout = %v/%v", cfg.Debounce, cfg.RegexTimeout)
	}
	if !cfg.Watch {
		t.Fatalf("Watch = false, want true")
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}

	opts := cfg.TailOptions()
	if opts.Encoding != "utf-16le" || opts.SampleSize != 512 {
		t.Fatalf("TailOptions() = %+v", opts)
	}
}

func TestLoad_ZeroValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(writeConfig(t, `
max_lines = 0
refresh_interval_ms = 0
encoding = "   "
log_file = ""
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.MaxLines != defaultMaxLines || cfg.RefreshInterval != defaultRefreshInterval {
		t.Fatalf("MaxLines/RefreshInterval = %d/%v, want defaults", cfg.MaxLines, cfg.RefreshInterval)
	}
	if cfg.Encoding != defaultEncoding {
		t.Fatalf("Encoding = %q, want %q", cfg.Encoding, defaultEncoding)
	}
}

func TestLoad_ClampsRefreshInterval(t *testing.T) {
	cfg, err := Load(writeConfig(t, "refresh_interval_ms = 10\n"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.RefreshInterval != minRefreshInterval {
		t.Fatalf("RefreshInterval = %v, want %v", cfg.RefreshInterval, minRefreshInterval)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "unknown encoding", body: `encoding = "klingon"`, want: "unknown encoding"},
		{name: "nul threshold above one", body: `nul_threshold = 1.5`, want: "nul_threshold"},
		{name: "negative nul threshold", body: `nul_threshold = -0.1`, want: "nul_threshold"},
		{name: "invalid toml", body: `max_lines = [`, want: "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatalf("Load returned nil error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %q, want it to contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/x/y.log")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if want := filepath.Join(home, "x", "y.log"); got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
	if _, err := ExpandPath("   "); err == nil {
		t.Fatalf("ExpandPath(blank) returned nil error")
	}
}
