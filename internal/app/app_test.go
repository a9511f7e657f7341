package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/imsjrhowa/LogViewer/internal/config"
	"github.com/imsjrhowa/LogViewer/internal/filter"
	"github.com/imsjrhowa/LogViewer/internal/prefs"
	"github.com/imsjrhowa/LogViewer/internal/scheduler"
)

func TestOptionsApply(t *testing.T) {
	cfg := config.Default()
	opts := Options{Encoding: "UTF-16BE", Interval: 10 * time.Millisecond, MaxLines: 50, Watch: true}
	if err := opts.apply(&cfg); err != nil {
		t.Fatalf("apply returned error: %v", err)
	}
	if cfg.Encoding != "utf-16be" {
		t.Fatalf("Encoding = %q, want utf-16be", cfg.Encoding)
	}
	if cfg.RefreshInterval != scheduler.MinInterval {
		t.Fatalf("RefreshInterval = %v, want %v", cfg.RefreshInterval, scheduler.MinInterval)
	}
	if cfg.MaxLines != 50 || !cfg.Watch {
		t.Fatalf("MaxLines/Watch = %d/%t, want 50/true", cfg.MaxLines, cfg.Watch)
	}

	if err := (Options{Encoding: "klingon"}).apply(&cfg); err == nil {
		t.Fatalf("apply(klingon) returned nil error")
	}
}

func TestSessionPersisterKeepsTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	if err := prefs.Save(path, prefs.Prefs{Theme: "Light"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	session := scheduler.Session{
		Path:    "/var/log/app.log",
		Filter:  filter.Spec{Pattern: "warn", Mode: filter.NotContains},
		History: []string{"warn", "err"},
	}
	if err := sessionPersister(path).Persist(session); err != nil {
		t.Fatalf("Persist returned error: %v", err)
	}

	p, err := prefs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Theme != "Light" || p.LastFile != "/var/log/app.log" {
		t.Fatalf("Theme/LastFile = %q/%q", p.Theme, p.LastFile)
	}
	if got := p.FilterSpec(); got != session.Filter {
		t.Fatalf("FilterSpec() = %+v, want %+v", got, session.Filter)
	}
	if !reflect.DeepEqual(p.Filter.History, session.History) {
		t.Fatalf("History = %v, want %v", p.Filter.History, session.History)
	}
}

func TestRun_NoFileAndNoSession(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	err := Run(context.Background(), Options{
		ConfigPath: filepath.Join(dir, "none.toml"),
		PrefsPath:  filepath.Join(dir, "session.toml"),
	})
	if !errors.Is(err, ErrNoFile) {
		t.Fatalf("Run error = %v, want ErrNoFile", err)
	}
}

func TestRun_PlainPrintsMatchesAndSavesSession(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	logPath := filepath.Join(dir, "app.log")
	if err := os.WriteFile(logPath, []byte("ok\nerror one\nfine\nERROR two\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	sessionPath := filepath.Join(dir, "session.toml")

	ctx, cancel := context.WithTimeout(context.Background(), 600*time.Millisecond)
	defer cancel()

	var out, errOut bytes.Buffer
	err := Run(ctx, Options{
		ConfigPath: filepath.Join(dir, "none.toml"),
		PrefsPath:  sessionPath,
		Path:       logPath,
		Plain:      true,
		Filter:     &filter.Spec{Pattern: "error"},
		Stdout:     &out,
		Stderr:     &errOut,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if got, want := out.String(), "error one\nERROR two\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}

	p, err := prefs.Load(sessionPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.LastFile != logPath {
		t.Fatalf("LastFile = %q, want %q", p.LastFile, logPath)
	}
	if p.Filter.Pattern != "error" || !reflect.DeepEqual(p.Filter.History, []string{"error"}) {
		t.Fatalf("Filter = %+v, want pattern and history [error]", p.Filter)
	}

	logged, err := os.ReadFile(filepath.Join(dir, ".local", "state", "logviewer", "logviewer.log"))
	if err != nil {
		t.Fatalf("ReadFile(log): %v", err)
	}
	if !strings.Contains(string(logged), "msg=opened") {
		t.Fatalf("log file missing open record:\n%s", logged)
	}
}
