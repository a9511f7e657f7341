package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startWatcher(t *testing.T) *Watcher {
	t.Helper()
	w, err := New(nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return w
}

func expectWake(t *testing.T, w *Watcher, want bool) {
	t.Helper()
	timeout := 2 * time.Second
	if !want {
		timeout = 200 * time.Millisecond
	}
	select {
	case <-w.Wake():
		if !want {
			t.Fatalf("unexpected wake-up")
		}
	case <-time.After(timeout):
		if want {
			t.Fatalf("no wake-up within %v", timeout)
		}
	}
}

func drain(w *Watcher) {
	for {
		select {
		case <-w.Wake():
		case <-time.After(100 * time.Millisecond):
			return
		}
	}
}

func TestWakeOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	other := filepath.Join(dir, "other.log")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("create: %v", err)
	}

	w := startWatcher(t)
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	if err := os.WriteFile(other, []byte("noise\n"), 0o644); err != nil {
		t.Fatalf("write other: %v", err)
	}
	expectWake(t, w, false)

	if err := os.WriteFile(path, []byte("line\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	expectWake(t, w, true)
}

func TestWakeAfterRecreate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	if err := os.WriteFile(path, []byte("old\n"), 0o644); err != nil {
		t.Fatalf("create: %v", err)
	}

	w := startWatcher(t)
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	if err := os.Rename(path, path+".1"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	drain(w)

	if err := os.WriteFile(path, []byte("new\n"), 0o644); err != nil {
		t.Fatalf("recreate: %v", err)
	}
	expectWake(t, w, true)
}

func TestWatchMissingDirectory(t *testing.T) {
	w := startWatcher(t)
	if err := w.Watch(filepath.Join(t.TempDir(), "missing", "app.log")); err == nil {
		t.Fatalf("Watch() error = nil for missing directory")
	}
}
