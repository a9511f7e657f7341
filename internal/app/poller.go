package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/imsjrhowa/LogViewer/internal/state"
)

const defaultPrintInterval = 100 * time.Millisecond

// printer copies newly matched lines from the store to out. It backs plain
// mode, where there is no TUI to render the snapshots.
type printer struct {
	store   *state.Store
	out     io.Writer
	errOut  io.Writer
	version uint64
	lastSeq uint64
	reopens int
	lastErr string
}

// run polls the store at a fixed cadence until ctx is done, then flushes
// once more so lines read during shutdown are not lost.
func (p *printer) run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = defaultPrintInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := p.refresh(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return p.refresh()
		case <-ticker.C:
		}
	}
}

// refresh prints matches newer than the last printed line. Line sequence
// numbers start at 1 and never repeat, so rotation and eviction need no
// special handling.
func (p *printer) refresh() error {
	if p.store.Version() == p.version {
		return nil
	}
	snap := p.store.Snapshot()
	p.version = snap.Version

	for _, m := range snap.Result.Matches {
		if m.Line.Seq <= p.lastSeq {
			continue
		}
		if _, err := fmt.Fprintln(p.out, m.Line.Text); err != nil {
			return fmt.Errorf("write line: %w", err)
		}
		p.lastSeq = m.Line.Seq
	}

	if snap.Rotations > p.reopens {
		p.reopens = snap.Rotations
		p.notify(snap.Status)
	}

	errText := ""
	if snap.LastError != nil {
		errText = snap.LastError.Error()
	}
	if errText != p.lastErr && errText != "" {
		p.notify(errText)
	}
	p.lastErr = errText
	return nil
}

func (p *printer) notify(msg string) {
	if p.errOut == nil || msg == "" {
		return
	}
	_, _ = fmt.Fprintf(p.errOut, "logviewer: %s\n", msg)
}
