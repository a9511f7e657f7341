package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/imsjrhowa/LogViewer/internal/config"
	"github.com/imsjrhowa/LogViewer/internal/filter"
	"github.com/imsjrhowa/LogViewer/internal/prefs"
	"github.com/imsjrhowa/LogViewer/internal/scheduler"
	"github.com/imsjrhowa/LogViewer/internal/state"
	"github.com/imsjrhowa/LogViewer/internal/tail"
	"github.com/imsjrhowa/LogViewer/internal/ui"
	"github.com/imsjrhowa/LogViewer/internal/watch"
)

// ErrNoFile is returned when no file was given and no previous session
// names one.
var ErrNoFile = errors.New("no file given and no previous session to reopen")

// Options configure a LogViewer run. Zero values defer to the config file.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/logviewer/session.toml
	Path       string // empty reopens the last file
	Encoding   string
	Interval   time.Duration
	MaxLines   int
	FromStart  bool
	Watch      bool
	Plain      bool
	Debug      bool
	Filter     *filter.Spec // nil restores the last filter

	Stdout io.Writer
	Stderr io.Writer
}

// Run tails the file until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := opts.apply(&cfg); err != nil {
		return err
	}

	logger, closeLog, err := openLogger(cfg.LogFile, opts.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	session, _ := prefs.Load(opts.PrefsPath)

	path := strings.TrimSpace(opts.Path)
	if path == "" {
		path = session.LastFile
	}
	if path == "" {
		return ErrNoFile
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	spec := session.FilterSpec()
	if opts.Filter != nil {
		spec = *opts.Filter
	}

	reader, err := tail.NewReader(cfg.TailOptions())
	if err != nil {
		return fmt.Errorf("create reader: %w", err)
	}

	store := &state.Store{}
	deps := scheduler.Deps{
		Source:    reader,
		Store:     store,
		Persister: sessionPersister(opts.PrefsPath),
		Logger:    logger,
	}

	var watcher *watch.Watcher
	if cfg.Watch {
		watcher, err = watch.New(logger)
		if err != nil {
			logger.Warn("file watching unavailable; polling only", "error", err)
		} else {
			deps.Notifier = watcher
		}
	}

	sched := scheduler.New(scheduler.Config{
		Capacity:  cfg.MaxLines,
		Interval:  cfg.RefreshInterval,
		Debounce:  cfg.Debounce,
		Filter:    filter.Options{RegexTimeout: cfg.RegexTimeout},
		PreferEnd: !opts.FromStart,
		Initial:   spec,
		History:   session.Filter.History,
	}, deps)

	logger.Info("starting", "path", path, "encoding", cfg.Encoding,
		"interval", cfg.RefreshInterval, "max_lines", cfg.MaxLines, "watch", watcher != nil, "plain", opts.Plain)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return sched.Run(gctx) })
	if watcher != nil {
		g.Go(func() error { return watcher.Run(gctx) })
	}
	g.Go(func() error {
		// Whatever ends the front end ends the run.
		defer cancel()

		if err := sched.Open(path); err != nil {
			// Retried on every tick; the error is shown meanwhile.
			logger.Warn("initial open failed", "path", path, "error", err)
		}
		if err := sched.Start(); err != nil {
			if errors.Is(err, scheduler.ErrStopped) {
				return nil
			}
			return fmt.Errorf("start: %w", err)
		}

		if opts.Plain {
			p := &printer{store: store, out: writerOr(opts.Stdout, os.Stdout), errOut: writerOr(opts.Stderr, os.Stderr)}
			return p.run(gctx, defaultPrintInterval)
		}
		return ui.Run(ui.Options{
			Context:     gctx,
			Controller:  sched,
			Store:       store,
			ThemeName:   session.Theme,
			PrefsPath:   opts.PrefsPath,
			Filter:      spec,
			Wrap:        session.View.Wrap,
			LineNumbers: session.View.LineNumbers,
		})
	})

	err = g.Wait()
	logger.Info("stopped", "path", path, "error", err)
	return err
}

// apply folds command-line overrides into cfg.
func (o Options) apply(cfg *config.Config) error {
	if enc := strings.TrimSpace(o.Encoding); enc != "" {
		name, err := tail.LookupEncoding(enc)
		if err != nil {
			return err
		}
		cfg.Encoding = name
	}
	if o.Interval > 0 {
		cfg.RefreshInterval = max(o.Interval, scheduler.MinInterval)
	}
	if o.MaxLines > 0 {
		cfg.MaxLines = o.MaxLines
	}
	if o.Watch {
		cfg.Watch = true
	}
	return nil
}

// sessionPersister saves the final file and filter, keeping whatever else
// the session file holds (the theme).
func sessionPersister(path string) scheduler.Persister {
	return scheduler.PersistFunc(func(s scheduler.Session) error {
		p, _ := prefs.Load(path)
		if s.Path != "" {
			p.LastFile = s.Path
		}
		p.SetFilter(s.Filter, s.History)
		return prefs.Save(path, p)
	})
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}
