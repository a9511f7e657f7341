package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/imsjrhowa/LogViewer/internal/app"
	"github.com/imsjrhowa/LogViewer/internal/filter"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCmd(app.Run)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "logviewer: %v\n", err)
		return 1
	}
	return 0
}

type runFunc func(context.Context, app.Options) error

func newRootCmd(runApp runFunc) *cobra.Command {
	var (
		opts          app.Options
		pattern       string
		mode          string
		caseSensitive bool
		intervalMS    int
	)

	cmd := &cobra.Command{
		Use:   "logviewer [file]",
		Short: "Tail a log file with live filtering",
		Long: `Tails a growing log file, detecting UTF-8 and UTF-16 encodings and
recovering from rotation and truncation, with a live filter over the last
lines read.

Without a file argument the file from the previous session is reopened.

Example:
  logviewer /var/log/syslog
  logviewer --filter 'timeout|refused' --mode regex app.log
  logviewer --plain --filter error app.log | tee errors.txt`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Path = args[0]
			}
			if intervalMS > 0 {
				opts.Interval = time.Duration(intervalMS) * time.Millisecond
			}

			flags := cmd.Flags()
			if flags.Changed("filter") || flags.Changed("mode") || flags.Changed("case-sensitive") {
				m, err := filter.ParseMode(mode)
				if err != nil {
					return err
				}
				opts.Filter = &filter.Spec{Pattern: pattern, Mode: m, CaseSensitive: caseSensitive}
			}

			opts.Stdout = cmd.OutOrStdout()
			opts.Stderr = cmd.ErrOrStderr()
			return runApp(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.ConfigPath, "config", "", "Config file (default ~/.config/logviewer/config.toml)")
	flags.StringVar(&opts.PrefsPath, "session", "", "Session file (default ~/.config/logviewer/session.toml)")
	flags.StringVarP(&opts.Encoding, "encoding", "e", "", "Force an encoding, e.g. utf-16le or windows-1252 (default auto)")
	flags.IntVarP(&intervalMS, "interval", "i", 0, "Poll interval in milliseconds, at least 100")
	flags.IntVarP(&opts.MaxLines, "max-lines", "n", 0, "Lines kept in memory")
	flags.BoolVar(&opts.FromStart, "from-start", false, "Read large files from the beginning instead of the end")
	flags.BoolVarP(&opts.Watch, "watch", "w", false, "Wake on file system events in addition to polling")
	flags.BoolVar(&opts.Plain, "plain", false, "No TUI; print matching lines to stdout")
	flags.BoolVar(&opts.Debug, "debug", false, "Log at debug level")
	flags.StringVarP(&pattern, "filter", "f", "", "Filter pattern (default: the last session's)")
	flags.StringVarP(&mode, "mode", "m", "contains", "Filter mode: contains, starts_with, ends_with, regex, exact_match, not_contains")
	flags.BoolVarP(&caseSensitive, "case-sensitive", "c", false, "Match case")

	return cmd
}
