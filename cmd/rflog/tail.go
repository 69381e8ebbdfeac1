package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/riverfall/rflog-go/pkg/rflog"
)

// skipWarnRate is the maximum number of "skipping line" warnings per second.
const skipWarnRate = 10

type tailOptions struct {
	format string
	kinds  []string
	logDir string
	poll   bool
}

func newTailCmd(a *app) *cobra.Command {
	opts := &tailOptions{}

	cmd := &cobra.Command{
		Use:   "tail [file]",
		Short: "Follow a log file and print entries as they are written",
		Long: `Follow an RFLog file while the launcher writes it and print its header
and each new entry.

Without a file argument the newest log file in the log directory is
followed. Malformed entries are reported on stderr and following continues.

Examples:
  # Follow the newest log file
  rflog tail

  # Follow a specific file, only errors, human-readable
  rflog tail --kinds err --format pretty launcher.rflog

  # Use polling on network shares
  rflog tail --poll /mnt/share/launcher.rflog`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTail(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "",
		"Output format: jsonl, pretty, msgpack (default from config, else jsonl)")
	cmd.Flags().StringSliceVarP(&opts.kinds, "kinds", "k", nil,
		"Entry kinds to show (comma-separated: out,err)")
	cmd.Flags().StringVarP(&opts.logDir, "log-dir", "d", "",
		"Log directory (auto-detected if not specified)")
	cmd.Flags().BoolVar(&opts.poll, "poll", false,
		"Poll for changes instead of using filesystem notifications")

	return cmd
}

func (a *app) runTail(cmd *cobra.Command, args []string, opts *tailOptions) error {
	// Setup context with signal handling
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	settings, err := a.resolveOutput(opts.format, opts.kinds)
	if err != nil {
		return err
	}

	followOpts := []rflog.FollowOption{
		rflog.WithLogger(a.log),
		rflog.WithPoll(opts.poll || a.cfg.Follow.Poll),
	}
	if len(args) == 1 {
		followOpts = append(followOpts, rflog.WithPath(args[0]))
	} else {
		logDir := opts.logDir
		if logDir == "" {
			logDir = a.cfg.LogDir
		}
		followOpts = append(followOpts, rflog.WithLogDir(logDir))
	}
	if settings.kinds != nil {
		kinds := make([]rflog.Kind, 0, len(settings.kinds))
		for k := range settings.kinds {
			kinds = append(kinds, k)
		}
		followOpts = append(followOpts, rflog.WithKinds(kinds...))
	}

	follower, err := rflog.NewFollower(followOpts...)
	if err != nil {
		return err
	}
	defer follower.Close()

	records, errs, err := follower.Follow(ctx)
	if err != nil {
		return err
	}

	out, err := NewOutput(settings.format, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	source := sourceName(follower.Path())
	skips := newSkipReporter(a.log, rate.NewLimiter(skipWarnRate, skipWarnRate))

	for {
		select {
		case r, ok := <-records:
			if !ok {
				return skips.drain(errs)
			}
			if err := writeRecord(out, source, r); err != nil {
				return fmt.Errorf("output error: %w", err)
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if isHeaderError(err) {
				return err
			}
			skips.report(err)

		case <-ctx.Done():
			return nil
		}
	}
}

func writeRecord(out *Output, source string, r rflog.Record) error {
	switch {
	case r.Header != nil:
		return out.Header(source, *r.Header)
	case r.Entry != nil:
		return out.Entry(source, *r.Entry)
	}
	return nil
}

// skipReporter logs lines the follower skipped, at a limited rate so a
// corrupt file cannot flood stderr.
type skipReporter struct {
	log        *slog.Logger
	limiter    *rate.Limiter
	suppressed int
}

func newSkipReporter(log *slog.Logger, limiter *rate.Limiter) *skipReporter {
	return &skipReporter{log: log, limiter: limiter}
}

func (s *skipReporter) report(err error) {
	if !s.limiter.Allow() {
		s.suppressed++
		return
	}
	if s.suppressed > 0 {
		s.log.Warn("suppressed skip warnings", "count", s.suppressed)
		s.suppressed = 0
	}
	s.log.Warn("skipping line", "error", err)
}

// drain reports errors still buffered after the record channel closed.
// A header failure is returned since it ended the follow.
func (s *skipReporter) drain(errs <-chan error) error {
	if errs == nil {
		return nil
	}
	for err := range errs {
		if isHeaderError(err) {
			return err
		}
		s.report(err)
	}
	if s.suppressed > 0 {
		s.log.Warn("suppressed skip warnings", "count", s.suppressed)
		s.suppressed = 0
	}
	return nil
}

func isHeaderError(err error) bool {
	kind, ok := rflog.KindOfError(err)
	if !ok {
		return false
	}
	return kind == rflog.MalformedHeader || kind == rflog.BannerMismatch || kind == rflog.FieldOutOfRange
}
