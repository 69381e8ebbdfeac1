package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/riverfall/rflog-go/internal/logfile"
	"github.com/riverfall/rflog-go/pkg/rflog"
)

type parseOptions struct {
	format  string
	kinds   []string
	maxSize int64
}

func newParseCmd(a *app) *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [file...]",
		Short: "Parse log files and print their header and entries",
		Long: `Parse one or more RFLog files and print their header and entries.

Files may be plain text or zstd-compressed. Use "-" to read from stdin.
Without arguments the newest log file in the log directory is parsed.

Parsing stops at the first malformed line; the error names the file
(by position) and the line number.

Examples:
  # Parse a file as JSON Lines
  rflog parse launcher.rflog

  # Only error-stream entries, human-readable
  rflog parse --kinds err --format pretty launcher.rflog.zst

  # Pipe to jq
  rflog parse launcher.rflog | jq 'select(.type == "entry" and .kind == "err")'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "",
		"Output format: jsonl, pretty, msgpack (default from config, else jsonl)")
	cmd.Flags().StringSliceVarP(&opts.kinds, "kinds", "k", nil,
		"Entry kinds to show (comma-separated: out,err)")
	cmd.Flags().Int64Var(&opts.maxSize, "max-size", 0,
		"Maximum decompressed file size in bytes (default from config)")

	return cmd
}

func (a *app) runParse(cmd *cobra.Command, args []string, opts *parseOptions) error {
	settings, err := a.resolveOutput(opts.format, opts.kinds)
	if err != nil {
		return err
	}

	maxSize := opts.maxSize
	if maxSize <= 0 {
		maxSize = a.cfg.MaxFileSize
	}

	paths, err := a.resolvePaths(args)
	if err != nil {
		return err
	}

	out, err := NewOutput(settings.format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	for i, path := range paths {
		if path != stdinPath && a.log.Enabled(cmd.Context(), slog.LevelDebug) {
			if compressed, err := logfile.IsCompressed(path); err == nil {
				a.log.Debug("reading log file", "file", i+1, "zstd", compressed)
			}
		}

		body, err := readBody(cmd.InOrStdin(), path, maxSize)
		if err != nil {
			return fmt.Errorf("file %d: %w", i+1, err)
		}

		f, err := rflog.ParseFile(body)
		if err != nil {
			return fmt.Errorf("file %d: %w", i+1, err)
		}
		a.log.Debug("parsed file", "file", i+1, "entries", len(f.Entries),
			"launcher_version", f.Header.LauncherVersion.String())

		source := sourceName(path)
		if err := out.Header(source, f.Header); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
		for _, e := range f.Entries {
			if !settings.allows(e.Kind) {
				continue
			}
			if err := out.Entry(source, e); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
		}
	}

	return nil
}
