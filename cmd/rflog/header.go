package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riverfall/rflog-go/pkg/rflog"
)

func newHeaderCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "header [file...]",
		Short: "Print only the header of log files",
		Long: `Parse and print only the header line of one or more RFLog files.

Only the first line of each file is read, so this is fast on large logs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := a.resolveOutput(format, nil)
			if err != nil {
				return err
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
				line, found, err := readHeaderLine(cmd.InOrStdin(), path)
				if err != nil {
					return fmt.Errorf("file %d: %w", i+1, err)
				}
				if !found {
					return fmt.Errorf("file %d: %w", i+1, &rflog.ParseError{Kind: rflog.MissingHeaderLine, Line: 1})
				}

				h, err := rflog.ParseHeader(line)
				if err != nil {
					return fmt.Errorf("file %d: %w", i+1, err)
				}
				if err := out.Header(sourceName(path), h); err != nil {
					return fmt.Errorf("output error: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "",
		"Output format: jsonl, pretty, msgpack (default from config, else jsonl)")

	return cmd
}
