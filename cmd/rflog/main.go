// Command rflog parses and follows Riverfall launcher log files.
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/riverfall/rflog-go/internal/config"
)

// app holds state shared by all subcommands.
type app struct {
	verbose    bool
	configPath string

	cfg *config.Config
	log *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command with all subcommands attached.
func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "rflog",
		Short: "Parse Riverfall launcher log files",
		Long: `rflog parses Riverfall launcher log files (RFLog) into structured records.

An RFLog file starts with a header line describing the launcher, client and
operating system, followed by one [OUT] or [ERR] entry per line.

Configuration is read from --config or the RFLOG_CONFIG environment variable.
Flags take precedence over the configuration file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false,
		"Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "",
		"Path to a YAML configuration file")

	rootCmd.AddCommand(
		newParseCmd(a),
		newHeaderCmd(a),
		newTailCmd(a),
		newCompletionCmd(),
	)

	return rootCmd
}

// setup loads the configuration and builds the logger.
func (a *app) setup(stderr io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	return nil
}
