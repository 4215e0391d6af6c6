package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/scorecard/internal/config"
	"github.com/JonMunkholm/scorecard/internal/logging"
)

// cliOptions are the persistent flags shared by all commands.
type cliOptions struct {
	envFile string
	debug   bool
	format  string
	cfg     *config.Config
}

func rootCommand() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:           "scorecard",
		Short:         "Golf scorecard transcription and ingest",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Environment file to load if present")
	rootCmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "Enable debug output")
	rootCmd.PersistentFlags().StringVarP(&opts.format, "format", "f", "table", "Output format: table, json")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return opts.initialize()
	}

	rootCmd.AddCommand(
		parseCommand(opts),
		scanCommand(opts),
		listCommand(opts),
		serveCommand(opts),
	)

	return rootCmd
}

// initialize loads the environment file and configuration and sets up
// logging. Diagnostics go to stderr so stdout stays machine readable.
func (o *cliOptions) initialize() error {
	envLoaded := godotenv.Load(o.envFile) == nil

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if o.debug {
		cfg.Logging.Level = "debug"
	}
	slog.SetDefault(logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format))
	if envLoaded {
		slog.Debug("loaded environment file", "path", o.envFile)
	}

	o.cfg = cfg
	return nil
}
