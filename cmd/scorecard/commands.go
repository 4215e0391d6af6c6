package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/scorecard/internal/app"
	"github.com/JonMunkholm/scorecard/internal/core"
	"github.com/JonMunkholm/scorecard/internal/ocr"
	"github.com/JonMunkholm/scorecard/internal/store"
)

func parseCommand(opts *cliOptions) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse a scorecard transcription",
		Long: `Parse a transcribed scorecard read from a file, or from stdin when the
argument is "-" or omitted. With --save the accepted records are stored.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := "-"
			if len(args) == 1 {
				source = args[0]
			}
			text, err := readSource(cmd.InOrStdin(), source)
			if err != nil {
				return err
			}

			if !save {
				parseOpts, err := core.ParseOptionsFromConfig(opts.cfg.Scan)
				if err != nil {
					return err
				}
				result, err := core.Parse(text, parseOpts)
				if err != nil {
					return userError(err)
				}
				return writeParseResult(cmd.OutOrStdout(), opts.format, result)
			}

			a, err := app.New(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Service.IngestText(cmd.Context(), source, text)
			if err != nil {
				return userError(err)
			}
			return writeScanResult(cmd.OutOrStdout(), opts.format, res)
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Store accepted records")
	return cmd
}

func scanCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <image>",
		Short: "Transcribe a scorecard photo and store its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := ocr.LoadImage(args[0], opts.cfg.OCR.MaxImageSize)
			if err != nil {
				return userError(err)
			}

			a, err := app.New(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Service.ScanImage(cmd.Context(), args[0], image)
			if err != nil {
				return userError(err)
			}
			return writeScanResult(cmd.OutOrStdout(), opts.format, res)
		},
	}
}

func listCommand(opts *cliOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored golfer records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			records, err := a.Service.ListRecords(cmd.Context(), store.ClampLimit(limit))
			if err != nil {
				return userError(err)
			}
			return writeStoredRecords(cmd.OutOrStdout(), opts.format, records)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", store.DefaultListLimit, "Maximum number of records")
	return cmd
}

func serveCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Serve(cmd.Context())
		},
	}
}

func readSource(stdin io.Reader, source string) (string, error) {
	var (
		data []byte
		err  error
	)
	if source == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", source, err)
	}
	return string(data), nil
}

// userError replaces a known error with its user message, code and action
// for cobra to print. The technical error is logged and stays unwrappable.
func userError(err error) error {
	if !core.IsUserFacing(err) {
		return err
	}
	userErr := core.NewUserError(err)
	slog.Warn("command failed", "code", userErr.User.Code, "error", userErr.Technical)
	return fmt.Errorf("%w (Code: %s). %s", userErr, userErr.User.Code, userErr.User.Action)
}
