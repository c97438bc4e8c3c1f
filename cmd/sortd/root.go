package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"sortd/pkg/log"
	"sortd/pkg/operation"
	"sortd/pkg/report"
	"sortd/pkg/scan"
)

type rootFlags struct {
	maxConcurrent int
	verbose       bool
	include       []string
	exclude       []string
	reportPath    string
	logFile       string
	strict        bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "sortd <source_folder> <output_folder>",
		Short: "Sort files into per-extension directories",
		Long: `sortd scans source_folder recursively and copies every regular file into
output_folder/<extension>/, bounding the number of concurrent copies.
Files without an extension land in output_folder/no_extension/, and name
collisions are resolved with a counter suffix instead of overwriting.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0], args[1], flags)
		},
	}

	cmd.Flags().IntVar(&flags.maxConcurrent, "max-concurrent", 10, "maximum concurrent copy operations")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "log per-file trace lines")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "glob patterns of files to copy (default: everything)")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "glob patterns of files to skip")
	cmd.Flags().StringVar(&flags.reportPath, "report", "", "write a YAML run summary to this path")
	cmd.Flags().StringVar(&flags.logFile, "log-file", "sortd.log", "append log records to this file")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "exit non-zero when any file fails to copy")

	return cmd
}

func run(ctx context.Context, source, output string, flags *rootFlags) error {
	logger, closer, err := log.New(log.Options{Verbose: flags.verbose, FilePath: flags.logFile})
	if err != nil {
		return err
	}
	defer closer.Close()
	ctx = logger.WithContext(ctx)

	runner, err := operation.NewRunner(flags.maxConcurrent)
	if err != nil {
		logger.Error().Err(err).Msg("invalid concurrency limit")
		return err
	}
	if err := scan.ValidatePatterns(append(flags.include, flags.exclude...)); err != nil {
		logger.Error().Err(err).Msg("invalid filter pattern")
		return err
	}

	logger.Info().
		Str("source", source).
		Str("output", output).
		Int("max_concurrent", flags.maxConcurrent).
		Msg("starting file sort")

	// Source validation happens before anything touches the output tree.
	files, err := scan.Scan(ctx, source, scan.Options{Include: flags.include, Exclude: flags.exclude})
	if err != nil {
		logger.Error().Err(err).Str("source", source).Msg("source validation failed")
		return err
	}
	if len(files) == 0 {
		logger.Warn().Str("source", source).Msg("no files found to process")
		return nil
	}

	if err := os.MkdirAll(output, 0o755); err != nil {
		logger.Error().Err(err).Str("output", output).Msg("creating output folder")
		return errors.Errorf("creating output folder %s: %w", output, err)
	}

	outcomes := runner.Run(ctx, files, output)

	summary := report.Summarize(files, outcomes)
	summary.Emit(ctx)
	summary.Render(os.Stdout)
	if flags.reportPath != "" {
		if err := summary.WriteFile(flags.reportPath); err != nil {
			logger.Error().Err(err).Str("path", flags.reportPath).Msg("writing run summary")
		}
	}

	// Best-effort by default: per-file failures are visible in the summary
	// but only --strict promotes them to the exit code.
	if flags.strict && summary.Failed > 0 {
		return errors.Errorf("%d of %d files failed to copy", summary.Failed, summary.Total)
	}
	return nil
}
