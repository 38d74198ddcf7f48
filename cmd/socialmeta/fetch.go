package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newFetchCommand(opts *rootOptions) *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch all social metadata once and print it as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			container, err := opts.setup(ctx)
			if err != nil {
				return err
			}
			defer teardown(container)

			entries := container.Store.InitializePage(ctx)

			if summary {
				result, _ := container.Store.LastResult()
				container.Logger.Info("Fetch summary",
					zap.String("run_id", result.RunID),
					zap.String("outcome", result.Outcome.String()),
					zap.Int("pages", result.Pages),
					zap.Int("raw_records", result.RawRecords),
					zap.Int("skipped", result.Skipped),
					zap.Duration("elapsed", result.Duration),
				)
			}
			return writeJSON(cmd.OutOrStdout(), entries)
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false, "Log a summary of the fetch run")
	return cmd
}
