package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kapu/symbol-social-metadata-go/internal/app"
	"github.com/kapu/symbol-social-metadata-go/internal/config"
	"github.com/kapu/symbol-social-metadata-go/internal/util"
	"github.com/kapu/symbol-social-metadata-go/pkg/json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const buildTimeout = 30 * time.Second

type rootOptions struct {
	nodeURL  string
	logLevel string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "socialmeta",
		Short: "Read social links published as Symbol ledger metadata",
		Long: `socialmeta fetches every metadata entry stored under the social metadata key,
decodes the hex encoded JSON values and prints the valid social links.

Examples:
   socialmeta fetch                       # one full fetch, JSON to stdout
   socialmeta watch                       # refresh on REFRESH_INTERVAL_SECONDS
   socialmeta search --source-address T…  # formatted generic metadata search`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.nodeURL, "node", "", "REST gateway URL (overrides SYMBOL_NODE_URL)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug|info|warn|error)")

	cmd.AddCommand(
		newFetchCommand(opts),
		newWatchCommand(opts),
		newSearchCommand(opts),
	)
	return cmd
}

// setup loads configuration, applies flag overrides and assembles the container.
func (o *rootOptions) setup(ctx context.Context) (*app.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.nodeURL != "" {
		cfg.Node.URL = o.nodeURL
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("socialmeta starting...",
		zap.String("node", cfg.Node.URL),
		zap.String("scoped_metadata_key", cfg.Metadata.ScopedMetadataKey),
		zap.String("log_level", cfg.Logging.Level),
	)

	buildCtx, cancel := context.WithTimeout(ctx, buildTimeout)
	defer cancel()

	container, err := app.Build(buildCtx, cfg, logger)
	if err != nil {
		logger.Error("Failed to assemble application services", zap.Error(err))
		_ = logger.Sync()
		return nil, err
	}
	return container, nil
}

func teardown(container *app.Container) {
	container.Close()
	_ = container.Logger.Sync()
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
