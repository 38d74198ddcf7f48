package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kapu/symbol-social-metadata-go/internal/store"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultWatchInterval = 5 * time.Minute

func newWatchCommand(opts *rootOptions) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the social metadata list refreshed until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			container, err := opts.setup(ctx)
			if err != nil {
				return err
			}
			defer teardown(container)
			logger := container.Logger

			scheduler := container.Scheduler
			if interval > 0 || scheduler == nil {
				if interval <= 0 {
					interval = defaultWatchInterval
				}
				scheduler = store.NewRefreshScheduler(container.Store, interval, container.Config.Refresh.Deadline, logger)
			}

			if err := container.CheckReady(ctx); err != nil {
				logger.Error("Backends not ready", zap.Error(err))
				return err
			}

			var metricsSrv *http.Server
			if addr := container.Config.Metrics.Addr; addr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.HandlerFor(container.Registry, promhttp.HandlerOpts{}))
				mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
					if err := container.CheckReady(r.Context()); err != nil {
						http.Error(w, err.Error(), http.StatusServiceUnavailable)
						return
					}
					_, _ = w.Write([]byte("ok"))
				})
				metricsSrv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
				go func() {
					logger.Info("Metrics server listening", zap.String("addr", addr))
					if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("Metrics server error", zap.Error(err))
					}
				}()
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			scheduler.Start(ctx)
			logger.Info("Watching social metadata, waiting for signals...")

			select {
			case sig := <-sigCh:
				logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
			case <-ctx.Done():
			}

			logger.Info("Shutting down gracefully...")
			cancel()
			scheduler.Stop()

			if metricsSrv != nil {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
					logger.Error("Error during metrics server shutdown", zap.Error(err))
				}
			}

			logger.Info("Shutdown complete")
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "Refresh interval (overrides REFRESH_INTERVAL_SECONDS)")
	return cmd
}
