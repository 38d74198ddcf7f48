package store

import (
	"context"
	"sync"
	"time"

	"github.com/kapu/symbol-social-metadata-go/internal/domain"
	"go.uber.org/zap"
)

// RefreshScheduler re-runs FetchSocialMetadata on a fixed interval.
type RefreshScheduler struct {
	store    *SocialMetadataStore
	interval time.Duration
	deadline time.Duration
	logger   *zap.Logger
	ticker   *time.Ticker
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewRefreshScheduler builds a scheduler. deadline bounds each refresh; zero means no bound.
func NewRefreshScheduler(store *SocialMetadataStore, interval, deadline time.Duration, logger *zap.Logger) *RefreshScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RefreshScheduler{
		store:    store,
		interval: interval,
		deadline: deadline,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start initializes the store once, then refreshes it every interval until
// Stop is called or ctx is cancelled.
func (rs *RefreshScheduler) Start(ctx context.Context) {
	rs.ticker = time.NewTicker(rs.interval)

	rs.logger.Info("Social metadata refresh scheduler started",
		zap.Duration("interval", rs.interval))

	go func() {
		defer close(rs.doneCh)
		defer rs.ticker.Stop()

		rs.run(ctx, rs.store.InitializePage)
		for {
			select {
			case <-rs.ticker.C:
				rs.run(ctx, rs.store.FetchSocialMetadata)
			case <-rs.stopCh:
				rs.logger.Info("Social metadata refresh scheduler stopped")
				return
			case <-ctx.Done():
				rs.logger.Info("Social metadata refresh scheduler context cancelled")
				return
			}
		}
	}()
}

// Stop ends the loop and waits for an in-flight refresh to return.
func (rs *RefreshScheduler) Stop() {
	rs.stopOnce.Do(func() {
		close(rs.stopCh)
	})
	if rs.ticker != nil {
		<-rs.doneCh
	}
}

func (rs *RefreshScheduler) run(ctx context.Context, action func(context.Context) []domain.SocialMetadataEntry) {
	runCtx := ctx
	if rs.deadline > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, rs.deadline)
		defer cancel()
	}
	action(runCtx)
}
