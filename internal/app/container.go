package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kapu/symbol-social-metadata-go/internal/config"
	"github.com/kapu/symbol-social-metadata-go/internal/metrics"
	"github.com/kapu/symbol-social-metadata-go/internal/service/database"
	"github.com/kapu/symbol-social-metadata-go/internal/service/kv"
	"github.com/kapu/symbol-social-metadata-go/internal/service/metadata"
	"github.com/kapu/symbol-social-metadata-go/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Container bundles the assembled services used by the commands.
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Registry *prometheus.Registry

	Client    *metadata.Client
	Store     *store.SocialMetadataStore
	Scheduler *store.RefreshScheduler

	closers   []func()
	readiness []readinessCheck
}

type readinessCheck struct {
	name string
	ping func(context.Context) error
}

// Build assembles the metadata client, the store and its optional Redis and
// PostgreSQL backends. The scheduler is nil when periodic refresh is disabled.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		closers   []func()
		readiness []readinessCheck
	)
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	client := metadata.NewClient(metadata.ClientConfig{
		NodeURL:           metadata.StaticNodeURL(cfg.Node.URL),
		ScopedMetadataKey: cfg.Metadata.ScopedMetadataKey,
		PageSize:          cfg.Metadata.PageSize,
		HTTPClient:        &http.Client{Timeout: cfg.Node.HTTPTimeout},
		Metrics:           m,
	}, logger)

	if cfg.Node.URL == "" {
		logger.Warn("SYMBOL_NODE_URL is empty; fetches will report not ready")
	}

	var backend store.Backend = store.NewMemoryBackend()
	if cfg.Redis.Enabled {
		redisSvc, err := kv.NewRedisService(kv.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis service: %w", err)
		}
		closers = append(closers, func() {
			_ = redisSvc.Close()
		})
		readiness = append(readiness, readinessCheck{name: "redis", ping: redisSvc.Ping})
		backend = store.NewRedisBackend(redisSvc, cfg.Redis.Key)
	}

	socialStore := store.NewSocialMetadataStore(client, backend, logger)

	if cfg.Postgres.Enabled {
		postgresSvc, err := database.NewPostgresService(ctx, database.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
			SSLMode:  cfg.Postgres.SSLMode,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres service: %w", err)
		}
		closers = append(closers, func() {
			_ = postgresSvc.Close()
		})

		readiness = append(readiness, readinessCheck{name: "postgres", ping: postgresSvc.Ping})

		repo := database.NewSocialMetadataRepository(postgresSvc, logger)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to prepare postgres schema: %w", err)
		}
		socialStore.SetExporter(repo)
	}

	var scheduler *store.RefreshScheduler
	if cfg.Refresh.Interval > 0 {
		scheduler = store.NewRefreshScheduler(socialStore, cfg.Refresh.Interval, cfg.Refresh.Deadline, logger)
	}

	return &Container{
		Config:    cfg,
		Logger:    logger,
		Registry:  registry,
		Client:    client,
		Store:     socialStore,
		Scheduler: scheduler,
		closers:   closers,
		readiness: readiness,
	}, nil
}

// CheckReady pings every configured backend and returns the first failure.
func (c *Container) CheckReady(ctx context.Context) error {
	for _, check := range c.readiness {
		if err := check.ping(ctx); err != nil {
			return fmt.Errorf("%s is not ready: %w", check.name, err)
		}
	}
	return nil
}

// Close releases backends in reverse order of creation.
func (c *Container) Close() {
	if c == nil {
		return
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
