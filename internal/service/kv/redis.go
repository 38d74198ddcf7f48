package kv

import (
	"context"
	"fmt"
	"time"

	"github.com/kapu/symbol-social-metadata-go/pkg/errors"
	"github.com/kapu/symbol-social-metadata-go/pkg/json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisService stores JSON documents in Redis.
type RedisService struct {
	client *redis.Client
	logger *zap.Logger
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisService connects and pings Redis before returning.
func NewRedisService(cfg RedisConfig, logger *zap.Logger) (*RedisService, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     4,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", addr),
		zap.Int("db", cfg.DB),
	)

	return NewRedisServiceWithClient(client, logger), nil
}

// NewRedisServiceWithClient wraps an existing client without pinging it.
func NewRedisServiceWithClient(client *redis.Client, logger *zap.Logger) *RedisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisService{
		client: client,
		logger: logger,
	}
}

// Get decodes the JSON stored at key into dest. found is false when the key does not exist.
func (s *RedisService) Get(ctx context.Context, key string, dest any) (found bool, err error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		s.logger.Error("Redis get failed", zap.String("key", key), zap.Error(err))
		return false, errors.NewCacheError("get failed", "get", key, err)
	}

	if dest != nil {
		if err := json.Unmarshal(value, dest); err != nil {
			s.logger.Error("Redis unmarshal failed", zap.String("key", key), zap.Error(err))
			return false, errors.NewCacheError("unmarshal failed", "get", key, err)
		}
	}
	return true, nil
}

// Set stores value as JSON. A zero ttl keeps the key until it is overwritten or deleted.
func (s *RedisService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.NewCacheError("marshal failed", "set", key, err)
	}

	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		s.logger.Error("Redis set failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("set failed", "set", key, err)
	}
	return nil
}

func (s *RedisService) Del(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Error("Redis delete failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("delete failed", "del", key, err)
	}
	return nil
}

func (s *RedisService) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return errors.NewCacheError("ping failed", "ping", "", err)
	}
	return nil
}

func (s *RedisService) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
