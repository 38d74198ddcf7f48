package store

import (
	"context"
	"sync"

	"github.com/kapu/symbol-social-metadata-go/internal/constants"
	"github.com/kapu/symbol-social-metadata-go/internal/domain"
	"github.com/kapu/symbol-social-metadata-go/internal/service/kv"
)

// Backend holds the current social metadata list. Save always replaces the whole list.
type Backend interface {
	Load(ctx context.Context) ([]domain.SocialMetadataEntry, error)
	Save(ctx context.Context, entries []domain.SocialMetadataEntry) error
	Clear(ctx context.Context) error
}

type MemoryBackend struct {
	mu      sync.RWMutex
	entries []domain.SocialMetadataEntry
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: []domain.SocialMetadataEntry{}}
}

func (b *MemoryBackend) Load(context.Context) ([]domain.SocialMetadataEntry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.SocialMetadataEntry, len(b.entries))
	copy(out, b.entries)
	return out, nil
}

func (b *MemoryBackend) Save(_ context.Context, entries []domain.SocialMetadataEntry) error {
	next := make([]domain.SocialMetadataEntry, len(entries))
	copy(next, entries)

	b.mu.Lock()
	b.entries = next
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) Clear(ctx context.Context) error {
	return b.Save(ctx, nil)
}

// RedisBackend keeps the list as one JSON document so several processes can read it.
type RedisBackend struct {
	redis *kv.RedisService
	key   string
}

func NewRedisBackend(redis *kv.RedisService, key string) *RedisBackend {
	return &RedisBackend{redis: redis, key: key}
}

func (b *RedisBackend) Load(ctx context.Context) ([]domain.SocialMetadataEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.StoreConfig.RedisTimeout)
	defer cancel()

	entries := []domain.SocialMetadataEntry{}
	if _, err := b.redis.Get(ctx, b.key, &entries); err != nil {
		return []domain.SocialMetadataEntry{}, err
	}
	if entries == nil {
		entries = []domain.SocialMetadataEntry{}
	}
	return entries, nil
}

func (b *RedisBackend) Save(ctx context.Context, entries []domain.SocialMetadataEntry) error {
	if entries == nil {
		entries = []domain.SocialMetadataEntry{}
	}

	ctx, cancel := context.WithTimeout(ctx, constants.StoreConfig.RedisTimeout)
	defer cancel()
	return b.redis.Set(ctx, b.key, entries, 0)
}

func (b *RedisBackend) Clear(ctx context.Context) error {
	return b.redis.Del(ctx, b.key)
}
