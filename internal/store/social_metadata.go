// Package store holds the social metadata list for client code, along with
// the loading and initialized flags, and refreshes it from the node on demand.
package store

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/kapu/symbol-social-metadata-go/internal/domain"
	"github.com/kapu/symbol-social-metadata-go/internal/service/metadata"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
)

// Fetcher runs one full fetch-and-parse cycle.
type Fetcher interface {
	FetchAll(ctx context.Context) metadata.FetchResult
}

// Exporter receives every list the store commits.
type Exporter interface {
	ReplaceAll(ctx context.Context, entries []domain.SocialMetadataEntry) error
}

type SocialMetadataStore struct {
	fetcher  Fetcher
	backend  Backend
	exporter Exporter
	logger   *zap.Logger

	loading     atomic.Bool
	initialized atomic.Bool

	actionMu sync.Mutex
	lastMu   sync.RWMutex
	last     *metadata.FetchResult
}

// NewSocialMetadataStore builds a store. A nil backend means in-memory state.
func NewSocialMetadataStore(fetcher Fetcher, backend Backend, logger *zap.Logger) *SocialMetadataStore {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SocialMetadataStore{
		fetcher: fetcher,
		backend: backend,
		logger:  logger,
	}
}

// SetExporter mirrors committed lists to e, for example a database table.
func (s *SocialMetadataStore) SetExporter(e Exporter) {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()
	s.exporter = e
}

// InitializePage marks the store initialized and loads the list.
func (s *SocialMetadataStore) InitializePage(ctx context.Context) []domain.SocialMetadataEntry {
	s.initialized.Store(true)
	return s.FetchSocialMetadata(ctx)
}

// UninitializePage drops the current list.
func (s *SocialMetadataStore) UninitializePage(ctx context.Context) {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()

	s.initialized.Store(false)
	if err := s.backend.Clear(ctx); err != nil {
		s.logger.Error("Failed to clear social metadata", zap.Error(err))
	}
	s.lastMu.Lock()
	s.last = nil
	s.lastMu.Unlock()
}

// FetchSocialMetadata refreshes the list and replaces the stored one wholesale.
// It never fails: a failed fetch stores, and returns, an empty or partial list.
func (s *SocialMetadataStore) FetchSocialMetadata(ctx context.Context) []domain.SocialMetadataEntry {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()

	s.logger.Info("Fetching social metadata...")
	s.loading.Store(true)
	defer s.loading.Store(false)

	var result metadata.FetchResult
	var pc panics.Catcher
	pc.Try(func() { result = s.fetcher.FetchAll(ctx) })
	if r := pc.Recovered(); r != nil {
		s.logger.Error("Error fetching social metadata", zap.Any("panic", r.Value))
		result = metadata.FetchResult{Outcome: metadata.OutcomeFailed, Err: r.AsError()}
	}

	entries := result.Entries
	if entries == nil {
		entries = []domain.SocialMetadataEntry{}
	}

	if err := s.backend.Save(ctx, entries); err != nil {
		s.logger.Error("Failed to store social metadata", zap.Error(err))
	}
	if s.exporter != nil {
		if err := s.exporter.ReplaceAll(ctx, entries); err != nil {
			s.logger.Error("Failed to export social metadata", zap.Error(err))
		}
	}

	s.lastMu.Lock()
	s.last = &result
	s.lastMu.Unlock()

	s.logger.Info("Fetched social metadata",
		zap.Int("items", len(entries)),
		zap.String("outcome", result.Outcome.String()),
	)
	return entries
}

func (s *SocialMetadataStore) Initialized() bool {
	return s.initialized.Load()
}

func (s *SocialMetadataStore) IsLoading() bool {
	return s.loading.Load()
}

// SocialMetadata returns the stored list, or an empty list if the backend cannot be read.
func (s *SocialMetadataStore) SocialMetadata(ctx context.Context) []domain.SocialMetadataEntry {
	entries, err := s.backend.Load(ctx)
	if err != nil {
		s.logger.Error("Failed to load social metadata", zap.Error(err))
		return []domain.SocialMetadataEntry{}
	}
	return entries
}

// LastResult reports the details of the most recent fetch, if any.
func (s *SocialMetadataStore) LastResult() (metadata.FetchResult, bool) {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	if s.last == nil {
		return metadata.FetchResult{}, false
	}
	return *s.last, true
}
