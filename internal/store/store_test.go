package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/kapu/symbol-social-metadata-go/internal/domain"
	"github.com/kapu/symbol-social-metadata-go/internal/service/kv"
	"github.com/kapu/symbol-social-metadata-go/internal/service/metadata"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type fakeFetcher struct {
	mu      sync.Mutex
	results []metadata.FetchResult
	calls   atomic.Int32
	panics  bool
	during  func()
}

func (f *fakeFetcher) FetchAll(ctx context.Context) metadata.FetchResult {
	n := int(f.calls.Add(1))
	if f.during != nil {
		f.during()
	}
	if f.panics {
		panic("transport exploded")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.results) == 0 {
		return metadata.FetchResult{Outcome: metadata.OutcomeEmpty}
	}
	if n > len(f.results) {
		n = len(f.results)
	}
	return f.results[n-1]
}

type recordingExporter struct {
	got [][]domain.SocialMetadataEntry
	err error
}

func (e *recordingExporter) ReplaceAll(_ context.Context, entries []domain.SocialMetadataEntry) error {
	e.got = append(e.got, entries)
	return e.err
}

func entries(names ...string) []domain.SocialMetadataEntry {
	out := make([]domain.SocialMetadataEntry, 0, len(names))
	for i, n := range names {
		out = append(out, domain.SocialMetadataEntry{
			ID:   domain.SocialMetadataID(i),
			URL:  "https://example.com/" + n,
			Name: n,
		})
	}
	return out
}

func newRedisBackend(t *testing.T) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := kv.NewRedisServiceWithClient(client, zap.NewNop())
	t.Cleanup(func() { _ = svc.Close() })
	return NewRedisBackend(svc, "test:social_metadata"), mr
}

func TestInitialState(t *testing.T) {
	s := NewSocialMetadataStore(&fakeFetcher{}, nil, zap.NewNop())

	assert.False(t, s.Initialized())
	assert.False(t, s.IsLoading())
	assert.Empty(t, s.SocialMetadata(context.Background()))
	assert.NotNil(t, s.SocialMetadata(context.Background()))

	_, ok := s.LastResult()
	assert.False(t, ok)
}

func TestInitializeAndUninitialize(t *testing.T) {
	ctx := context.Background()
	fetcher := &fakeFetcher{results: []metadata.FetchResult{
		{Entries: entries("a", "b"), Outcome: metadata.OutcomeOK},
	}}
	s := NewSocialMetadataStore(fetcher, NewMemoryBackend(), zap.NewNop())

	got := s.InitializePage(ctx)
	assert.Len(t, got, 2)
	assert.True(t, s.Initialized())
	assert.False(t, s.IsLoading())
	assert.Equal(t, entries("a", "b"), s.SocialMetadata(ctx))

	last, ok := s.LastResult()
	require.True(t, ok)
	assert.Equal(t, metadata.OutcomeOK, last.Outcome)

	s.UninitializePage(ctx)
	assert.False(t, s.Initialized())
	assert.Empty(t, s.SocialMetadata(ctx))
	_, ok = s.LastResult()
	assert.False(t, ok)
}

func TestFetchReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	fetcher := &fakeFetcher{results: []metadata.FetchResult{
		{Entries: entries("a", "b", "c"), Outcome: metadata.OutcomeOK},
		{Entries: entries("z"), Outcome: metadata.OutcomeOK},
		{Outcome: metadata.OutcomeFailed, Err: errors.New("boom")},
	}}
	s := NewSocialMetadataStore(fetcher, nil, zap.NewNop())

	s.FetchSocialMetadata(ctx)
	assert.Len(t, s.SocialMetadata(ctx), 3)

	s.FetchSocialMetadata(ctx)
	assert.Equal(t, entries("z"), s.SocialMetadata(ctx))

	got := s.FetchSocialMetadata(ctx)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, s.SocialMetadata(ctx))

	last, ok := s.LastResult()
	require.True(t, ok)
	assert.Equal(t, metadata.OutcomeFailed, last.Outcome)
	assert.EqualError(t, last.Err, "boom")
}

func TestLoadingFlagDuringFetch(t *testing.T) {
	var s *SocialMetadataStore
	var sawLoading bool
	fetcher := &fakeFetcher{during: func() { sawLoading = s.IsLoading() }}
	s = NewSocialMetadataStore(fetcher, nil, zap.NewNop())

	s.FetchSocialMetadata(context.Background())
	assert.True(t, sawLoading)
	assert.False(t, s.IsLoading())
}

func TestFetchRecoversFromPanic(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Save(ctx, entries("old")))

	s := NewSocialMetadataStore(&fakeFetcher{panics: true}, backend, zap.NewNop())
	got := s.FetchSocialMetadata(ctx)

	assert.Empty(t, got)
	assert.Empty(t, s.SocialMetadata(ctx))
	assert.False(t, s.IsLoading())

	last, ok := s.LastResult()
	require.True(t, ok)
	assert.Equal(t, metadata.OutcomeFailed, last.Outcome)
	assert.Error(t, last.Err)
}

func TestExporterReceivesCommittedList(t *testing.T) {
	ctx := context.Background()
	fetcher := &fakeFetcher{results: []metadata.FetchResult{
		{Entries: entries("a"), Outcome: metadata.OutcomeOK},
	}}
	exp := &recordingExporter{err: errors.New("db down")}
	s := NewSocialMetadataStore(fetcher, nil, zap.NewNop())
	s.SetExporter(exp)

	got := s.FetchSocialMetadata(ctx)

	assert.Len(t, got, 1)
	require.Len(t, exp.got, 1)
	assert.Equal(t, entries("a"), exp.got[0])
	assert.Equal(t, entries("a"), s.SocialMetadata(ctx))
}

func TestMemoryBackendCopies(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	in := entries("a")
	require.NoError(t, b.Save(ctx, in))

	in[0].Name = "mutated"
	out, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", out[0].Name)

	out[0].Name = "mutated"
	again, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", again[0].Name)
}

func TestRedisBackend(t *testing.T) {
	ctx := context.Background()
	b, mr := newRedisBackend(t)

	empty, err := b.Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	want := entries("a", "b")
	want[1].ImageURL = "https://img"
	want[1].Namespace = "b.ns"
	require.NoError(t, b.Save(ctx, want))
	assert.True(t, mr.Exists("test:social_metadata"))

	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, b.Save(ctx, nil))
	got, err = b.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, b.Clear(ctx))
	assert.False(t, mr.Exists("test:social_metadata"))
}

func TestStoreWithRedisBackendSharesState(t *testing.T) {
	ctx := context.Background()
	b, _ := newRedisBackend(t)
	fetcher := &fakeFetcher{results: []metadata.FetchResult{
		{Entries: entries("a", "b"), Outcome: metadata.OutcomeOK},
	}}

	writer := NewSocialMetadataStore(fetcher, b, zap.NewNop())
	reader := NewSocialMetadataStore(&fakeFetcher{}, b, zap.NewNop())

	writer.FetchSocialMetadata(ctx)
	assert.Equal(t, entries("a", "b"), reader.SocialMetadata(ctx))
}

func TestStoreRedisUnavailable(t *testing.T) {
	ctx := context.Background()
	b, mr := newRedisBackend(t)
	mr.Close()

	s := NewSocialMetadataStore(&fakeFetcher{results: []metadata.FetchResult{
		{Entries: entries("a"), Outcome: metadata.OutcomeOK},
	}}, b, zap.NewNop())

	got := s.FetchSocialMetadata(ctx)
	assert.Len(t, got, 1)
	assert.NotNil(t, s.SocialMetadata(ctx))
	assert.Empty(t, s.SocialMetadata(ctx))
}

func TestRefreshScheduler(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	fetcher := &fakeFetcher{results: []metadata.FetchResult{
		{Entries: entries("a"), Outcome: metadata.OutcomeOK},
	}}
	s := NewSocialMetadataStore(fetcher, nil, zap.NewNop())
	sched := NewRefreshScheduler(s, 10*time.Millisecond, time.Second, zap.NewNop())

	sched.Start(context.Background())
	require.Eventually(t, func() bool { return fetcher.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	sched.Stop()
	sched.Stop()

	assert.True(t, s.Initialized())
	assert.Len(t, s.SocialMetadata(context.Background()), 1)
}

func TestRefreshSchedulerStopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	fetcher := &fakeFetcher{}
	s := NewSocialMetadataStore(fetcher, nil, zap.NewNop())
	sched := NewRefreshScheduler(s, time.Hour, 0, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	sched.Start(ctx)
	require.Eventually(t, func() bool { return fetcher.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	sched.Stop()

	assert.Equal(t, int32(1), fetcher.calls.Load())
}
