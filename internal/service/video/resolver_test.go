package video

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kapu/workout-planner-go/internal/domain"
)

type fakeTier struct {
	source domain.VideoSource
	search func(ctx context.Context, name string) (domain.VideoSearchResult, error)

	mu    sync.Mutex
	calls []string
}

func (f *fakeTier) Source() domain.VideoSource { return f.source }

func (f *fakeTier) Search(ctx context.Context, name string) (domain.VideoSearchResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
	return f.search(ctx, name)
}

func (f *fakeTier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func okTier(source domain.VideoSource, id string) *fakeTier {
	return &fakeTier{source: source, search: func(_ context.Context, name string) (domain.VideoSearchResult, error) {
		return domain.VideoSearchResult{
			VideoID:      id,
			Title:        name,
			ThumbnailURL: "https://img.youtube.com/vi/" + id + "/mqdefault.jpg",
			ShortsURL:    "https://www.youtube.com/shorts/" + id,
		}, nil
	}}
}

func failingTier(source domain.VideoSource) *fakeTier {
	return &fakeTier{source: source, search: func(context.Context, string) (domain.VideoSearchResult, error) {
		return domain.VideoSearchResult{}, errors.New("unavailable")
	}}
}

type mapCache struct {
	mu   sync.Mutex
	data map[string]domain.VideoSearchResult
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string]domain.VideoSearchResult)}
}

func (m *mapCache) GetVideo(_ context.Context, key string) (domain.VideoSearchResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *mapCache) SetVideo(_ context.Context, key string, result domain.VideoSearchResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = result
}

func TestResolverStopsAtFirstSuccess(t *testing.T) {
	first := okTier(domain.VideoSourceYouTubeAPI, "api123")
	second := okTier(domain.VideoSourceScrapeProxy, "proxy123")
	r := NewResolverWithTiers([]Tier{first, second}, nil, time.Second, zap.NewNop())

	result := r.Resolve(context.Background(), "Squat")
	require.Equal(t, domain.VideoSourceYouTubeAPI, result.Source)
	require.Equal(t, "api123", result.VideoID)
	require.Equal(t, 1, first.callCount())
	require.Zero(t, second.callCount())
}

func TestResolverFallsThroughInOrder(t *testing.T) {
	first := failingTier(domain.VideoSourceYouTubeAPI)
	second := okTier(domain.VideoSourceScrapeProxy, "proxy123")
	r := NewResolverWithTiers([]Tier{first, second}, nil, time.Second, zap.NewNop())

	result := r.Resolve(context.Background(), "Lunge")
	require.Equal(t, domain.VideoSourceScrapeProxy, result.Source)
	require.Equal(t, 1, first.callCount())
	require.Equal(t, 1, second.callCount())
}

func TestResolverAllTiersFailYieldsFallback(t *testing.T) {
	panicking := &fakeTier{source: domain.VideoSourceYouTubeAPI, search: func(context.Context, string) (domain.VideoSearchResult, error) {
		panic("boom")
	}}
	incomplete := &fakeTier{source: domain.VideoSourceScrapeProxy, search: func(context.Context, string) (domain.VideoSearchResult, error) {
		return domain.VideoSearchResult{VideoID: "x"}, nil
	}}
	r := NewResolverWithTiers([]Tier{panicking, incomplete}, nil, time.Second, zap.NewNop())

	result := r.Resolve(context.Background(), "Plank")
	require.True(t, result.IsComplete())
	require.Equal(t, domain.VideoSourceFallback, result.Source)
	require.Equal(t, FallbackResult("Plank"), result)
	require.Equal(t, 1, panicking.callCount())
	require.Equal(t, 1, incomplete.callCount())
}

func TestResolverBoundsEachTier(t *testing.T) {
	hung := &fakeTier{source: domain.VideoSourceYouTubeAPI, search: func(ctx context.Context, _ string) (domain.VideoSearchResult, error) {
		<-ctx.Done()
		return domain.VideoSearchResult{}, ctx.Err()
	}}
	next := okTier(domain.VideoSourceScrapeProxy, "proxy123")
	r := NewResolverWithTiers([]Tier{hung, next}, nil, 20*time.Millisecond, zap.NewNop())

	start := time.Now()
	result := r.Resolve(context.Background(), "Burpee")
	require.Equal(t, domain.VideoSourceScrapeProxy, result.Source)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestResolverCachesNetworkResultsOnly(t *testing.T) {
	cache := newMapCache()
	tier := okTier(domain.VideoSourceScrapeProxy, "proxy123")
	r := NewResolverWithTiers([]Tier{tier}, cache, time.Second, zap.NewNop())

	first := r.Resolve(context.Background(), "Push Up")
	second := r.Resolve(context.Background(), "  push   up ")
	require.Equal(t, first, second)
	require.Equal(t, 1, tier.callCount())

	down := NewResolverWithTiers([]Tier{failingTier(domain.VideoSourceScrapeProxy)}, cache, time.Second, zap.NewNop())
	_ = down.Resolve(context.Background(), "Deadlift")
	_, cached := cache.GetVideo(context.Background(), "video:deadlift")
	require.False(t, cached)
}

func TestResolverSources(t *testing.T) {
	r := NewResolverWithTiers([]Tier{okTier(domain.VideoSourceScrapeProxy, "a")}, nil, 0, nil)
	require.Equal(t, []domain.VideoSource{domain.VideoSourceScrapeProxy, domain.VideoSourceFallback}, r.Sources())
}

func TestFallbackResult(t *testing.T) {
	result := FallbackResult("Push-up")
	require.Empty(t, result.VideoID)
	require.Equal(t, "Push-up", result.Title)
	require.Equal(t, "https://placehold.co/200x120", result.ThumbnailURL)
	require.Equal(t, "https://www.youtube.com/results?search_query=Push-up%20exercise%20form%20shorts", result.ShortsURL)
	require.True(t, result.IsComplete())
}
