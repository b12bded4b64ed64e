package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"lookFeed/domain"
	"lookFeed/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistory struct {
	shown       map[string]struct{}
	err         error
	getCalls    int
	recordCalls int
	recorded    []string
}

func (f *fakeHistory) GetShownSet(_ context.Context, _ string) (map[string]struct{}, error) {
	f.getCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.shown, nil
}

func (f *fakeHistory) RecordShown(_ context.Context, _ string, ids []string) error {
	f.recordCalls++
	f.recorded = append(f.recorded, ids...)
	return f.err
}

type fakeSink struct {
	featureEvents []map[string]any
	actionEvents  []map[string]any
}

func (f *fakeSink) PublishFeatureEvent(_ context.Context, _ string, payload map[string]any) {
	f.featureEvents = append(f.featureEvents, payload)
}

func (f *fakeSink) PublishActionEvent(_ context.Context, _ string, payload map[string]any) {
	f.actionEvents = append(f.actionEvents, payload)
}

func testFeedConfig() config.FeedConfig {
	return config.FeedConfig{
		DefaultSize:   10,
		MaxSize:       100,
		PersonalRatio: 0.75,
		CategoryRatio: 0.15,
		FreshRatio:    0.10,
		PopularLimit:  100,
		RecentLimit:   100,
		RecentHours:   24,
		CategoryLimit: 50,
		SourceTimeout: time.Second,
		HistoryTTL:    time.Hour,
	}
}

func serviceCatalog() *fakeCatalog {
	cat := &fakeCatalog{
		popular: []string{"p1", "p2", "p3", "p4"},
		recent:  []string{"r1", "r2", "p1"},
		byKey:   map[string][]string{"shoes": {"s1", "s2"}},
	}
	cat.products = make(map[string]domain.Product)
	for _, id := range []string{"p1", "p2", "p3", "p4", "r1", "r2", "s1", "s2"} {
		cat.products[id] = domain.Product{ProductID: id}
	}
	return cat
}

func feedIDs(result domain.FeedResult) []string {
	out := make([]string, 0, len(result.Feed))
	for _, p := range result.Feed {
		out = append(out, p.ProductID)
	}
	return out
}

func TestAssembleFeed_NoDuplicatesWithinSizeBound(t *testing.T) {
	svc := NewFeedService(serviceCatalog(), &fakeHistory{}, nil, nil, nil, testFeedConfig())

	result, err := svc.AssembleFeed(context.Background(), "user-1", "web", nil, 5)

	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.Feed), 5)

	seen := make(map[string]struct{})
	for _, id := range feedIDs(result) {
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestAssembleFeed_ExcludesShownHistory(t *testing.T) {
	history := &fakeHistory{shown: map[string]struct{}{"p1": {}, "r1": {}}}
	svc := NewFeedService(serviceCatalog(), history, nil, nil, nil, testFeedConfig())

	result, err := svc.AssembleFeed(context.Background(), "user-1", "web", nil, 10)

	require.NoError(t, err)
	assert.NotContains(t, feedIDs(result), "p1")
	assert.NotContains(t, feedIDs(result), "r1")
	assert.NotEmpty(t, result.Feed)

	// what went out is exactly what gets recorded
	assert.Equal(t, 1, history.recordCalls)
	assert.Equal(t, feedIDs(result), history.recorded)
}

func TestAssembleFeed_AnonymousSkipsHistory(t *testing.T) {
	for _, userID := range []string{AnonymousUserID, ""} {
		history := &fakeHistory{shown: map[string]struct{}{"p1": {}}}
		svc := NewFeedService(serviceCatalog(), history, nil, nil, nil, testFeedConfig())

		result, err := svc.AssembleFeed(context.Background(), userID, "web", nil, 10)

		require.NoError(t, err)
		assert.Equal(t, 0, history.getCalls)
		assert.Equal(t, 0, history.recordCalls)
		assert.Contains(t, feedIDs(result), "p1")
	}
}

func TestAssembleFeed_HistoryFailureDegradesToEmptySet(t *testing.T) {
	history := &fakeHistory{err: errors.New("redis down")}
	svc := NewFeedService(serviceCatalog(), history, nil, nil, nil, testFeedConfig())

	result, err := svc.AssembleFeed(context.Background(), "user-1", "web", nil, 10)

	require.NoError(t, err)
	assert.NotEmpty(t, result.Feed)
}

func TestAssembleFeed_CatalogUnavailable(t *testing.T) {
	cat := serviceCatalog()
	cat.retrieveErr = errors.New("pg down")
	svc := NewFeedService(cat, &fakeHistory{}, nil, nil, nil, testFeedConfig())

	_, err := svc.AssembleFeed(context.Background(), "user-1", "web", []string{"shoes"}, 10)

	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}

func TestAssembleFeed_ScorerOrdersPersonalBucket(t *testing.T) {
	cat := serviceCatalog()
	cat.popular = []string{"p1", "p2", "p3"}
	cat.recent = nil
	scorer := &fakeScorer{scores: map[string]float64{"p1": 0.1, "p2": 0.9, "p3": 0.5}}
	svc := NewFeedService(cat, &fakeHistory{}, nil, scorer, nil, testFeedConfig())

	result, err := svc.AssembleFeed(context.Background(), "user-1", "web", nil, 10)

	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p3", "p1"}, feedIDs(result))
}

func TestAssembleFeed_CategoryKeysDiversify(t *testing.T) {
	svc := NewFeedService(serviceCatalog(), &fakeHistory{}, nil, nil, nil, testFeedConfig())

	result, err := svc.AssembleFeed(context.Background(), "user-1", "web", []string{"shoes"}, 10)

	require.NoError(t, err)
	assert.Contains(t, feedIDs(result), "s1")
}

func TestAssembleFeed_PublishesFeatureEvent(t *testing.T) {
	sink := &fakeSink{}
	svc := NewFeedService(serviceCatalog(), &fakeHistory{}, nil, nil, sink, testFeedConfig())

	result, err := svc.AssembleFeed(context.Background(), "user-1", "ios", nil, 10)

	require.NoError(t, err)
	require.Len(t, sink.featureEvents, 1)
	assert.Equal(t, "user-1", sink.featureEvents[0]["user_id"])
	assert.Equal(t, "ios", sink.featureEvents[0]["device"])
	assert.Len(t, sink.featureEvents[0]["candidates"], len(result.Feed))
}

func TestAssembleFeed_DefaultSizeWhenUnspecified(t *testing.T) {
	svc := NewFeedService(serviceCatalog(), &fakeHistory{}, nil, nil, nil, testFeedConfig())

	result, err := svc.AssembleFeed(context.Background(), "user-1", "web", nil, 0)

	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.Feed), testFeedConfig().DefaultSize)
	assert.NotEmpty(t, result.Feed)
}

func TestAssembleFeed_CancelledContext(t *testing.T) {
	svc := NewFeedService(serviceCatalog(), &fakeHistory{}, nil, nil, nil, testFeedConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.AssembleFeed(ctx, "user-1", "web", nil, 10)

	assert.Error(t, err)
}
