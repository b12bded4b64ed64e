package feed

import (
	"context"
	"errors"
	"testing"

	"lookFeed/domain"

	"github.com/stretchr/testify/assert"
)

type fakeStore struct {
	products map[string]domain.Product
	err      error
	calls    int
}

func (f *fakeStore) GetByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func catalogWith(ids ...string) *fakeStore {
	products := make(map[string]domain.Product, len(ids))
	for _, id := range ids {
		title := "title-" + id
		products[id] = domain.Product{ProductID: id, Title: &title}
	}
	return &fakeStore{products: products}
}

type fakeCatalog struct {
	fakeStore

	popular     []string
	recent      []string
	byKey       map[string][]string
	retrieveErr error
}

func (f *fakeCatalog) PopularIDs(_ context.Context, limit int) ([]string, error) {
	if f.retrieveErr != nil {
		return nil, f.retrieveErr
	}
	return capIDs(f.popular, limit), nil
}

func (f *fakeCatalog) RecentIDs(_ context.Context, _ int, limit int) ([]string, error) {
	if f.retrieveErr != nil {
		return nil, f.retrieveErr
	}
	return capIDs(f.recent, limit), nil
}

func (f *fakeCatalog) IDsByCategoryOrBrand(_ context.Context, key string, limit int) ([]string, error) {
	if f.retrieveErr != nil {
		return nil, f.retrieveErr
	}
	return capIDs(f.byKey[key], limit), nil
}

func capIDs(ids []string, limit int) []string {
	if limit > 0 && len(ids) > limit {
		return ids[:limit]
	}
	return ids
}

func TestHydrate_PartialPrimaryResultIsTrusted(t *testing.T) {
	primary := catalogWith("a", "c")
	secondary := catalogWith("a", "b", "c")
	h := NewHydrator(primary, secondary, false)

	hydrated, err := h.Hydrate(context.Background(), []string{"a", "b", "c"})

	assert.NoError(t, err)
	assert.Len(t, hydrated, 2)
	assert.Equal(t, 0, secondary.calls, "secondary must not be consulted on a partial hit")
}

func TestHydrate_EmptyPrimaryFallsBackToSecondary(t *testing.T) {
	primary := catalogWith()
	secondary := catalogWith("a", "b")
	h := NewHydrator(primary, secondary, false)

	hydrated, err := h.Hydrate(context.Background(), []string{"a", "b"})

	assert.NoError(t, err)
	assert.Len(t, hydrated, 2)
	assert.Equal(t, 1, secondary.calls)
}

func TestHydrate_StubsWhenAllStoresEmpty(t *testing.T) {
	h := NewHydrator(catalogWith(), catalogWith(), true)

	hydrated, err := h.Hydrate(context.Background(), []string{"a", "b"})

	assert.NoError(t, err)
	assert.Len(t, hydrated, 2)
	assert.Nil(t, hydrated["a"].Title)
	assert.Equal(t, "a", hydrated["a"].ProductID)
}

func TestHydrate_NoStubsWithoutPolicy(t *testing.T) {
	h := NewHydrator(catalogWith(), nil, false)

	hydrated, err := h.Hydrate(context.Background(), []string{"a"})

	assert.NoError(t, err)
	assert.Empty(t, hydrated)
}

func TestHydrate_ErrorOnlyWhenAllStoresHardFail(t *testing.T) {
	primary := &fakeStore{err: errors.New("primary down")}
	secondary := &fakeStore{err: errors.New("secondary down")}
	h := NewHydrator(primary, secondary, true)

	_, err := h.Hydrate(context.Background(), []string{"a"})

	assert.Error(t, err)
}

func TestHydrate_PrimaryFailureCoveredBySecondary(t *testing.T) {
	primary := &fakeStore{err: errors.New("primary down")}
	secondary := catalogWith("a")
	h := NewHydrator(primary, secondary, false)

	hydrated, err := h.Hydrate(context.Background(), []string{"a"})

	assert.NoError(t, err)
	assert.Len(t, hydrated, 1)
}

func TestHydrate_EmptyInput(t *testing.T) {
	primary := &fakeStore{err: errors.New("primary down")}
	h := NewHydrator(primary, nil, false)

	hydrated, err := h.Hydrate(context.Background(), nil)

	assert.NoError(t, err)
	assert.Empty(t, hydrated)
	assert.Equal(t, 0, primary.calls)
}

func TestBuildOrderedFeed_SkipsUnresolvedIDs(t *testing.T) {
	title := "title-b"
	hydrated := map[string]domain.Product{
		"b": {ProductID: "b", Title: &title},
		"d": {ProductID: "d"},
	}

	feed := BuildOrderedFeed([]string{"a", "b", "c", "d"}, hydrated)

	assert.Len(t, feed, 2)
	assert.Equal(t, "b", feed[0].ProductID)
	assert.Equal(t, "d", feed[1].ProductID)
}
