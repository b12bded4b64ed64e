package product

import (
	"context"
	"testing"

	"lookFeed/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	product domain.Product
	err     error
	count   int64
}

func (f *fakeRepo) FindByID(_ context.Context, _ string) (domain.Product, error) {
	return f.product, f.err
}

func (f *fakeRepo) IncrementLikeCount(_ context.Context, _ string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.count++
	return f.count, nil
}

func (f *fakeRepo) DecrementLikeCount(_ context.Context, _ string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	if f.count > 0 {
		f.count--
	}
	return f.count, nil
}

type fakeSink struct {
	actions []map[string]any
}

func (f *fakeSink) PublishActionEvent(_ context.Context, _ string, payload map[string]any) {
	f.actions = append(f.actions, payload)
}

func TestGetProductByID(t *testing.T) {
	repo := &fakeRepo{product: domain.Product{ProductID: "p1"}}
	svc := NewProductService(repo, nil)

	got, err := svc.GetProductByID(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, "p1", got.ProductID)
}

func TestGetProductByID_EmptyID(t *testing.T) {
	svc := NewProductService(&fakeRepo{}, nil)

	_, err := svc.GetProductByID(context.Background(), "")

	assert.Error(t, err)
}

func TestGetProductByID_NotFound(t *testing.T) {
	repo := &fakeRepo{err: domain.ErrProductNotFound}
	svc := NewProductService(repo, nil)

	_, err := svc.GetProductByID(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestLikeProduct_PublishesActionEvent(t *testing.T) {
	sink := &fakeSink{}
	svc := NewProductService(&fakeRepo{}, sink)

	count, err := svc.LikeProduct(context.Background(), "u1", "p1")

	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, sink.actions, 1)
	assert.Equal(t, "like", sink.actions[0]["action"])
	assert.Equal(t, "p1", sink.actions[0]["product_id"])
}

func TestUnlikeProduct_FlooredAtZero(t *testing.T) {
	sink := &fakeSink{}
	svc := NewProductService(&fakeRepo{}, sink)

	count, err := svc.UnlikeProduct(context.Background(), "u1", "p1")

	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
	require.Len(t, sink.actions, 1)
	assert.Equal(t, "unlike", sink.actions[0]["action"])
}

func TestAdjustLike_RepoErrorSkipsEvent(t *testing.T) {
	sink := &fakeSink{}
	repo := &fakeRepo{err: domain.ErrProductNotFound}
	svc := NewProductService(repo, sink)

	_, err := svc.LikeProduct(context.Background(), "u1", "p1")

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Empty(t, sink.actions)
}
