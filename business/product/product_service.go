package product

import (
	"context"
	"errors"
	"fmt"
	"lookFeed/domain"
	"lookFeed/pkg/logger"

	"github.com/google/uuid"
)

// ProductRepository contract interface
type ProductRepository interface {
	FindByID(ctx context.Context, id string) (domain.Product, error)
	IncrementLikeCount(ctx context.Context, id string) (int64, error)
	DecrementLikeCount(ctx context.Context, id string) (int64, error)
}

// EventSink receives like/unlike action events, fire-and-forget.
type EventSink interface {
	PublishActionEvent(ctx context.Context, requestID string, payload map[string]any)
}

type productService struct {
	productRepo ProductRepository
	events      EventSink
}

// NewProductService wires the catalog repository; events may be nil.
func NewProductService(productRepo ProductRepository, events EventSink) *productService {
	return &productService{
		productRepo: productRepo,
		events:      events,
	}
}

func (s *productService) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		logger.Error("invalid product id")
		return nil, errors.New("invalid product id")
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when get product by id")
		return nil, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find product by id", err)
		return nil, err
	}

	return &product, nil
}

// LikeProduct bumps the like counter and returns the new count.
func (s *productService) LikeProduct(ctx context.Context, userID, id string) (int64, error) {
	return s.adjustLike(ctx, userID, id, "like")
}

// UnlikeProduct lowers the like counter (floored at zero) and returns the
// new count.
func (s *productService) UnlikeProduct(ctx context.Context, userID, id string) (int64, error) {
	return s.adjustLike(ctx, userID, id, "unlike")
}

func (s *productService) adjustLike(ctx context.Context, userID, id, action string) (int64, error) {
	if id == "" {
		logger.Error("invalid product id when adjusting like count")
		return 0, errors.New("invalid product id")
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when adjusting like count")
		return 0, fmt.Errorf("context error: %w", err)
	}

	var count int64
	var err error
	if action == "like" {
		count, err = s.productRepo.IncrementLikeCount(ctx, id)
	} else {
		count, err = s.productRepo.DecrementLikeCount(ctx, id)
	}
	if err != nil {
		logger.Error("failed to update like count", err)
		return 0, err
	}

	if s.events != nil {
		s.events.PublishActionEvent(ctx, uuid.NewString(), map[string]any{
			"user_id":    userID,
			"product_id": id,
			"action":     action,
		})
	}

	return count, nil
}
