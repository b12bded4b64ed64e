package postgres

import (
	"context"
	"errors"
	"fmt"
	"lookFeed/domain"

	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		DB: db,
	}
}

// PopularIDs returns product ids ordered by a popularity proxy.
// Placeholder popularity = latest updated_at until a real signal lands.
func (r *ProductRepository) PopularIDs(ctx context.Context, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var ids []string
	err := r.DB.WithContext(ctx).
		Model(&domain.Product{}).
		Order("updated_at DESC NULLS LAST, created_at DESC NULLS LAST").
		Limit(limit).
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query popular products: %w", err)
	}

	return ids, nil
}

// RecentIDs returns ids of products parsed within the last `hours` hours,
// most recent first. Null parsed_at sorts last.
func (r *ProductRepository) RecentIDs(ctx context.Context, hours, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var ids []string
	err := r.DB.WithContext(ctx).
		Model(&domain.Product{}).
		Where("parsed_at >= NOW() - make_interval(hours => ?)", hours).
		Order("parsed_at DESC NULLS LAST").
		Limit(limit).
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query recent products: %w", err)
	}

	return ids, nil
}

// IDsByCategoryOrBrand matches the key case-insensitively against brand or
// vendor, newest first.
func (r *ProductRepository) IDsByCategoryOrBrand(ctx context.Context, key string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var ids []string
	err := r.DB.WithContext(ctx).
		Model(&domain.Product{}).
		Where("LOWER(brand) = LOWER(?) OR LOWER(vendor) = LOWER(?)", key, key).
		Order("updated_at DESC NULLS LAST").
		Limit(limit).
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query products by category or brand: %w", err)
	}

	return ids, nil
}

// GetByIDs batch-fetches full product records. Ids with no row are simply
// absent from the result, never an error.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if len(ids) == 0 {
		return nil, nil
	}

	var products []domain.Product
	err := r.DB.WithContext(ctx).
		Where("product_id IN ?", ids).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products by ids: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	var product domain.Product
	err := r.DB.WithContext(ctx).First(&product, "product_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("failed to find product: %w", err)
	}

	return product, nil
}

// IncrementLikeCount bumps like_count and returns the new value.
func (r *ProductRepository) IncrementLikeCount(ctx context.Context, id string) (int64, error) {
	return r.adjustLikeCount(ctx, id, "like_count + 1")
}

// DecrementLikeCount lowers like_count, floored at zero, and returns the new value.
func (r *ProductRepository) DecrementLikeCount(ctx context.Context, id string) (int64, error) {
	return r.adjustLikeCount(ctx, id, "GREATEST(like_count - 1, 0)")
}

func (r *ProductRepository) adjustLikeCount(ctx context.Context, id, expr string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Model(&domain.Product{}).
		Where("product_id = ?", id).
		UpdateColumns(map[string]interface{}{
			"like_count": gorm.Expr(expr),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update like count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, domain.ErrProductNotFound
	}

	var count int64
	err := r.DB.WithContext(ctx).
		Model(&domain.Product{}).
		Where("product_id = ?", id).
		Pluck("like_count", &count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read like count: %w", err)
	}

	return count, nil
}
