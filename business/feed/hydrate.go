package feed

import (
	"context"
	"fmt"
	"lookFeed/domain"
	"lookFeed/pkg/logger"
	"lookFeed/pkg/metrics"
)

// ProductLookup is the batched metadata lookup every catalog store offers.
// The secondary (analytical) store implements only this.
type ProductLookup interface {
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
}

// Hydrator resolves bare ids into full product records through a layered
// fallback: primary catalog, then the analytical store, then ID-only stubs
// when the stub policy is on.
type Hydrator struct {
	primary    ProductLookup
	secondary  ProductLookup
	stubOnMiss bool
}

func NewHydrator(primary, secondary ProductLookup, stubOnMiss bool) *Hydrator {
	return &Hydrator{
		primary:    primary,
		secondary:  secondary,
		stubOnMiss: stubOnMiss,
	}
}

// Hydrate returns records keyed by id. Ids found nowhere are simply absent;
// callers iterate their own ordered id sequence and skip the gaps. Only a
// hard failure of every configured store is an error.
func (h *Hydrator) Hydrate(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	if len(ids) == 0 {
		return map[string]domain.Product{}, nil
	}

	products, primaryErr := h.primary.GetByIDs(ctx, ids)
	if primaryErr != nil {
		logger.Warn("Primary catalog hydration failed", "error", primaryErr)
	}

	// A partial-but-non-empty primary result is trusted as-is; the secondary
	// store only covers the all-or-nothing miss.
	if len(products) == 0 && h.secondary != nil {
		metrics.FeedHydrationFallbacks.WithLabelValues("secondary").Inc()

		var secondaryErr error
		products, secondaryErr = h.secondary.GetByIDs(ctx, ids)
		if secondaryErr != nil {
			logger.Warn("Secondary catalog hydration failed", "error", secondaryErr)
			if primaryErr != nil {
				return nil, fmt.Errorf("hydration failed on all stores: %w", primaryErr)
			}
		}
	} else if len(products) == 0 && primaryErr != nil {
		return nil, fmt.Errorf("hydration failed: %w", primaryErr)
	}

	hydrated := make(map[string]domain.Product, len(products))
	for _, p := range products {
		hydrated[p.ProductID] = p
	}

	if len(hydrated) == 0 && h.stubOnMiss {
		metrics.FeedHydrationFallbacks.WithLabelValues("stub").Inc()
		for _, id := range ids {
			hydrated[id] = domain.StubProduct(id)
		}
	}

	return hydrated, nil
}

// BuildOrderedFeed walks the interleaved id order and looks each id up in
// the hydrated map, silently skipping unresolved ids so partial catalog
// coverage never breaks the feed.
func BuildOrderedFeed(ids []string, hydrated map[string]domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := hydrated[id]; ok {
			out = append(out, p)
		}
	}

	return out
}
