package feed

import (
	"context"
	"sort"

	"lookFeed/domain"
	"lookFeed/pkg/logger"
	"lookFeed/pkg/metrics"
)

// retrievalTally counts catalog retrievals across the bucket fan-out. Only
// when every attempted retrieval failed is the catalog considered down.
type retrievalTally struct {
	attempted int
	failed    int
}

func (t *retrievalTally) record(err error) {
	t.attempted++
	if err != nil {
		t.failed++
	}
}

func (t *retrievalTally) allFailed() bool {
	return t.attempted > 0 && t.failed == t.attempted
}

// fetchFeaturesForIDs builds the per-candidate feature maps sent to the
// scorer. Feature enrichment is still a stub: the monolith model derives
// everything from the product id today.
func fetchFeaturesForIDs(ids []string) map[string]map[string]any {
	features := make(map[string]map[string]any, len(ids))
	for _, id := range ids {
		features[id] = map[string]any{}
	}

	return features
}

// freshnessMetrics is the fallback score map for the fresh bucket: a flat
// prior until real freshness signals are wired in.
func freshnessMetrics(ids []string) map[string]float64 {
	m := make(map[string]float64, len(ids))
	for _, id := range ids {
		m[id] = 1.0
	}

	return m
}

// buildPersonalPool assembles the personalized bucket: popular and recent
// ids merged first-seen, seen-filtered, then model-scored.
func (s *FeedService) buildPersonalPool(ctx context.Context, shown map[string]struct{}, tally *retrievalTally) []domain.ScoredCandidate {
	srcCtx, cancel := context.WithTimeout(ctx, s.cfg.SourceTimeout)
	defer cancel()

	popular, popErr := s.catalog.PopularIDs(srcCtx, s.cfg.PopularLimit)
	tally.record(popErr)
	if popErr != nil {
		logger.Warn("Popular candidate retrieval degraded", "error", popErr)
	}

	recent, recErr := s.catalog.RecentIDs(srcCtx, s.cfg.RecentHours, s.cfg.RecentLimit)
	tally.record(recErr)
	if recErr != nil {
		logger.Warn("Recent candidate retrieval degraded", "error", recErr)
	}

	merged := dedupeFirstSeen(append(popular, recent...))
	unseen := FilterSeen(merged, shown)
	if len(unseen) == 0 {
		metrics.FeedDegradedBuckets.WithLabelValues(domain.BucketPersonal.String()).Inc()
		return nil
	}

	scores := s.gateway.Score(ctx, fetchFeaturesForIDs(unseen), nil)

	return sortedByScore(unseen, scores)
}

// buildCategoryPool assembles the category/brand diversification bucket from
// the request's preferred category keys.
func (s *FeedService) buildCategoryPool(ctx context.Context, categories []string, shown map[string]struct{}, tally *retrievalTally) []domain.ScoredCandidate {
	if len(categories) == 0 {
		return nil
	}

	srcCtx, cancel := context.WithTimeout(ctx, s.cfg.SourceTimeout)
	defer cancel()

	var ids []string
	for _, cat := range categories {
		catIDs, err := s.catalog.IDsByCategoryOrBrand(srcCtx, cat, s.cfg.CategoryLimit)
		tally.record(err)
		if err != nil {
			logger.Warn("Category candidate retrieval degraded", "category", cat, "error", err)
			continue
		}
		ids = append(ids, catIDs...)
	}

	unseen := FilterSeen(dedupeFirstSeen(ids), shown)
	if len(unseen) == 0 {
		metrics.FeedDegradedBuckets.WithLabelValues(domain.BucketCategory.String()).Inc()
		return nil
	}

	scores := s.gateway.Score(ctx, fetchFeaturesForIDs(unseen), nil)

	return sortedByScore(unseen, scores)
}

// buildFreshPool assembles the exploration bucket from recently parsed
// items, scored by the model with a freshness-prior fallback.
func (s *FeedService) buildFreshPool(ctx context.Context, shown map[string]struct{}, tally *retrievalTally) []domain.ScoredCandidate {
	srcCtx, cancel := context.WithTimeout(ctx, s.cfg.SourceTimeout)
	defer cancel()

	recent, err := s.catalog.RecentIDs(srcCtx, s.cfg.RecentHours, s.cfg.RecentLimit)
	tally.record(err)
	if err != nil {
		logger.Warn("Fresh candidate retrieval degraded", "error", err)
	}

	unseen := FilterSeen(recent, shown)
	if len(unseen) == 0 {
		metrics.FeedDegradedBuckets.WithLabelValues(domain.BucketFresh.String()).Inc()
		return nil
	}

	scores := s.gateway.Score(ctx, fetchFeaturesForIDs(unseen), freshnessMetrics(unseen))

	return sortedByScore(unseen, scores)
}

func dedupeFirstSeen(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}

// sortedByScore pairs ids with their scores and sorts descending. The sort
// is stable, so ties keep retrieval order.
func sortedByScore(ids []string, scores map[string]float64) []domain.ScoredCandidate {
	candidates := make([]domain.ScoredCandidate, 0, len(ids))
	for _, id := range ids {
		candidates = append(candidates, domain.ScoredCandidate{
			ProductID: id,
			Score:     scores[id],
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	return candidates
}
