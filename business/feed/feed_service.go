package feed

import (
	"context"
	"fmt"
	"time"

	"lookFeed/domain"
	"lookFeed/pkg/config"
	"lookFeed/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// AnonymousUserID disables history read/write for a request; scoring and
// hydration are unaffected.
const AnonymousUserID = "anonymous"

// CatalogStore is the primary product catalog: three ordered candidate
// retrievals plus the batched metadata lookup.
type CatalogStore interface {
	PopularIDs(ctx context.Context, limit int) ([]string, error)
	RecentIDs(ctx context.Context, hours, limit int) ([]string, error)
	IDsByCategoryOrBrand(ctx context.Context, key string, limit int) ([]string, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
}

// HistoryStore tracks per-user shown-sets.
type HistoryStore interface {
	GetShownSet(ctx context.Context, userID string) (map[string]struct{}, error)
	RecordShown(ctx context.Context, userID string, ids []string) error
}

// EventSink receives fire-and-forget telemetry; it never affects the feed.
type EventSink interface {
	PublishFeatureEvent(ctx context.Context, requestID string, payload map[string]any)
	PublishActionEvent(ctx context.Context, requestID string, payload map[string]any)
}

type FeedService struct {
	catalog  CatalogStore
	history  HistoryStore
	hydrator *Hydrator
	gateway  *ScoringGateway
	events   EventSink
	cfg      config.FeedConfig
}

// NewFeedService wires the assembly pipeline. analytics, scorer and events
// are optional capabilities; pass nil to run without them.
func NewFeedService(
	catalog CatalogStore,
	history HistoryStore,
	analytics ProductLookup,
	scorer Scorer,
	events EventSink,
	cfg config.FeedConfig,
) *FeedService {
	return &FeedService{
		catalog:  catalog,
		history:  history,
		hydrator: NewHydrator(catalog, analytics, cfg.StubOnMiss),
		gateway:  NewScoringGateway(scorer),
		events:   events,
		cfg:      cfg,
	}
}

// AssembleFeed runs the pipeline end to end: history load, concurrent
// candidate fan-out, scoring, slicing, interleaving, shown-set recording and
// hydration. Every degradation short of a total catalog outage produces a
// smaller or less personalized feed, not an error.
func (s *FeedService) AssembleFeed(ctx context.Context, userID, device string, categories []string, n int) (domain.FeedResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.FeedResult{}, fmt.Errorf("context error: %w", err)
	}

	finalSize := n
	if finalSize <= 0 {
		finalSize = s.cfg.DefaultSize
	}

	anonymous := userID == "" || userID == AnonymousUserID

	shown := s.loadShownSet(ctx, userID, anonymous)

	var personal, category, fresh []domain.ScoredCandidate
	var personalTally, catTally, freshTally retrievalTally

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		personal = s.buildPersonalPool(gctx, shown, &personalTally)
		return nil
	})
	g.Go(func() error {
		category = s.buildCategoryPool(gctx, categories, shown, &catTally)
		return nil
	})
	g.Go(func() error {
		fresh = s.buildFreshPool(gctx, shown, &freshTally)
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.FeedResult{}, err
	}

	tally := retrievalTally{
		attempted: personalTally.attempted + catTally.attempted + freshTally.attempted,
		failed:    personalTally.failed + catTally.failed + freshTally.failed,
	}
	if tally.allFailed() {
		return domain.FeedResult{}, fmt.Errorf("candidate retrieval: %w", domain.ErrCatalogUnavailable)
	}

	slices := SliceBuckets(personal, category, fresh, finalSize, domain.BucketRatios{
		Personal: s.cfg.PersonalRatio,
		Category: s.cfg.CategoryRatio,
		Fresh:    s.cfg.FreshRatio,
	})

	finalIDs := Interleave(slices, finalSize)

	s.recordShown(ctx, userID, anonymous, finalIDs)

	requestID := uuid.NewString()
	s.publishFeatureEvent(ctx, requestID, userID, device, finalIDs)

	hydrated, err := s.hydrator.Hydrate(ctx, finalIDs)
	if err != nil {
		return domain.FeedResult{}, err
	}

	return domain.FeedResult{Feed: BuildOrderedFeed(finalIDs, hydrated)}, nil
}

// loadShownSet fails soft: any history error means an empty set, never a
// failed request.
func (s *FeedService) loadShownSet(ctx context.Context, userID string, anonymous bool) map[string]struct{} {
	if anonymous || s.history == nil {
		return nil
	}

	histCtx, cancel := context.WithTimeout(ctx, s.cfg.SourceTimeout)
	defer cancel()

	shown, err := s.history.GetShownSet(histCtx, userID)
	if err != nil {
		logger.Warn("Shown-set load degraded to empty", "user_id", userID, "error", err)
		return nil
	}

	return shown
}

// recordShown is best-effort and skipped for anonymous users and cancelled
// requests.
func (s *FeedService) recordShown(ctx context.Context, userID string, anonymous bool, ids []string) {
	if anonymous || s.history == nil || len(ids) == 0 {
		return
	}
	if ctx.Err() != nil {
		return
	}

	recCtx, cancel := context.WithTimeout(ctx, s.cfg.SourceTimeout)
	defer cancel()

	if err := s.history.RecordShown(recCtx, userID, ids); err != nil {
		logger.Warn("Failed to record shown items", "user_id", userID, "error", err)
	}
}

func (s *FeedService) publishFeatureEvent(ctx context.Context, requestID, userID, device string, finalIDs []string) {
	if s.events == nil {
		return
	}

	s.events.PublishFeatureEvent(ctx, requestID, map[string]any{
		"user_id":    userID,
		"device":     device,
		"event_time": time.Now().UnixMilli(),
		"candidates": finalIDs,
	})
}
