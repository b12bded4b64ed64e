package feed

import (
	"context"
	"lookFeed/pkg/logger"
)

// Scorer is the optional ranking-model capability. It may be entirely absent
// (nil), and any failure is treated as "unavailable", never raised.
type Scorer interface {
	Predict(ctx context.Context, features map[string]map[string]any) (map[string]float64, error)
}

// ScoreResult is the tagged outcome of a scorer call. Keeping the three
// outcomes explicit makes the degradation path testable on its own.
type ScoreResult struct {
	kind   scoreResultKind
	scores map[string]float64
}

type scoreResultKind int

const (
	scoreSuccess scoreResultKind = iota
	scoreUnavailable
	scoreEmpty
)

func ScoreSuccess(scores map[string]float64) ScoreResult {
	return ScoreResult{kind: scoreSuccess, scores: scores}
}

func ScoreUnavailable() ScoreResult {
	return ScoreResult{kind: scoreUnavailable}
}

func ScoreEmpty() ScoreResult {
	return ScoreResult{kind: scoreEmpty}
}

// Resolve turns a ScoreResult into a complete id->score map for the given
// candidates: model scores when present, else the fallback map when
// non-empty, else 0.0 for every id. Ids a successful model response skipped
// are zero-filled so nothing non-numeric ever propagates.
func (r ScoreResult) Resolve(ids []string, fallback map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(ids))

	useFallback := r.kind != scoreSuccess && len(fallback) > 0

	for _, id := range ids {
		if r.kind == scoreSuccess {
			if score, ok := r.scores[id]; ok {
				out[id] = score
				continue
			}
		}
		if useFallback {
			if score, ok := fallback[id]; ok {
				out[id] = score
				continue
			}
		}
		out[id] = 0.0
	}

	return out
}

// ScoringGateway wraps the pluggable scorer with the fallback chain.
type ScoringGateway struct {
	scorer Scorer
}

func NewScoringGateway(scorer Scorer) *ScoringGateway {
	return &ScoringGateway{scorer: scorer}
}

// Score returns a score for every candidate id. Scorer failures are
// swallowed: the caller always gets a complete map.
func (g *ScoringGateway) Score(ctx context.Context, features map[string]map[string]any, fallback map[string]float64) map[string]float64 {
	ids := make([]string, 0, len(features))
	for id := range features {
		ids = append(ids, id)
	}

	return g.call(ctx, features).Resolve(ids, fallback)
}

func (g *ScoringGateway) call(ctx context.Context, features map[string]map[string]any) ScoreResult {
	if g.scorer == nil {
		return ScoreUnavailable()
	}

	scores, err := g.scorer.Predict(ctx, features)
	if err != nil {
		logger.Warn("Scorer unavailable, falling back", "error", err)
		return ScoreUnavailable()
	}
	if len(scores) == 0 {
		return ScoreEmpty()
	}

	return ScoreSuccess(scores)
}
