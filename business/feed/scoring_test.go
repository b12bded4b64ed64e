package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeScorer struct {
	scores map[string]float64
	err    error
	calls  int
}

func (f *fakeScorer) Predict(_ context.Context, features map[string]map[string]any) (map[string]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.scores, nil
}

func TestScoringGateway_ModelScoresWin(t *testing.T) {
	scorer := &fakeScorer{scores: map[string]float64{"a": 0.9, "b": 0.1}}
	gateway := NewScoringGateway(scorer)

	scores := gateway.Score(context.Background(), fetchFeaturesForIDs([]string{"a", "b"}), map[string]float64{"a": 0.5})

	assert.Equal(t, map[string]float64{"a": 0.9, "b": 0.1}, scores)
	assert.Equal(t, 1, scorer.calls)
}

func TestScoringGateway_ErrorFallsBackToMetrics(t *testing.T) {
	scorer := &fakeScorer{err: errors.New("connection refused")}
	gateway := NewScoringGateway(scorer)

	fallback := map[string]float64{"a": 0.7, "b": 0.3}
	scores := gateway.Score(context.Background(), fetchFeaturesForIDs([]string{"a", "b"}), fallback)

	assert.Equal(t, fallback, scores)
}

func TestScoringGateway_NilScorerZeroFills(t *testing.T) {
	gateway := NewScoringGateway(nil)

	scores := gateway.Score(context.Background(), fetchFeaturesForIDs([]string{"a", "b"}), nil)

	assert.Equal(t, map[string]float64{"a": 0.0, "b": 0.0}, scores)
}

func TestScoringGateway_EmptyModelResponseUsesFallback(t *testing.T) {
	scorer := &fakeScorer{scores: map[string]float64{}}
	gateway := NewScoringGateway(scorer)

	scores := gateway.Score(context.Background(), fetchFeaturesForIDs([]string{"a"}), map[string]float64{"a": 0.4})

	assert.Equal(t, map[string]float64{"a": 0.4}, scores)
}

func TestScoreResult_SuccessZeroFillsSkippedIDs(t *testing.T) {
	// the model answered, but only for a subset; missing ids still get a
	// numeric score
	result := ScoreSuccess(map[string]float64{"a": 0.8})

	scores := result.Resolve([]string{"a", "b"}, map[string]float64{"b": 0.2})

	assert.Equal(t, 0.8, scores["a"])
	assert.Equal(t, 0.0, scores["b"])
}

func TestScoreResult_UnavailablePartialFallbackZeroFills(t *testing.T) {
	result := ScoreUnavailable()

	scores := result.Resolve([]string{"a", "b"}, map[string]float64{"a": 0.6})

	assert.Equal(t, map[string]float64{"a": 0.6, "b": 0.0}, scores)
}
