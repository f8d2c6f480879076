package scoring

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoradar/internal/analysis"
	"cryptoradar/internal/errors"
)

// stubAnalyzer returns canned analyses and fails for listed assets.
type stubAnalyzer struct {
	results map[string]*analysis.Analysis
	failing map[string]bool
}

func (s *stubAnalyzer) Analyze(ctx context.Context, assetID string) (*analysis.Analysis, error) {
	if s.failing[assetID] {
		return nil, errors.NewAnalysisError(assetID, "candles", errors.ErrDataUnavailable)
	}
	result, ok := s.results[assetID]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return result, nil
}

func TestRankOrdersByAbsolutePredictedChange(t *testing.T) {
	stub := &stubAnalyzer{
		results: map[string]*analysis.Analysis{},
		failing: map[string]bool{},
	}

	// Twenty assets with moves -10%, -9%, ..., +9%; the biggest absolute
	// movers must win regardless of sign
	var universe []string
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("asset-%02d", i)
		universe = append(universe, id)
		stub.results[id] = &analysis.Analysis{
			AssetID:         id,
			PredictedChange: float64(i - 10),
			TechnicalScore:  50,
		}
	}

	ranker := NewRanker(stub, BatchPolicy{Size: 5, Delay: 0, Concurrency: 3}, 10, zerolog.Nop())

	results, err := ranker.Rank(context.Background(), universe)
	require.NoError(t, err)
	require.Len(t, results, 10)

	assert.Equal(t, -10.0, results[0].PredictedChange)
	for i := 1; i < len(results); i++ {
		prev := abs(results[i-1].PredictedChange)
		cur := abs(results[i].PredictedChange)
		assert.GreaterOrEqual(t, prev, cur)
	}
	// The smallest movers (|change| <= 4) never make the cut
	for _, r := range results {
		assert.GreaterOrEqual(t, abs(r.PredictedChange), 5.0)
	}
}

func TestRankExcludesFailedAssets(t *testing.T) {
	stub := &stubAnalyzer{
		results: map[string]*analysis.Analysis{
			"good-1": {AssetID: "good-1", PredictedChange: 3},
			"good-2": {AssetID: "good-2", PredictedChange: -5},
		},
		failing: map[string]bool{"bad-1": true, "bad-2": true},
	}

	ranker := NewRanker(stub, BatchPolicy{Size: 10, Delay: 0, Concurrency: 2}, 10, zerolog.Nop())

	results, err := ranker.Rank(context.Background(), []string{"good-1", "bad-1", "good-2", "bad-2"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "good-2", results[0].AssetID)
	assert.Equal(t, "good-1", results[1].AssetID)
}

func TestRankTieBreaksOnTechnicalScore(t *testing.T) {
	stub := &stubAnalyzer{
		results: map[string]*analysis.Analysis{
			"weak":   {AssetID: "weak", PredictedChange: 4, TechnicalScore: 40},
			"strong": {AssetID: "strong", PredictedChange: -4, TechnicalScore: 70},
		},
		failing: map[string]bool{},
	}

	ranker := NewRanker(stub, BatchPolicy{Size: 10, Delay: 0, Concurrency: 1}, 10, zerolog.Nop())

	results, err := ranker.Rank(context.Background(), []string{"weak", "strong"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "strong", results[0].AssetID)
	assert.Equal(t, "weak", results[1].AssetID)
}

func TestRankHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stub := &stubAnalyzer{results: map[string]*analysis.Analysis{}, failing: map[string]bool{}}
	ranker := NewRanker(stub, DefaultBatchPolicy(), 10, zerolog.Nop())

	_, err := ranker.Rank(ctx, []string{"a", "b"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSortAnalysesIsStableOnFullTies(t *testing.T) {
	results := []*analysis.Analysis{
		{AssetID: "first", PredictedChange: 3, TechnicalScore: 50, OverallScore: 50},
		{AssetID: "second", PredictedChange: -3, TechnicalScore: 50, OverallScore: 50},
	}

	SortAnalyses(results)

	assert.Equal(t, "first", results[0].AssetID)
	assert.Equal(t, "second", results[1].AssetID)
}
