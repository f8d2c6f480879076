package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoradar/internal/analysis"
	"cryptoradar/internal/errors"
	"cryptoradar/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAnalysisRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := &analysis.Analysis{
		AssetID:         "testcoin",
		Symbol:          "TST",
		TechnicalScore:  62.5,
		OverallScore:    58.3,
		PredictedChange: -3.4,
		Recommendation:  analysis.RecommendationShort,
		RiskLevel:       analysis.RiskMedium,
		Signals:         []string{"RSI bearish", "MACD bearish"},
	}

	require.NoError(t, s.SaveAnalysis(ctx, a))

	got, err := s.LatestAnalysis(ctx, "testcoin")
	require.NoError(t, err)

	assert.Equal(t, a.AssetID, got.AssetID)
	assert.Equal(t, a.Symbol, got.Symbol)
	assert.Equal(t, a.TechnicalScore, got.TechnicalScore)
	assert.Equal(t, a.PredictedChange, got.PredictedChange)
	assert.Equal(t, a.Recommendation, got.Recommendation)
	assert.Equal(t, a.Signals, got.Signals)
}

func TestLatestAnalysisReturnsNewest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := &analysis.Analysis{AssetID: "testcoin", Symbol: "TST", OverallScore: 40}
	second := &analysis.Analysis{AssetID: "testcoin", Symbol: "TST", OverallScore: 70}

	require.NoError(t, s.SaveAnalysis(ctx, first))
	require.NoError(t, s.SaveAnalysis(ctx, second))

	got, err := s.LatestAnalysis(ctx, "testcoin")
	require.NoError(t, err)
	assert.Equal(t, 70.0, got.OverallScore)
}

func TestLatestAnalysisNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LatestAnalysis(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestListAnalysesOnePerAsset(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveAnalysis(ctx, &analysis.Analysis{AssetID: "a", Symbol: "A", OverallScore: 10}))
	require.NoError(t, s.SaveAnalysis(ctx, &analysis.Analysis{AssetID: "a", Symbol: "A", OverallScore: 20}))
	require.NoError(t, s.SaveAnalysis(ctx, &analysis.Analysis{AssetID: "b", Symbol: "B", OverallScore: 30}))

	results, err := s.ListAnalyses(ctx, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	scores := map[string]float64{}
	for _, r := range results {
		scores[r.AssetID] = r.OverallScore
	}
	assert.Equal(t, 20.0, scores["a"])
	assert.Equal(t, 30.0, scores["b"])
}

func TestCandleRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	candles := []models.Candle{
		{Timestamp: base, Open: 100, High: 105, Low: 99, Close: 104, Volume: 1200, HasRealVolume: true},
		{Timestamp: base.Add(time.Hour), Open: 104, High: 108, Low: 103, Close: 107, Volume: 900, HasRealVolume: true},
		{Timestamp: base.Add(2 * time.Hour), Open: 107, High: 107, Low: 101, Close: 102},
	}

	require.NoError(t, s.SaveCandles(ctx, "testcoin", models.Timeframe1Hour, candles))

	got, err := s.GetCandles(ctx, "testcoin", models.Timeframe1Hour, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Ascending timestamp order regardless of the limit subquery
	assert.True(t, got[0].Timestamp.Before(got[1].Timestamp))
	assert.True(t, got[1].Timestamp.Before(got[2].Timestamp))

	assert.Equal(t, 104.0, got[0].Close)
	assert.True(t, got[0].HasRealVolume)
	assert.False(t, got[2].HasRealVolume)
}

func TestSaveCandlesUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ts := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	original := []models.Candle{{Timestamp: ts, Open: 100, High: 101, Low: 99, Close: 100}}
	updated := []models.Candle{{Timestamp: ts, Open: 100, High: 103, Low: 99, Close: 102}}

	require.NoError(t, s.SaveCandles(ctx, "testcoin", models.Timeframe1Day, original))
	require.NoError(t, s.SaveCandles(ctx, "testcoin", models.Timeframe1Day, updated))

	got, err := s.GetCandles(ctx, "testcoin", models.Timeframe1Day, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 102.0, got[0].Close)
}
