// Package mtf provides multi-timeframe analysis: it runs the indicator
// library across several candle resolutions and summarizes each into a trend
// call.
package mtf

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"cryptoradar/internal/analysis"
	"cryptoradar/internal/analysis/indicators"
	"cryptoradar/internal/marketdata"
	"cryptoradar/internal/models"
)

// Scorer derives a 0-100 technical score from an indicator snapshot. The
// scoring package provides the canonical implementation; the interface keeps
// this package free of scoring policy.
type Scorer interface {
	TechnicalScore(set analysis.IndicatorSet, price float64) float64
}

// barCounts is the per-timeframe lookback policy: roughly one week of hourly
// bars, a month of 4-hour bars, four months of daily bars, and two years of
// weekly bars.
var barCounts = map[models.Timeframe]int{
	models.Timeframe1Hour: 168,
	models.Timeframe4Hour: 180,
	models.Timeframe1Day:  120,
	models.Timeframe1Week: 104,
}

// BarCount returns the configured lookback for a timeframe.
func BarCount(tf models.Timeframe) int {
	return barCounts[tf]
}

// Aggregator fetches and analyzes candles across all configured timeframes.
type Aggregator struct {
	provider marketdata.Provider
	scorer   Scorer
	logger   zerolog.Logger
}

// NewAggregator creates a multi-timeframe aggregator.
func NewAggregator(provider marketdata.Provider, scorer Scorer, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		provider: provider,
		scorer:   scorer,
		logger:   logger,
	}
}

// Analyze runs every configured timeframe concurrently and returns one
// TimeframeAnalysis per timeframe, ordered shortest first. A timeframe whose
// fetch or computation fails is reported as neutral with zero strength
// rather than aborting the whole analysis.
func (a *Aggregator) Analyze(ctx context.Context, assetID string) []analysis.TimeframeAnalysis {
	timeframes := models.AllTimeframes()
	results := make([]analysis.TimeframeAnalysis, len(timeframes))

	var wg sync.WaitGroup
	for i, tf := range timeframes {
		wg.Add(1)
		go func(i int, tf models.Timeframe) {
			defer wg.Done()
			results[i] = a.analyzeTimeframe(ctx, assetID, tf)
		}(i, tf)
	}
	wg.Wait()

	return results
}

// AnalyzeWithCandles analyzes pre-fetched candles per timeframe, useful for
// testing and offline replay. Timeframes absent from the map are reported
// neutral.
func (a *Aggregator) AnalyzeWithCandles(candlesByTimeframe map[models.Timeframe][]models.Candle) []analysis.TimeframeAnalysis {
	timeframes := models.AllTimeframes()
	results := make([]analysis.TimeframeAnalysis, len(timeframes))

	for i, tf := range timeframes {
		candles, ok := candlesByTimeframe[tf]
		if !ok || len(candles) == 0 {
			results[i] = neutralTimeframe(tf)
			continue
		}
		results[i] = a.summarize(tf, candles)
	}

	return results
}

func (a *Aggregator) analyzeTimeframe(ctx context.Context, assetID string, tf models.Timeframe) analysis.TimeframeAnalysis {
	candles, err := a.provider.Candles(ctx, assetID, tf, BarCount(tf))
	if err != nil || len(candles) == 0 {
		a.logger.Debug().
			Str("asset", assetID).
			Str("timeframe", string(tf)).
			Err(err).
			Msg("timeframe unavailable, substituting neutral")
		return neutralTimeframe(tf)
	}

	return a.summarize(tf, candles)
}

// summarize scores one timeframe and classifies its trend: bullish above 60,
// bearish below 40, neutral between. Strength is the distance from the
// neutral midpoint rescaled to 0-100.
func (a *Aggregator) summarize(tf models.Timeframe, candles []models.Candle) analysis.TimeframeAnalysis {
	set := indicators.Snapshot(candles)
	price := candles[len(candles)-1].Close
	score := a.scorer.TechnicalScore(set, price)

	trend := analysis.TrendNeutral
	if score > 60 {
		trend = analysis.TrendBullish
	} else if score < 40 {
		trend = analysis.TrendBearish
	}

	strength := (score - 50) * 2
	if strength < 0 {
		strength = -strength
	}
	if strength > 100 {
		strength = 100
	}

	return analysis.TimeframeAnalysis{
		Timeframe:  tf,
		Trend:      trend,
		Strength:   strength,
		Indicators: set,
	}
}

func neutralTimeframe(tf models.Timeframe) analysis.TimeframeAnalysis {
	return analysis.TimeframeAnalysis{
		Timeframe:  tf,
		Trend:      analysis.TrendNeutral,
		Strength:   0,
		Indicators: indicators.Snapshot(nil),
	}
}

// CountTrends tallies bullish and bearish timeframes, skipping neutral ones.
func CountTrends(results []analysis.TimeframeAnalysis) (bullish, bearish int) {
	for _, r := range results {
		switch r.Trend {
		case analysis.TrendBullish:
			bullish++
		case analysis.TrendBearish:
			bearish++
		}
	}
	return bullish, bearish
}
