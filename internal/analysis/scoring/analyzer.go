package scoring

import (
	"context"

	"github.com/rs/zerolog"

	"cryptoradar/internal/analysis"
	"cryptoradar/internal/analysis/indicators"
	"cryptoradar/internal/analysis/mtf"
	"cryptoradar/internal/analysis/patterns"
	"cryptoradar/internal/analysis/regime"
	"cryptoradar/internal/errors"
	"cryptoradar/internal/marketdata"
	"cryptoradar/internal/models"
)

// OverallWeights fixes the blend of the three component scores. Technical
// analysis dominates; the weights sum to 1.0 and are held constant across
// the whole system.
type OverallWeights struct {
	Technical   float64
	Fundamental float64
	Sentiment   float64
}

// DefaultOverallWeights returns the 60/25/15 blend.
func DefaultOverallWeights() OverallWeights {
	return OverallWeights{
		Technical:   0.60,
		Fundamental: 0.25,
		Sentiment:   0.15,
	}
}

// Analyzer runs the full per-asset pipeline: candles, indicators, levels,
// patterns, multi-timeframe summary, component scores, and prediction.
type Analyzer struct {
	provider    marketdata.Provider
	technical   *TechnicalScorer
	fundamental *FundamentalScorer
	sentiment   *SentimentScorer
	predictor   *Predictor
	aggregator  *mtf.Aggregator
	regime      *regime.Classifier
	levels      *patterns.LevelDetector
	weights     OverallWeights
	logger      zerolog.Logger
}

// NewAnalyzer creates an analyzer with the default scorers and weights. The
// prediction clamp bound is in percent for the 24-hour horizon.
func NewAnalyzer(provider marketdata.Provider, maxPredictedMove float64, logger zerolog.Logger) *Analyzer {
	technical := NewTechnicalScorer()
	return &Analyzer{
		provider:    provider,
		technical:   technical,
		fundamental: NewFundamentalScorer(),
		sentiment:   NewSentimentScorer(),
		predictor:   NewPredictor(maxPredictedMove),
		aggregator:  mtf.NewAggregator(provider, technical, logger),
		regime:      regime.NewClassifier(),
		levels:      patterns.NewLevelDetector(),
		weights:     DefaultOverallWeights(),
		logger:      logger,
	}
}

// Analyze produces one immutable Analysis for the asset. Missing candle or
// snapshot data fails the whole asset; callers exclude failed assets rather
// than defaulting them.
func (a *Analyzer) Analyze(ctx context.Context, assetID string) (*analysis.Analysis, error) {
	candles, err := a.provider.Candles(ctx, assetID, models.Timeframe1Day, mtf.BarCount(models.Timeframe1Day))
	if err != nil {
		return nil, errors.NewAnalysisError(assetID, "candles", err)
	}
	if len(candles) == 0 {
		return nil, errors.NewAnalysisError(assetID, "candles", errors.ErrDataUnavailable)
	}

	snapshot, err := a.provider.Snapshot(ctx, assetID)
	if err != nil {
		return nil, errors.NewAnalysisError(assetID, "snapshot", err)
	}

	return a.analyzeWith(ctx, assetID, candles, snapshot), nil
}

// AnalyzeWithData runs the pipeline on pre-fetched inputs, returning nil if
// the candle slice is empty. The multi-timeframe step still consults the
// provider for the other timeframes; failures there degrade to neutral
// rather than failing the asset.
func (a *Analyzer) AnalyzeWithData(ctx context.Context, assetID string, candles []models.Candle, snapshot models.AssetSnapshot) *analysis.Analysis {
	if len(candles) == 0 {
		return nil
	}
	return a.analyzeWith(ctx, assetID, candles, snapshot)
}

func (a *Analyzer) analyzeWith(ctx context.Context, assetID string, candles []models.Candle, snapshot models.AssetSnapshot) *analysis.Analysis {
	price := candles[len(candles)-1].Close

	set := indicators.Snapshot(candles)
	marketRegime := a.regime.ClassifyWithSet(candles, set)
	levels := a.levels.Detect(candles)
	detected := patterns.DetectAll(candles)
	timeframes := a.aggregator.Analyze(ctx, assetID)

	technicalScore := a.technical.TechnicalScore(set, price)
	fundamentalScore := a.fundamental.Score(snapshot)
	sentimentScore := a.sentiment.Score(snapshot)

	overall := clamp(
		technicalScore*a.weights.Technical+
			fundamentalScore*a.weights.Fundamental+
			sentimentScore*a.weights.Sentiment,
		0, 100)

	prediction := a.predictor.Predict(set, price, levels, timeframes, snapshot, overall, len(candles))

	a.logger.Debug().
		Str("asset", assetID).
		Float64("technical", technicalScore).
		Float64("overall", overall).
		Float64("predicted_change", prediction.PredictedChange).
		Str("recommendation", string(prediction.Recommendation)).
		Msg("analysis complete")

	return &analysis.Analysis{
		AssetID:           assetID,
		Symbol:            snapshot.Symbol,
		Indicators:        set,
		MarketRegime:      marketRegime,
		MultiTimeframe:    timeframes,
		SupportResistance: levels,
		Patterns:          detected,
		TechnicalScore:    technicalScore,
		FundamentalScore:  fundamentalScore,
		SentimentScore:    sentimentScore,
		OverallScore:      overall,
		PredictedChange:   prediction.PredictedChange,
		Recommendation:    prediction.Recommendation,
		RiskLevel:         prediction.RiskLevel,
		PriceTarget:       prediction.PriceTarget,
		Confidence:        prediction.Confidence,
		Signals:           prediction.Signals,
	}
}
