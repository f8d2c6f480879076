// Package store provides data persistence for analyses and candle history.
package store

import (
	"context"

	"cryptoradar/internal/analysis"
	"cryptoradar/internal/models"
)

// Store persists analyses and candle history.
type Store interface {
	// SaveAnalysis stores an analysis result for later retrieval.
	SaveAnalysis(ctx context.Context, a *analysis.Analysis) error

	// LatestAnalysis returns the most recent analysis for an asset.
	LatestAnalysis(ctx context.Context, assetID string) (*analysis.Analysis, error)

	// ListAnalyses returns the most recent analysis per asset, up to limit,
	// newest first.
	ListAnalyses(ctx context.Context, limit int) ([]*analysis.Analysis, error)

	// SaveCandles upserts candle history for an asset and timeframe.
	SaveCandles(ctx context.Context, assetID string, timeframe models.Timeframe, candles []models.Candle) error

	// GetCandles returns stored candles ordered oldest first.
	GetCandles(ctx context.Context, assetID string, timeframe models.Timeframe, limit int) ([]models.Candle, error)

	// Close releases the underlying resources.
	Close() error
}
