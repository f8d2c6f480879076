// Package marketdata defines the price series provider contract and the
// bundled file-backed implementation.
package marketdata

import (
	"context"

	"cryptoradar/internal/models"
)

// Provider supplies candle history and market snapshots for assets. A
// provider must return an error wrapping errors.ErrDataUnavailable when it
// cannot produce data for the requested asset; it must never fabricate bars.
type Provider interface {
	// Candles returns up to limit bars for the asset at the given timeframe,
	// ordered oldest first.
	Candles(ctx context.Context, assetID string, timeframe models.Timeframe, limit int) ([]models.Candle, error)

	// Snapshot returns the current market metadata for the asset.
	Snapshot(ctx context.Context, assetID string) (models.AssetSnapshot, error)
}
