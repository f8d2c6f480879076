package marketdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"cryptoradar/internal/errors"
	"cryptoradar/internal/models"
)

// CSVProvider serves candles and snapshots from local CSV files. Candle
// files are named <assetID>_<timeframe>.csv; when a timeframe file is
// missing the provider falls back to a price-only series in
// <assetID>_prices.csv and reconstructs synthetic OHLC bars from it.
type CSVProvider struct {
	candleDir    string
	snapshotFile string
	groupSize    int
}

// NewCSVProvider creates a provider reading from the given candle directory
// and snapshot file.
func NewCSVProvider(candleDir, snapshotFile string) *CSVProvider {
	return &CSVProvider{
		candleDir:    candleDir,
		snapshotFile: snapshotFile,
		groupSize:    4,
	}
}

type pricePointRow struct {
	Timestamp time.Time `csv:"timestamp"`
	Price     float64   `csv:"price"`
}

type snapshotRow struct {
	ID            string    `csv:"id"`
	Symbol        string    `csv:"symbol"`
	Name          string    `csv:"name"`
	Price         float64   `csv:"price"`
	Change24h     float64   `csv:"change_24h"`
	Change7d      float64   `csv:"change_7d"`
	Change30d     float64   `csv:"change_30d"`
	MarketCap     float64   `csv:"market_cap"`
	MarketCapRank int       `csv:"market_cap_rank"`
	TotalVolume   float64   `csv:"total_volume"`
	ATH           float64   `csv:"ath"`
	ATHDate       time.Time `csv:"ath_date"`
}

// Candles implements Provider. Bars loaded from a real OHLCV file are marked
// as carrying real volume when the volume column is positive; reconstructed
// bars never are.
func (p *CSVProvider) Candles(ctx context.Context, assetID string, timeframe models.Timeframe, limit int) ([]models.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(p.candleDir, fmt.Sprintf("%s_%s.csv", assetID, timeframe))
	if candles, err := p.loadCandleFile(path); err == nil {
		return tail(candles, limit), nil
	}

	// Fall back to a price-only series
	pricePath := filepath.Join(p.candleDir, fmt.Sprintf("%s_prices.csv", assetID))
	points, err := p.loadPriceFile(pricePath)
	if err != nil {
		return nil, errors.NewDataError("candles", assetID,
			fmt.Sprintf("no candle or price file for timeframe %s", timeframe),
			errors.ErrDataUnavailable)
	}

	candles := ReconstructOHLC(points, p.groupSize)
	if len(candles) == 0 {
		return nil, errors.NewDataError("candles", assetID,
			"empty price series", errors.ErrDataUnavailable)
	}

	return tail(candles, limit), nil
}

// Snapshot implements Provider.
func (p *CSVProvider) Snapshot(ctx context.Context, assetID string) (models.AssetSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return models.AssetSnapshot{}, err
	}

	f, err := os.Open(p.snapshotFile)
	if err != nil {
		return models.AssetSnapshot{}, errors.NewDataError("snapshot", assetID,
			"snapshot file unreadable", errors.ErrDataUnavailable)
	}
	defer f.Close()

	var rows []*snapshotRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return models.AssetSnapshot{}, errors.NewDataError("snapshot", assetID,
			"snapshot file malformed", err)
	}

	for _, row := range rows {
		if row.ID == assetID {
			return models.AssetSnapshot{
				ID:            row.ID,
				Symbol:        row.Symbol,
				Name:          row.Name,
				Price:         row.Price,
				Change24h:     row.Change24h,
				Change7d:      row.Change7d,
				Change30d:     row.Change30d,
				MarketCap:     row.MarketCap,
				MarketCapRank: row.MarketCapRank,
				TotalVolume:   row.TotalVolume,
				ATH:           row.ATH,
				ATHDate:       row.ATHDate,
			}, nil
		}
	}

	return models.AssetSnapshot{}, errors.NewDataError("snapshot", assetID,
		"asset not present in snapshot file", errors.ErrDataUnavailable)
}

func (p *CSVProvider) loadCandleFile(path string) ([]models.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var candles []models.Candle
	if err := gocsv.UnmarshalFile(f, &candles); err != nil {
		return nil, err
	}

	for i := range candles {
		candles[i].HasRealVolume = candles[i].Volume > 0
	}

	return candles, nil
}

func (p *CSVProvider) loadPriceFile(path string) ([]PricePoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []*pricePointRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, err
	}

	points := make([]PricePoint, len(rows))
	for i, row := range rows {
		points[i] = PricePoint{Timestamp: row.Timestamp, Price: row.Price}
	}

	return points, nil
}

func tail(candles []models.Candle, limit int) []models.Candle {
	if limit > 0 && len(candles) > limit {
		return candles[len(candles)-limit:]
	}
	return candles
}
