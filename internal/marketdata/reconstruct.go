package marketdata

import (
	"time"

	"cryptoradar/internal/models"
)

// PricePoint is a single observation from a price-only series.
type PricePoint struct {
	Timestamp time.Time
	Price     float64
}

// ReconstructOHLC reshapes a flat price series into synthetic OHLC bars by
// grouping consecutive points. Each group of size group becomes one bar with
// open from the first point, close from the last, and high/low from the
// extremes; a short trailing group still produces a bar. The result carries
// no real volume.
func ReconstructOHLC(points []PricePoint, group int) []models.Candle {
	if group <= 0 || len(points) == 0 {
		return nil
	}

	candles := make([]models.Candle, 0, (len(points)+group-1)/group)

	for start := 0; start < len(points); start += group {
		end := start + group
		if end > len(points) {
			end = len(points)
		}

		c := models.Candle{
			Timestamp: points[start].Timestamp,
			Open:      points[start].Price,
			High:      points[start].Price,
			Low:       points[start].Price,
			Close:     points[end-1].Price,
		}
		for i := start + 1; i < end; i++ {
			if points[i].Price > c.High {
				c.High = points[i].Price
			}
			if points[i].Price < c.Low {
				c.Low = points[i].Price
			}
		}

		candles = append(candles, c)
	}

	return candles
}
