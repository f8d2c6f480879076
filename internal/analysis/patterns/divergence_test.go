package patterns

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoradar/internal/analysis"
	"cryptoradar/internal/models"
)

func candlesFromCloses(closes []float64) []models.Candle {
	candles := make([]models.Candle, len(closes))
	base := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	for i, close := range closes {
		candles[i] = models.Candle{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Open:      close,
			High:      close + 1,
			Low:       close - 1,
			Close:     close,
		}
	}
	return candles
}

func TestDivergenceDetectorBearish(t *testing.T) {
	// Twenty bars of uninterrupted gains keep RSI pinned at the top, then a
	// choppy final stretch grinds higher on price while RSI deteriorates
	closes := make([]float64, 0, 30)
	for i := 0; i < 20; i++ {
		closes = append(closes, 100+5*float64(i))
	}
	closes = append(closes, 196, 193, 197, 194, 198, 195, 199, 196, 200, 201)

	patterns := NewDivergenceDetector().Detect(candlesFromCloses(closes))

	require.Len(t, patterns, 1)
	assert.Equal(t, analysis.PatternBearishDivergence, patterns[0].Type)
	assert.GreaterOrEqual(t, patterns[0].Confidence, 30.0)
	assert.LessOrEqual(t, patterns[0].Confidence, 100.0)
}

func TestDivergenceDetectorNoSignalOnAgreement(t *testing.T) {
	// A clean monotonic rise keeps price and RSI moving together
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + 2*float64(i)
	}

	assert.Nil(t, NewDivergenceDetector().Detect(candlesFromCloses(closes)))
}

func TestDivergenceDetectorNoSignalDuringRSIWarmup(t *testing.T) {
	// Twenty bars is enough for the price window but not for real RSI values
	// at its start; the zero placeholders there must not read as a rising
	// oscillator. Price and RSI fall together over the final stretch, so any
	// signal here would be spurious.
	closes := make([]float64, 0, 20)
	for i := 0; i < 10; i++ {
		closes = append(closes, 100+2*float64(i))
	}
	for i := 0; i < 10; i++ {
		closes = append(closes, 118-2*float64(i))
	}

	assert.Nil(t, NewDivergenceDetector().Detect(candlesFromCloses(closes)))
}

func TestDivergenceDetectorTooFewBars(t *testing.T) {
	closes := []float64{100, 101, 102, 103, 104}
	assert.Nil(t, NewDivergenceDetector().Detect(candlesFromCloses(closes)))
}
