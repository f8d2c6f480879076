package marketdata

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pricePoints(prices ...float64) []PricePoint {
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	points := make([]PricePoint, len(prices))
	for i, p := range prices {
		points[i] = PricePoint{
			Timestamp: base.Add(time.Duration(i) * 15 * time.Minute),
			Price:     p,
		}
	}
	return points
}

func TestReconstructOHLCGrouping(t *testing.T) {
	points := pricePoints(10, 12, 9, 11, 13, 8, 14)

	candles := ReconstructOHLC(points, 4)

	require.Len(t, candles, 2)

	assert.Equal(t, 10.0, candles[0].Open)
	assert.Equal(t, 11.0, candles[0].Close)
	assert.Equal(t, 12.0, candles[0].High)
	assert.Equal(t, 9.0, candles[0].Low)
	assert.Equal(t, points[0].Timestamp, candles[0].Timestamp)
	assert.False(t, candles[0].HasRealVolume)

	// Short trailing group still produces a bar
	assert.Equal(t, 13.0, candles[1].Open)
	assert.Equal(t, 14.0, candles[1].Close)
	assert.Equal(t, 14.0, candles[1].High)
	assert.Equal(t, 8.0, candles[1].Low)
}

func TestReconstructOHLCDegenerateInputs(t *testing.T) {
	assert.Nil(t, ReconstructOHLC(nil, 4))
	assert.Nil(t, ReconstructOHLC(pricePoints(10, 11), 0))
	assert.Nil(t, ReconstructOHLC(pricePoints(10, 11), -1))
}

func TestProperty_ReconstructOHLCInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("bar count and OHLC bounds hold for any series", prop.ForAll(
		func(prices []float64, group int) bool {
			points := pricePoints(prices...)
			candles := ReconstructOHLC(points, group)

			wantBars := (len(prices) + group - 1) / group
			if len(candles) != wantBars {
				return false
			}

			for b, c := range candles {
				start := b * group
				end := start + group
				if end > len(prices) {
					end = len(prices)
				}

				if c.Open != prices[start] || c.Close != prices[end-1] {
					return false
				}
				if c.HasRealVolume {
					return false
				}
				for _, p := range prices[start:end] {
					if p > c.High || p < c.Low {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOfN(40, gen.Float64Range(1, 100000)).SuchThat(func(prices []float64) bool {
			return len(prices) > 0
		}),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t)
}
