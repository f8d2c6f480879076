package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoradar/internal/analysis"
)

var twinPeakCloses = []float64{
	100, 102, 104, 106, 108, 110, 112, 114, 116, 118,
	120, 114, 110, 107, 105, 107, 110, 113, 116, 118,
	120, 117, 114, 111, 108, 105, 103, 101, 99, 97,
}

func TestChartDetectorDoubleTop(t *testing.T) {
	patterns := NewChartDetector().Detect(candlesFromCloses(twinPeakCloses))

	require.Len(t, patterns, 1)
	p := patterns[0]
	assert.Equal(t, analysis.PatternDoubleTop, p.Type)

	// Measured move: the trough between the peaks projected downward
	trough := 104.0
	height := 121.0 - trough
	assert.InDelta(t, trough-height, p.TargetPrice, 0.0001)
}

func TestChartDetectorDoubleBottom(t *testing.T) {
	inverted := make([]float64, len(twinPeakCloses))
	for i, c := range twinPeakCloses {
		inverted[i] = 220 - c
	}

	patterns := NewChartDetector().Detect(candlesFromCloses(inverted))

	require.Len(t, patterns, 1)
	assert.Equal(t, analysis.PatternDoubleBottom, patterns[0].Type)
	// Bullish measured move projects above the peak between the troughs
	assert.Greater(t, patterns[0].TargetPrice, inverted[len(inverted)-1])
}

func TestChartDetectorFlag(t *testing.T) {
	closes := []float64{
		100, 100, 100, 100, 100,
		100, 103, 106, 109, 112, 115, 118, 121, 124, 127, 130,
		129.5, 129, 129.2, 129.4,
	}

	patterns := NewChartDetector().Detect(candlesFromCloses(closes))

	require.Len(t, patterns, 1)
	p := patterns[0]
	assert.Equal(t, analysis.PatternFlag, p.Type)
	// Continuation target adds the pole onto the latest close
	assert.Greater(t, p.TargetPrice, closes[len(closes)-1])
}

func TestChartDetectorQuietSeriesHasNoPatterns(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100
	}

	assert.Empty(t, NewChartDetector().Detect(candlesFromCloses(closes)))
}

func TestChartDetectorTooFewBars(t *testing.T) {
	assert.Nil(t, NewChartDetector().Detect(candlesFromCloses([]float64{100, 101, 102})))
}
