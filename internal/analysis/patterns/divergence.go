package patterns

import (
	"cryptoradar/internal/analysis"
	"cryptoradar/internal/analysis/indicators"
	"cryptoradar/internal/models"
)

// DivergenceDetector flags disagreement between the recent price trend and
// the RSI oscillator over the same window.
type DivergenceDetector struct {
	window    int
	rsiPeriod int
}

// NewDivergenceDetector creates a divergence detector over the last 10 bars.
func NewDivergenceDetector() *DivergenceDetector {
	return &DivergenceDetector{window: 10, rsiPeriod: 14}
}

func (d *DivergenceDetector) Name() string {
	return "DivergenceDetector"
}

// Detect compares the direction of the close series against the direction of
// RSI over the trailing window. Price falling while RSI rises is a bullish
// divergence; price rising while RSI falls is bearish. Flat windows produce
// no signal.
func (d *DivergenceDetector) Detect(candles []models.Candle) []analysis.Pattern {
	// The whole window must sit past the RSI warm-up: indices below the RSI
	// period are zero placeholders, and a delta measured against one of
	// those would fake a rising oscillator.
	if len(candles) < d.window+d.rsiPeriod {
		return nil
	}

	rsiSeries, err := indicators.NewRSI(d.rsiPeriod).Calculate(candles)
	if err != nil {
		return nil
	}

	n := len(candles)
	start := n - d.window

	priceDelta := candles[n-1].Close - candles[start].Close
	rsiDelta := rsiSeries[n-1] - rsiSeries[start]

	if priceDelta == 0 || rsiDelta == 0 {
		return nil
	}
	if (priceDelta > 0) == (rsiDelta > 0) {
		return nil
	}

	p := analysis.Pattern{
		Confidence:  clampF(40+abs(rsiDelta), 30, 100),
		StartTime:   candles[start].Timestamp,
		EndTime:     candles[n-1].Timestamp,
		TargetPrice: candles[n-1].Close,
		KeyLevels:   []float64{candles[start].Close, candles[n-1].Close},
	}

	if priceDelta < 0 {
		p.Type = analysis.PatternBullishDivergence
		p.Description = "price falling while momentum rises"
	} else {
		p.Type = analysis.PatternBearishDivergence
		p.Description = "price rising while momentum falls"
	}

	return []analysis.Pattern{p}
}

// DetectAll runs every pattern detector and concatenates the results.
func DetectAll(candles []models.Candle) []analysis.Pattern {
	var patterns []analysis.Pattern
	patterns = append(patterns, NewCandlestickDetector().Detect(candles)...)
	patterns = append(patterns, NewChartDetector().Detect(candles)...)
	patterns = append(patterns, NewDivergenceDetector().Detect(candles)...)
	return patterns
}
