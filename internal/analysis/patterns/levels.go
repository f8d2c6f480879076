// Package patterns provides support/resistance detection and chart and
// candlestick pattern recognition.
package patterns

import (
	"sort"

	"cryptoradar/internal/analysis"
	"cryptoradar/internal/models"
)

// LevelDetector identifies support and resistance levels from price pivots.
type LevelDetector struct {
	lookback  int     // Bars on each side for pivot confirmation
	tolerance float64 // Relative band around a level counted as a touch
	maxLevels int     // Truncate output to the strongest N levels
}

// NewLevelDetector creates a level detector with the default 10-bar lookback,
// 2% proximity band, and top-10 truncation.
func NewLevelDetector() *LevelDetector {
	return &LevelDetector{
		lookback:  10,
		tolerance: 0.02,
		maxLevels: 10,
	}
}

func (l *LevelDetector) Name() string {
	return "LevelDetector"
}

// Detect finds pivot-based support and resistance levels. A bar is a pivot
// high when its high is the strict maximum over the surrounding lookback
// window (symmetric for pivot lows). Each level's strength counts subsequent
// bars that come within the tolerance band, weighting rejections twice;
// Touches is the unweighted count of the same events. Levels are returned
// sorted by strength descending, truncated to maxLevels.
func (l *LevelDetector) Detect(candles []models.Candle) []analysis.Level {
	n := len(candles)
	if n < l.lookback*2+1 {
		return nil
	}

	var levels []analysis.Level

	for i := l.lookback; i < n-l.lookback; i++ {
		if l.isPivotHigh(candles, i) {
			strength, touches := l.scoreLevel(candles, i, candles[i].High, analysis.LevelResistance)
			levels = append(levels, analysis.Level{
				Price:    candles[i].High,
				Type:     analysis.LevelResistance,
				Strength: strength,
				Touches:  touches,
			})
		}
		if l.isPivotLow(candles, i) {
			strength, touches := l.scoreLevel(candles, i, candles[i].Low, analysis.LevelSupport)
			levels = append(levels, analysis.Level{
				Price:    candles[i].Low,
				Type:     analysis.LevelSupport,
				Strength: strength,
				Touches:  touches,
			})
		}
	}

	sort.SliceStable(levels, func(a, b int) bool {
		return levels[a].Strength > levels[b].Strength
	})

	if len(levels) > l.maxLevels {
		levels = levels[:l.maxLevels]
	}

	return levels
}

func (l *LevelDetector) isPivotHigh(candles []models.Candle, i int) bool {
	for j := 1; j <= l.lookback; j++ {
		if candles[i].High <= candles[i-j].High || candles[i].High <= candles[i+j].High {
			return false
		}
	}
	return true
}

func (l *LevelDetector) isPivotLow(candles []models.Candle, i int) bool {
	for j := 1; j <= l.lookback; j++ {
		if candles[i].Low >= candles[i-j].Low || candles[i].Low >= candles[i+j].Low {
			return false
		}
	}
	return true
}

// scoreLevel walks the bars after the pivot and accumulates strength. A bar
// whose relevant extreme enters the tolerance band is a touch; when the bar
// also closes back away from the band it counts as a rejection and is
// weighted twice.
func (l *LevelDetector) scoreLevel(candles []models.Candle, pivotIdx int, price float64, levelType analysis.LevelType) (float64, int) {
	var strength float64
	touches := 0

	lower := price * (1 - l.tolerance)
	upper := price * (1 + l.tolerance)

	for i := pivotIdx + 1; i < len(candles); i++ {
		c := candles[i]

		if levelType == analysis.LevelResistance {
			if c.High >= lower && c.High <= upper {
				touches++
				if c.Close < lower {
					strength += 2
				} else {
					strength++
				}
			}
		} else {
			if c.Low >= lower && c.Low <= upper {
				touches++
				if c.Close > upper {
					strength += 2
				} else {
					strength++
				}
			}
		}
	}

	return strength, touches
}

// NearestLevels returns the closest support below and resistance above the
// given price, or nil when no level qualifies.
func NearestLevels(levels []analysis.Level, price float64) (support, resistance *analysis.Level) {
	for i := range levels {
		level := &levels[i]
		if level.Type == analysis.LevelSupport && level.Price < price {
			if support == nil || price-level.Price < price-support.Price {
				support = level
			}
		}
		if level.Type == analysis.LevelResistance && level.Price > price {
			if resistance == nil || level.Price-price < resistance.Price-price {
				resistance = level
			}
		}
	}
	return support, resistance
}
