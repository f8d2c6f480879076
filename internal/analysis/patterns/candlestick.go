package patterns

import (
	"cryptoradar/internal/analysis"
	"cryptoradar/internal/models"
)

// CandlestickDetector detects candlestick patterns from the most recent bars.
type CandlestickDetector struct {
	dojiThreshold   float64 // Body size as fraction of range for doji
	shadowThreshold float64 // Shadow size as multiple of body for hammer
}

// NewCandlestickDetector creates a candlestick detector with standard
// thresholds.
func NewCandlestickDetector() *CandlestickDetector {
	return &CandlestickDetector{
		dojiThreshold:   0.1,
		shadowThreshold: 2.0,
	}
}

func (d *CandlestickDetector) Name() string {
	return "CandlestickDetector"
}

// Detect runs all candlestick checks against the tail of the series and
// returns the patterns found. Only the last few bars are considered; older
// candlestick formations are stale signals.
func (d *CandlestickDetector) Detect(candles []models.Candle) []analysis.Pattern {
	if len(candles) < 3 {
		return nil
	}

	var patterns []analysis.Pattern

	last := len(candles) - 1
	start := maxInt(0, len(candles)-5)

	for i := start; i <= last; i++ {
		if p := d.detectDoji(candles, i); p != nil {
			patterns = append(patterns, *p)
		}
		if p := d.detectHammer(candles, i); p != nil {
			patterns = append(patterns, *p)
		}
		if i >= 1 {
			if p := d.detectBullishEngulfing(candles, i); p != nil {
				patterns = append(patterns, *p)
			}
		}
	}

	return patterns
}

// confidence derives the heuristic 30-100 confidence from a base score, the
// clarity of the bar's range relative to recent bars, and the volume proxy.
func (d *CandlestickDetector) confidence(base float64, candles []models.Candle, idx int) float64 {
	c := candles[idx]

	avgRange := averageRange(candles, maxInt(0, idx-10), idx)
	if avgRange > 0 && candleRange(c) > avgRange*1.5 {
		base += 10
	}

	avgVol := averageVolumeProxy(candles, maxInt(0, idx-10), idx)
	if avgVol > 0 && volumeProxy(c) > avgVol*1.5 {
		base += 10
	}

	return clampF(base, 30, 100)
}

func (d *CandlestickDetector) detectDoji(candles []models.Candle, idx int) *analysis.Pattern {
	c := candles[idx]
	rng := candleRange(c)
	if rng == 0 {
		return nil
	}

	if bodySize(c)/rng > d.dojiThreshold {
		return nil
	}

	return &analysis.Pattern{
		Type:        analysis.PatternDoji,
		Confidence:  d.confidence(40, candles, idx),
		StartTime:   c.Timestamp,
		EndTime:     c.Timestamp,
		TargetPrice: c.Close,
		KeyLevels:   []float64{c.High, c.Low},
		Description: "indecision candle, open and close nearly equal",
	}
}

func (d *CandlestickDetector) detectHammer(candles []models.Candle, idx int) *analysis.Pattern {
	c := candles[idx]
	body := bodySize(c)
	if body == 0 {
		return nil
	}

	if lowerShadow(c) < body*d.shadowThreshold {
		return nil
	}
	if upperShadow(c) > body*0.5 {
		return nil
	}
	if !isInDowntrend(candles, idx) {
		return nil
	}

	return &analysis.Pattern{
		Type:        analysis.PatternHammer,
		Confidence:  d.confidence(60, candles, idx),
		StartTime:   c.Timestamp,
		EndTime:     c.Timestamp,
		TargetPrice: c.High + body,
		KeyLevels:   []float64{c.Low},
		Description: "bullish reversal, long lower shadow after a decline",
	}
}

func (d *CandlestickDetector) detectBullishEngulfing(candles []models.Candle, idx int) *analysis.Pattern {
	prev := candles[idx-1]
	curr := candles[idx]

	if !isBearish(prev) || !isBullish(curr) {
		return nil
	}
	if bodySize(curr) <= bodySize(prev) {
		return nil
	}
	if curr.Open > prev.Close || curr.Close < prev.Open {
		return nil
	}

	return &analysis.Pattern{
		Type:        analysis.PatternBullishEngulfing,
		Confidence:  d.confidence(65, candles, idx),
		StartTime:   prev.Timestamp,
		EndTime:     curr.Timestamp,
		TargetPrice: curr.Close + bodySize(curr),
		KeyLevels:   []float64{prev.Low, curr.Close},
		Description: "bullish candle fully engulfs the prior bearish body",
	}
}

// Candle geometry helpers shared by the pattern detectors.

func bodySize(c models.Candle) float64 {
	return abs(c.Close - c.Open)
}

func candleRange(c models.Candle) float64 {
	return c.High - c.Low
}

func upperShadow(c models.Candle) float64 {
	return c.High - max(c.Open, c.Close)
}

func lowerShadow(c models.Candle) float64 {
	return min(c.Open, c.Close) - c.Low
}

func isBullish(c models.Candle) bool {
	return c.Close > c.Open
}

func isBearish(c models.Candle) bool {
	return c.Close < c.Open
}

func isInDowntrend(candles []models.Candle, idx int) bool {
	if idx < 3 {
		return false
	}
	return candles[idx-1].Close < candles[idx-2].Close &&
		candles[idx-2].Close < candles[idx-3].Close
}

func isInUptrend(candles []models.Candle, idx int) bool {
	if idx < 3 {
		return false
	}
	return candles[idx-1].Close > candles[idx-2].Close &&
		candles[idx-2].Close > candles[idx-3].Close
}

func averageRange(candles []models.Candle, start, end int) float64 {
	if end <= start {
		return 0
	}
	var total float64
	for i := start; i < end; i++ {
		total += candleRange(candles[i])
	}
	return total / float64(end-start)
}

// volumeProxy mirrors the indicator library's placeholder policy: candles
// without real traded volume contribute a constant instead.
func volumeProxy(c models.Candle) float64 {
	if c.HasRealVolume && c.Volume > 0 {
		return c.Volume
	}
	return 1000.0
}

func averageVolumeProxy(candles []models.Candle, start, end int) float64 {
	if end <= start {
		return 0
	}
	var total float64
	for i := start; i < end; i++ {
		total += volumeProxy(candles[i])
	}
	return total / float64(end-start)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
