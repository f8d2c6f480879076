package patterns

import (
	"cryptoradar/internal/analysis"
	"cryptoradar/internal/models"
)

// ChartDetector detects multi-bar chart formations from a rolling window of
// recent bars.
type ChartDetector struct {
	window        int     // Bars considered for formation detection
	pivotStrength int     // Bars on each side for swing point extraction
	tolerance     float64 // Relative tolerance for symmetric peak/trough equality
}

// NewChartDetector creates a chart pattern detector over the last 50 bars
// with a 4% symmetry tolerance.
func NewChartDetector() *ChartDetector {
	return &ChartDetector{
		window:        50,
		pivotStrength: 2,
		tolerance:     0.04,
	}
}

func (d *ChartDetector) Name() string {
	return "ChartDetector"
}

type swingPoint struct {
	index int
	price float64
}

// Detect extracts swing highs/lows from the rolling window and checks them
// against each formation in turn.
func (d *ChartDetector) Detect(candles []models.Candle) []analysis.Pattern {
	if len(candles) < 15 {
		return nil
	}

	window := candles
	if len(window) > d.window {
		window = window[len(window)-d.window:]
	}

	highs, lows := d.swingPoints(window)

	var patterns []analysis.Pattern
	if p := d.detectHeadAndShoulders(window, highs); p != nil {
		patterns = append(patterns, *p)
	}
	if p := d.detectDoubleTop(window, highs); p != nil {
		patterns = append(patterns, *p)
	}
	if p := d.detectDoubleBottom(window, lows); p != nil {
		patterns = append(patterns, *p)
	}
	if p := d.detectTriangle(window, highs, lows); p != nil {
		patterns = append(patterns, *p)
	}
	if p := d.detectFlag(window); p != nil {
		patterns = append(patterns, *p)
	}

	return patterns
}

func (d *ChartDetector) swingPoints(candles []models.Candle) (highs, lows []swingPoint) {
	n := len(candles)
	for i := d.pivotStrength; i < n-d.pivotStrength; i++ {
		isHigh, isLow := true, true
		for j := 1; j <= d.pivotStrength; j++ {
			if candles[i].High <= candles[i-j].High || candles[i].High <= candles[i+j].High {
				isHigh = false
			}
			if candles[i].Low >= candles[i-j].Low || candles[i].Low >= candles[i+j].Low {
				isLow = false
			}
		}
		if isHigh {
			highs = append(highs, swingPoint{i, candles[i].High})
		}
		if isLow {
			lows = append(lows, swingPoint{i, candles[i].Low})
		}
	}
	return highs, lows
}

func (d *ChartDetector) withinTolerance(a, b float64) bool {
	if a == 0 {
		return b == 0
	}
	return abs(a-b)/a <= d.tolerance
}

// detectHeadAndShoulders looks for three consecutive swing highs where the
// middle one (head) tops both shoulders and the shoulders match within
// tolerance.
func (d *ChartDetector) detectHeadAndShoulders(candles []models.Candle, highs []swingPoint) *analysis.Pattern {
	if len(highs) < 3 {
		return nil
	}

	for i := len(highs) - 3; i >= 0; i-- {
		left, head, right := highs[i], highs[i+1], highs[i+2]

		if head.price <= left.price || head.price <= right.price {
			continue
		}
		if !d.withinTolerance(left.price, right.price) {
			continue
		}

		// Neckline from the troughs between the shoulders
		neckline := lowestLowBetween(candles, left.index, right.index)
		height := head.price - neckline

		return &analysis.Pattern{
			Type:        analysis.PatternHeadAndShoulders,
			Confidence:  clampF(55+10*formationClarity(height, head.price), 30, 100),
			StartTime:   candles[left.index].Timestamp,
			EndTime:     candles[right.index].Timestamp,
			TargetPrice: neckline - height,
			KeyLevels:   []float64{left.price, head.price, right.price, neckline},
			Description: "bearish reversal, head above matching shoulders",
		}
	}
	return nil
}

func (d *ChartDetector) detectDoubleTop(candles []models.Candle, highs []swingPoint) *analysis.Pattern {
	if len(highs) < 2 {
		return nil
	}

	first, second := highs[len(highs)-2], highs[len(highs)-1]
	if !d.withinTolerance(first.price, second.price) {
		return nil
	}
	if second.index-first.index < 3 {
		return nil
	}

	trough := lowestLowBetween(candles, first.index, second.index)
	height := max(first.price, second.price) - trough

	return &analysis.Pattern{
		Type:        analysis.PatternDoubleTop,
		Confidence:  clampF(50+10*formationClarity(height, first.price), 30, 100),
		StartTime:   candles[first.index].Timestamp,
		EndTime:     candles[second.index].Timestamp,
		TargetPrice: trough - height,
		KeyLevels:   []float64{first.price, second.price, trough},
		Description: "bearish reversal, two matching peaks",
	}
}

func (d *ChartDetector) detectDoubleBottom(candles []models.Candle, lows []swingPoint) *analysis.Pattern {
	if len(lows) < 2 {
		return nil
	}

	first, second := lows[len(lows)-2], lows[len(lows)-1]
	if !d.withinTolerance(first.price, second.price) {
		return nil
	}
	if second.index-first.index < 3 {
		return nil
	}

	peak := highestHighBetween(candles, first.index, second.index)
	height := peak - min(first.price, second.price)

	return &analysis.Pattern{
		Type:        analysis.PatternDoubleBottom,
		Confidence:  clampF(50+10*formationClarity(height, peak), 30, 100),
		StartTime:   candles[first.index].Timestamp,
		EndTime:     candles[second.index].Timestamp,
		TargetPrice: peak + height,
		KeyLevels:   []float64{first.price, second.price, peak},
		Description: "bullish reversal, two matching troughs",
	}
}

// detectTriangle checks for converging swing highs and lows: descending
// highs against ascending (or flat) lows, or the symmetric case.
func (d *ChartDetector) detectTriangle(candles []models.Candle, highs, lows []swingPoint) *analysis.Pattern {
	if len(highs) < 2 || len(lows) < 2 {
		return nil
	}

	highSlope := slope(highs[len(highs)-2], highs[len(highs)-1])
	lowSlope := slope(lows[len(lows)-2], lows[len(lows)-1])

	// Converging when the upper boundary falls toward a rising or flat lower
	// boundary
	if highSlope >= 0 || lowSlope < 0 {
		return nil
	}

	startIdx := minInt(highs[len(highs)-2].index, lows[len(lows)-2].index)
	endIdx := maxInt(highs[len(highs)-1].index, lows[len(lows)-1].index)

	return &analysis.Pattern{
		Type:        analysis.PatternTriangle,
		Confidence:  45,
		StartTime:   candles[startIdx].Timestamp,
		EndTime:     candles[endIdx].Timestamp,
		TargetPrice: (highs[len(highs)-1].price + lows[len(lows)-1].price) / 2,
		KeyLevels:   []float64{highs[len(highs)-1].price, lows[len(lows)-1].price},
		Description: "converging range, breakout pending",
	}
}

// detectFlag looks for a strong directional pole followed by a short
// low-volatility consolidation drifting against the pole.
func (d *ChartDetector) detectFlag(candles []models.Candle) *analysis.Pattern {
	n := len(candles)
	if n < 15 {
		return nil
	}

	poleStart := n - 15
	poleEnd := n - 5
	pole := candles[poleEnd].Close - candles[poleStart].Close
	if candles[poleStart].Close == 0 {
		return nil
	}
	poleMove := pole / candles[poleStart].Close

	// Pole must be a decisive move
	if abs(poleMove) < 0.05 {
		return nil
	}

	// Consolidation: last 5 bars stay in a tight range
	consRange := highestHighBetween(candles, poleEnd, n-1) - lowestLowBetween(candles, poleEnd, n-1)
	if consRange > abs(pole)*0.5 {
		return nil
	}

	target := candles[n-1].Close + pole

	return &analysis.Pattern{
		Type:        analysis.PatternFlag,
		Confidence:  clampF(40+abs(poleMove)*200, 30, 100),
		StartTime:   candles[poleStart].Timestamp,
		EndTime:     candles[n-1].Timestamp,
		TargetPrice: target,
		KeyLevels:   []float64{candles[poleStart].Close, candles[poleEnd].Close},
		Description: "continuation, tight consolidation after a sharp move",
	}
}

// formationClarity scales pattern height against price into a small bonus.
func formationClarity(height, price float64) float64 {
	if price == 0 {
		return 0
	}
	return clampF(height/price*100, 0, 3)
}

func slope(a, b swingPoint) float64 {
	if b.index == a.index {
		return 0
	}
	return (b.price - a.price) / float64(b.index-a.index)
}

func lowestLowBetween(candles []models.Candle, start, end int) float64 {
	low := candles[start].Low
	for i := start + 1; i <= end && i < len(candles); i++ {
		if candles[i].Low < low {
			low = candles[i].Low
		}
	}
	return low
}

func highestHighBetween(candles []models.Candle, start, end int) float64 {
	high := candles[start].High
	for i := start + 1; i <= end && i < len(candles); i++ {
		if candles[i].High > high {
			high = candles[i].High
		}
	}
	return high
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
