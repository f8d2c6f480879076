package indicators

import (
	"fmt"

	"cryptoradar/internal/models"
)

// RSI calculates the Relative Strength Index.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator.
func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

func (r *RSI) Name() string {
	return fmt.Sprintf("RSI_%d", r.period)
}

func (r *RSI) Period() int {
	return r.period
}

// Calculate computes the RSI series using Wilder smoothing. The average gain
// and loss are seeded from the first period deltas, then smoothed as
// avg = (avg*(period-1)+new)/period. A zero average loss with positive gains
// reports 100; a completely flat window reports the neutral 50.
func (r *RSI) Calculate(candles []models.Candle) ([]float64, error) {
	if r.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < r.period+1 {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	result := make([]float64, n)
	closes := closePrices(candles)

	gains := make([]float64, n)
	losses := make([]float64, n)

	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	rsiAt := func(avgGain, avgLoss float64) float64 {
		if avgLoss == 0 {
			if avgGain == 0 {
				return 50
			}
			return 100
		}
		rs := avgGain / avgLoss
		return 100 - (100 / (1 + rs))
	}

	// First average using SMA of the seed deltas
	avgGain := mean(gains[1 : r.period+1])
	avgLoss := mean(losses[1 : r.period+1])
	result[r.period] = rsiAt(avgGain, avgLoss)

	for i := r.period + 1; i < n; i++ {
		avgGain = (avgGain*float64(r.period-1) + gains[i]) / float64(r.period)
		avgLoss = (avgLoss*float64(r.period-1) + losses[i]) / float64(r.period)
		result[i] = rsiAt(avgGain, avgLoss)
	}

	return result, nil
}

// Stochastic calculates the Stochastic Oscillator (%K and %D).
type Stochastic struct {
	kPeriod int
	dPeriod int
}

// NewStochastic creates a new Stochastic indicator.
func NewStochastic(kPeriod, dPeriod int) *Stochastic {
	return &Stochastic{
		kPeriod: kPeriod,
		dPeriod: dPeriod,
	}
}

func (s *Stochastic) Name() string {
	return fmt.Sprintf("Stochastic_%d_%d", s.kPeriod, s.dPeriod)
}

func (s *Stochastic) Period() int {
	return s.kPeriod + s.dPeriod
}

// Calculate computes raw %K over the kPeriod range and %D as the SMA of %K
// over dPeriod. Degenerate (flat) ranges report 50 for both.
func (s *Stochastic) Calculate(candles []models.Candle) (map[string][]float64, error) {
	if s.kPeriod <= 0 || s.dPeriod <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < s.Period() {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	highs := highPrices(candles)
	lows := lowPrices(candles)
	closes := closePrices(candles)

	percentK := make([]float64, n)
	percentD := make([]float64, n)

	for i := s.kPeriod - 1; i < n; i++ {
		highestHigh := highest(highs[i-s.kPeriod+1 : i+1])
		lowestLow := lowest(lows[i-s.kPeriod+1 : i+1])

		if highestHigh == lowestLow {
			percentK[i] = 50
		} else {
			percentK[i] = 100 * (closes[i] - lowestLow) / (highestHigh - lowestLow)
		}
	}

	for i := s.kPeriod + s.dPeriod - 2; i < n; i++ {
		percentD[i] = mean(percentK[i-s.dPeriod+1 : i+1])
	}

	return map[string][]float64{
		"percent_k": percentK,
		"percent_d": percentD,
	}, nil
}

// WilliamsR calculates Williams %R.
type WilliamsR struct {
	period int
}

// NewWilliamsR creates a new Williams %R indicator.
func NewWilliamsR(period int) *WilliamsR {
	return &WilliamsR{period: period}
}

func (w *WilliamsR) Name() string {
	return fmt.Sprintf("WilliamsR_%d", w.period)
}

func (w *WilliamsR) Period() int {
	return w.period
}

// Calculate computes Williams %R. Degenerate ranges report -50.
func (w *WilliamsR) Calculate(candles []models.Candle) ([]float64, error) {
	if w.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < w.period {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	result := make([]float64, n)
	highs := highPrices(candles)
	lows := lowPrices(candles)
	closes := closePrices(candles)

	for i := w.period - 1; i < n; i++ {
		highestHigh := highest(highs[i-w.period+1 : i+1])
		lowestLow := lowest(lows[i-w.period+1 : i+1])

		if highestHigh == lowestLow {
			result[i] = -50
		} else {
			wr := -100 * (highestHigh - closes[i]) / (highestHigh - lowestLow)
			// Clamp to [-100, 0] in case close sits outside the high/low range
			result[i] = max(-100, min(0, wr))
		}
	}

	return result, nil
}

// CCI calculates the Commodity Channel Index.
type CCI struct {
	period int
}

// NewCCI creates a new CCI indicator.
func NewCCI(period int) *CCI {
	return &CCI{period: period}
}

func (c *CCI) Name() string {
	return fmt.Sprintf("CCI_%d", c.period)
}

func (c *CCI) Period() int {
	return c.period
}

// Calculate computes CCI from the typical price with the 0.015 scaling
// constant. A zero mean deviation reports 0.
func (c *CCI) Calculate(candles []models.Candle) ([]float64, error) {
	if c.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < c.period {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	result := make([]float64, n)

	tp := make([]float64, n)
	for i := 0; i < n; i++ {
		tp[i] = typicalPrice(candles[i])
	}

	for i := c.period - 1; i < n; i++ {
		tpSlice := tp[i-c.period+1 : i+1]
		sma := mean(tpSlice)

		var meanDev float64
		for _, v := range tpSlice {
			meanDev += abs(v - sma)
		}
		meanDev /= float64(c.period)

		if meanDev == 0 {
			result[i] = 0
		} else {
			result[i] = (tp[i] - sma) / (0.015 * meanDev)
		}
	}

	return result, nil
}
