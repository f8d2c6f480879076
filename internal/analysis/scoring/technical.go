// Package scoring fuses indicator, pattern, and market data into per-asset
// scores, predictions, and recommendations.
package scoring

import (
	"cryptoradar/internal/analysis"
)

// TechnicalWeights defines the weight of each sub-signal in the technical
// score. The same weights are used for the top-level technical score and for
// every per-timeframe score so the two remain comparable.
type TechnicalWeights struct {
	RSI        float64
	MACD       float64
	MA         float64
	Bollinger  float64
	Stochastic float64
	ADX        float64
}

// DefaultTechnicalWeights returns the default sub-signal weights. They sum
// to 1.0.
func DefaultTechnicalWeights() TechnicalWeights {
	return TechnicalWeights{
		RSI:        0.20,
		MACD:       0.20,
		MA:         0.20,
		Bollinger:  0.15,
		Stochastic: 0.10,
		ADX:        0.15,
	}
}

func (w TechnicalWeights) total() float64 {
	return w.RSI + w.MACD + w.MA + w.Bollinger + w.Stochastic + w.ADX
}

// TechnicalScorer derives a 0-100 technical score from an indicator snapshot.
type TechnicalScorer struct {
	weights TechnicalWeights
}

// NewTechnicalScorer creates a scorer with the default weights.
func NewTechnicalScorer() *TechnicalScorer {
	return &TechnicalScorer{weights: DefaultTechnicalWeights()}
}

// NewTechnicalScorerWithWeights creates a scorer with custom weights.
func NewTechnicalScorerWithWeights(weights TechnicalWeights) *TechnicalScorer {
	return &TechnicalScorer{weights: weights}
}

// TechnicalScore fuses the sub-signal scores into a weighted 0-100 composite.
// Every sub-score is centered at 50 for a signal-free input, so a flat series
// scores exactly 50.
func (s *TechnicalScorer) TechnicalScore(set analysis.IndicatorSet, price float64) float64 {
	w := s.weights
	total := w.total()
	if total == 0 {
		return 50
	}

	score := s.rsiScore(set)*w.RSI +
		s.macdScore(set)*w.MACD +
		s.maScore(set, price)*w.MA +
		s.bollingerScore(set, price)*w.Bollinger +
		s.stochasticScore(set)*w.Stochastic +
		s.adxScore(set)*w.ADX

	return clamp(score/total, 0, 100)
}

// rsiScore treats low RSI as bullish mean-reversion potential and high RSI
// as bearish.
func (s *TechnicalScorer) rsiScore(set analysis.IndicatorSet) float64 {
	return clamp(100-set.RSI, 0, 100)
}

// macdScore starts neutral and shifts on the histogram sign and the
// line/signal relationship.
func (s *TechnicalScorer) macdScore(set analysis.IndicatorSet) float64 {
	score := 50.0

	if set.MACD.Histogram > 0 {
		score += 25
	} else if set.MACD.Histogram < 0 {
		score -= 25
	}

	if set.MACD.Line > set.MACD.Signal {
		score += 25
	} else if set.MACD.Line < set.MACD.Signal {
		score -= 25
	}

	return clamp(score, 0, 100)
}

// maScore rewards bullish moving-average ordering: price above SMA20 above
// SMA50.
func (s *TechnicalScorer) maScore(set analysis.IndicatorSet, price float64) float64 {
	score := 50.0

	if price > set.SMA20 {
		score += 15
	} else if price < set.SMA20 {
		score -= 15
	}

	if set.SMA20 > set.SMA50 {
		score += 15
	} else if set.SMA20 < set.SMA50 {
		score -= 15
	}

	if price > set.SMA50 {
		score += 20
	} else if price < set.SMA50 {
		score -= 20
	}

	return clamp(score, 0, 100)
}

// bollingerScore maps the band position (%B) to a contrarian score inside
// the bands: near the lower band is bullish, near the upper band bearish. A
// close outside the bands is a breakout and scores with the breakout
// direction instead. Degenerate bands score neutral.
func (s *TechnicalScorer) bollingerScore(set analysis.IndicatorSet, price float64) float64 {
	width := set.Bollinger.Upper - set.Bollinger.Lower
	if width == 0 {
		return 50
	}
	percentB := (price - set.Bollinger.Lower) / width
	if percentB > 1 {
		return 75
	}
	if percentB < 0 {
		return 25
	}
	return 100 - percentB*100
}

// stochasticScore mirrors the RSI treatment for the %K oscillator.
func (s *TechnicalScorer) stochasticScore(set analysis.IndicatorSet) float64 {
	return clamp(100-set.Stochastic.K, 0, 100)
}

// adxScore scales the moving-average trend direction by ADX trend strength.
// With no trend (ADX 0, equal SMAs) the score stays neutral.
func (s *TechnicalScorer) adxScore(set analysis.IndicatorSet) float64 {
	var dir float64
	if set.SMA20 > set.SMA50 {
		dir = 1
	} else if set.SMA20 < set.SMA50 {
		dir = -1
	}

	return clamp(50+dir*min(set.ADX, 50), 0, 100)
}

func clamp(value, minVal, maxVal float64) float64 {
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
