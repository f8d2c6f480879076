// Package regime classifies the prevailing market regime for a candle series.
package regime

import (
	"cryptoradar/internal/analysis"
	"cryptoradar/internal/analysis/indicators"
	"cryptoradar/internal/models"
)

// Classifier detects the market regime from volatility and trend measures.
type Classifier struct {
	volatilityThreshold float64 // ATR as fraction of price
	divergenceThreshold float64 // SMA20/SMA50 relative divergence
	adxThreshold        float64
}

// NewClassifier creates a regime classifier with the default thresholds.
func NewClassifier() *Classifier {
	return &Classifier{
		volatilityThreshold: 0.05,
		divergenceThreshold: 0.02,
		adxThreshold:        25,
	}
}

// Classify determines the regime in priority order: high volatility first,
// then a confirmed trend, otherwise ranging. Strength combines the SMA
// divergence and ADX into a bounded composite.
func (c *Classifier) Classify(candles []models.Candle) analysis.RegimeClassification {
	return c.ClassifyWithSet(candles, indicators.Snapshot(candles))
}

// ClassifyWithSet classifies using an already-computed indicator snapshot.
func (c *Classifier) ClassifyWithSet(candles []models.Candle, set analysis.IndicatorSet) analysis.RegimeClassification {
	var price float64
	if len(candles) > 0 {
		price = candles[len(candles)-1].Close
	}

	var atrRatio float64
	if price > 0 {
		atrRatio = set.ATR / price
	}

	var divergence float64
	if set.SMA50 != 0 {
		divergence = set.SMA20/set.SMA50 - 1
	}

	strength := clamp(absF(divergence)*1000+set.ADX, 0, 100)

	if atrRatio > c.volatilityThreshold {
		return analysis.RegimeClassification{
			Regime:    analysis.RegimeVolatile,
			Direction: analysis.RegimeSideways,
			Strength:  clamp(atrRatio*1000, 0, 100),
		}
	}

	if absF(divergence) > c.divergenceThreshold && set.ADX > c.adxThreshold {
		dir := analysis.RegimeUp
		if divergence < 0 {
			dir = analysis.RegimeDown
		}
		return analysis.RegimeClassification{
			Regime:    analysis.RegimeTrending,
			Direction: dir,
			Strength:  strength,
		}
	}

	return analysis.RegimeClassification{
		Regime:    analysis.RegimeRanging,
		Direction: analysis.RegimeSideways,
		Strength:  strength,
	}
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
