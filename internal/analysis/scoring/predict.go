package scoring

import (
	"fmt"

	"cryptoradar/internal/analysis"
	"cryptoradar/internal/analysis/mtf"
	"cryptoradar/internal/analysis/patterns"
	"cryptoradar/internal/models"
)

// Predictor turns an indicator snapshot plus its context (levels,
// multi-timeframe results, market metadata) into a bounded predicted change,
// a recommendation, and the surrounding risk and target estimates.
//
// The horizon is 24 hours; predictions are clamped to maxMove percent.
type Predictor struct {
	maxMove float64
}

// NewPredictor creates a predictor with the given clamp bound (percent).
func NewPredictor(maxMove float64) *Predictor {
	return &Predictor{maxMove: maxMove}
}

// Prediction bundles the prediction outputs.
type Prediction struct {
	PredictedChange float64
	Recommendation  analysis.Recommendation
	RiskLevel       analysis.RiskLevel
	PriceTarget     float64
	Confidence      float64
	Signals         []string
}

type contribution struct {
	value  float64
	weight float64
	signal string
}

// Predict accumulates weighted directional contributions from every
// indicator family, normalizes by total weight, and clamps the result. Each
// contribution that fires in either direction also registers a named signal.
func (p *Predictor) Predict(
	set analysis.IndicatorSet,
	price float64,
	levels []analysis.Level,
	timeframes []analysis.TimeframeAnalysis,
	snapshot models.AssetSnapshot,
	overallScore float64,
	barCount int,
) Prediction {
	contribs := p.contributions(set, price, levels, timeframes)

	var weightedSum, totalWeight float64
	var signals []string
	for _, c := range contribs {
		weightedSum += c.value * c.weight
		totalWeight += c.weight
		if c.signal != "" && c.value != 0 {
			signals = append(signals, c.signal)
		}
	}

	var change float64
	if totalWeight > 0 {
		change = weightedSum / totalWeight
	}
	change = clamp(change, -p.maxMove, p.maxMove)

	return Prediction{
		PredictedChange: change,
		Recommendation:  recommend(change),
		RiskLevel:       riskLevel(snapshot, overallScore, set, price),
		PriceTarget:     p.priceTarget(price, overallScore, levels, snapshot.MarketCapRank),
		Confidence:      confidence(overallScore, len(signals), barCount),
		Signals:         signals,
	}
}

func (p *Predictor) contributions(
	set analysis.IndicatorSet,
	price float64,
	levels []analysis.Level,
	timeframes []analysis.TimeframeAnalysis,
) []contribution {
	var out []contribution

	// RSI extremity: oversold pushes up, overbought pushes down
	rsiContrib := (50 - set.RSI) / 50 * 10
	out = append(out, contribution{rsiContrib, 1.5, directional("RSI", rsiContrib)})

	// MACD histogram sign and magnitude relative to price
	var macdContrib float64
	if price > 0 {
		macdContrib = clamp(set.MACD.Histogram/price*400, -8, 8)
	}
	out = append(out, contribution{macdContrib, 1.5, directional("MACD", macdContrib)})

	// Moving-average alignment
	var maContrib float64
	if price > set.SMA20 {
		maContrib += 2
	} else if price < set.SMA20 {
		maContrib -= 2
	}
	if set.SMA20 > set.SMA50 {
		maContrib += 2
	} else if set.SMA20 < set.SMA50 {
		maContrib -= 2
	}
	out = append(out, contribution{maContrib, 1.5, directional("MA alignment", maContrib)})

	// Bollinger band position, contrarian
	var bbContrib float64
	if width := set.Bollinger.Upper - set.Bollinger.Lower; width > 0 {
		percentB := (price - set.Bollinger.Lower) / width
		bbContrib = clamp((0.5-percentB)*10, -5, 5)
	}
	out = append(out, contribution{bbContrib, 1.0, directional("Bollinger", bbContrib)})

	// Multi-timeframe agreement
	bullish, bearish := mtf.CountTrends(timeframes)
	mtfContrib := float64(bullish-bearish) * 1.5
	out = append(out, contribution{mtfContrib, 2.0, directional("timeframe agreement", mtfContrib)})

	// Proximity to support/resistance
	var srContrib float64
	support, resistance := patterns.NearestLevels(levels, price)
	if support != nil && price > 0 && (price-support.Price)/price < 0.03 {
		srContrib += 3
	}
	if resistance != nil && price > 0 && (resistance.Price-price)/price < 0.03 {
		srContrib -= 3
	}
	out = append(out, contribution{srContrib, 1.5, directional("key level", srContrib)})

	// ADX-weighted trend direction
	var trendDir float64
	if set.SMA20 > set.SMA50 {
		trendDir = 1
	} else if set.SMA20 < set.SMA50 {
		trendDir = -1
	}
	adxContrib := trendDir * set.ADX / 100 * 6
	out = append(out, contribution{adxContrib, 1.0, directional("ADX trend", adxContrib)})

	// Stochastic zone
	stochContrib := (50 - set.Stochastic.K) / 50 * 4
	out = append(out, contribution{stochContrib, 1.0, directional("Stochastic", stochContrib)})

	// Williams %R zone
	wrContrib := (-50 - set.WilliamsR) / 50 * 3
	out = append(out, contribution{wrContrib, 1.0, directional("Williams %R", wrContrib)})

	// CCI, contrarian
	cciContrib := clamp(-set.CCI/100, -3, 3)
	out = append(out, contribution{cciContrib, 1.0, directional("CCI", cciContrib)})

	// Parabolic SAR side
	var sarContrib float64
	if price > set.ParabolicSAR {
		sarContrib = 2
	} else if price < set.ParabolicSAR {
		sarContrib = -2
	}
	out = append(out, contribution{sarContrib, 1.0, directional("Parabolic SAR", sarContrib)})

	// MFI zone
	mfiContrib := (50 - set.MFI) / 50 * 3
	out = append(out, contribution{mfiContrib, 1.0, directional("MFI", mfiContrib)})

	// Ichimoku cloud position
	var cloudContrib float64
	cloudTop := max(set.Ichimoku.SenkouSpanA, set.Ichimoku.SenkouSpanB)
	cloudBottom := min(set.Ichimoku.SenkouSpanA, set.Ichimoku.SenkouSpanB)
	if price > cloudTop {
		cloudContrib = 3
	} else if price < cloudBottom {
		cloudContrib = -3
	}
	out = append(out, contribution{cloudContrib, 1.0, directional("Ichimoku cloud", cloudContrib)})

	return out
}

// recommend applies the ternary policy: LONG above +2%, SHORT below -2%,
// NEUTRAL between.
func recommend(predictedChange float64) analysis.Recommendation {
	switch {
	case predictedChange > 2:
		return analysis.RecommendationLong
	case predictedChange < -2:
		return analysis.RecommendationShort
	default:
		return analysis.RecommendationNeutral
	}
}

// riskLevel accumulates risk points from market-cap tier, score tier, and
// volatility.
func riskLevel(snapshot models.AssetSnapshot, overallScore float64, set analysis.IndicatorSet, price float64) analysis.RiskLevel {
	points := 0

	rank := snapshot.MarketCapRank
	if rank <= 0 || rank > 250 {
		points += 2
	} else if rank > 50 {
		points++
	}

	if price > 0 {
		atrPct := set.ATR / price
		if atrPct > 0.08 {
			points += 2
		} else if atrPct > 0.04 {
			points++
		}
	}

	if overallScore < 40 {
		points++
	}

	switch {
	case points >= 4:
		return analysis.RiskVeryHigh
	case points == 3:
		return analysis.RiskHigh
	case points >= 1:
		return analysis.RiskMedium
	default:
		return analysis.RiskLow
	}
}

// priceTarget starts from an overall-score tier multiplier, pulls the target
// halfway toward the nearest level in the move's direction, then compresses
// the move for large caps.
func (p *Predictor) priceTarget(price, overallScore float64, levels []analysis.Level, rank int) float64 {
	if price <= 0 {
		return 0
	}

	var multiplier float64
	switch {
	case overallScore >= 80:
		multiplier = 1.15
	case overallScore >= 65:
		multiplier = 1.08
	case overallScore >= 50:
		multiplier = 1.03
	case overallScore >= 35:
		multiplier = 0.98
	default:
		multiplier = 0.92
	}

	target := price * multiplier

	support, resistance := patterns.NearestLevels(levels, price)
	if target > price && resistance != nil {
		target = (target + resistance.Price) / 2
	} else if target < price && support != nil {
		target = (target + support.Price) / 2
	}

	// Large caps move less: compress the projected move toward spot
	move := target - price
	switch {
	case rank >= 1 && rank <= 10:
		move *= 0.5
	case rank >= 1 && rank <= 50:
		move *= 0.75
	}

	return price + move
}

// confidence is a bounded composite of score quality, signal count, and data
// completeness. More bars always means more confidence, so a short series
// scores strictly below a full-length one.
func confidence(overallScore float64, signalCount, barCount int) float64 {
	signals := float64(signalCount)
	if signals > 10 {
		signals = 10
	}

	completeness := float64(barCount) / 180
	if completeness > 1 {
		completeness = 1
	}

	return clamp(0.5*overallScore+3*signals+20*completeness, 0, 100)
}

func directional(name string, value float64) string {
	if value > 0 {
		return fmt.Sprintf("%s bullish", name)
	}
	if value < 0 {
		return fmt.Sprintf("%s bearish", name)
	}
	return ""
}
