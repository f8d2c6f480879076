// Package analysis defines the shared result types produced by the technical
// analysis pipeline: indicator snapshots, support/resistance levels, detected
// patterns, per-timeframe summaries, and the final per-asset Analysis.
package analysis

import (
	"time"

	"cryptoradar/internal/models"
)

// MACDValue holds the MACD line, signal line, and histogram at a single bar.
type MACDValue struct {
	Line      float64 `json:"line"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// BollingerValue holds the Bollinger band values at a single bar.
type BollingerValue struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// StochasticValue holds the %K and %D oscillator values at a single bar.
type StochasticValue struct {
	K float64 `json:"k"`
	D float64 `json:"d"`
}

// IchimokuValue holds the Ichimoku cloud lines at a single bar.
type IchimokuValue struct {
	TenkanSen   float64 `json:"tenkanSen"`
	KijunSen    float64 `json:"kijunSen"`
	SenkouSpanA float64 `json:"senkouSpanA"`
	SenkouSpanB float64 `json:"senkouSpanB"`
	ChikouSpan  float64 `json:"chikouSpan"`
}

// IndicatorSet is the value of every indicator at the latest bar of a candle
// sequence. Every field is always populated: indicators that lack enough
// history report their documented neutral default instead.
//
// HasRealVolume is false when MFI/OBV/VPT were computed against the constant
// volume placeholder; those three fields are then direction hints only.
type IndicatorSet struct {
	RSI           float64         `json:"rsi"`
	MACD          MACDValue       `json:"macd"`
	SMA20         float64         `json:"sma20"`
	SMA50         float64         `json:"sma50"`
	EMA12         float64         `json:"ema12"`
	EMA26         float64         `json:"ema26"`
	Bollinger     BollingerValue  `json:"bollinger"`
	Stochastic    StochasticValue `json:"stochastic"`
	ATR           float64         `json:"atr"`
	ADX           float64         `json:"adx"`
	WilliamsR     float64         `json:"williamsR"`
	CCI           float64         `json:"cci"`
	ParabolicSAR  float64         `json:"parabolicSar"`
	MFI           float64         `json:"mfi"`
	OBV           float64         `json:"obv"`
	VPT           float64         `json:"vpt"`
	Ichimoku      IchimokuValue   `json:"ichimoku"`
	HasRealVolume bool            `json:"hasRealVolume"`
}

// LevelType represents the type of price level.
type LevelType string

const (
	LevelSupport    LevelType = "support"
	LevelResistance LevelType = "resistance"
)

// Level represents a support or resistance level.
//
// Touches is the raw count of proximity events; Strength additionally weights
// rejections 2x, so Strength >= Touches always holds.
type Level struct {
	Price    float64   `json:"price"`
	Type     LevelType `json:"type"`
	Strength float64   `json:"strength"`
	Touches  int       `json:"touches"`
}

// PatternType identifies a candlestick or chart pattern.
type PatternType string

const (
	PatternDoji              PatternType = "doji"
	PatternHammer            PatternType = "hammer"
	PatternBullishEngulfing  PatternType = "bullish_engulfing"
	PatternHeadAndShoulders  PatternType = "head_and_shoulders"
	PatternDoubleTop         PatternType = "double_top"
	PatternDoubleBottom      PatternType = "double_bottom"
	PatternTriangle          PatternType = "triangle"
	PatternFlag              PatternType = "flag"
	PatternBullishDivergence PatternType = "bullish_divergence"
	PatternBearishDivergence PatternType = "bearish_divergence"
)

// Pattern represents a detected candlestick or chart pattern.
type Pattern struct {
	Type        PatternType `json:"type"`
	Confidence  float64     `json:"confidence"` // 30-100
	StartTime   time.Time   `json:"startTime"`
	EndTime     time.Time   `json:"endTime"`
	TargetPrice float64     `json:"targetPrice"`
	KeyLevels   []float64   `json:"keyLevels"`
	Description string      `json:"description"`
}

// Trend represents the direction of a per-timeframe trend.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// Regime represents the prevailing market condition.
type Regime string

const (
	RegimeTrending Regime = "TRENDING"
	RegimeRanging  Regime = "RANGING"
	RegimeVolatile Regime = "VOLATILE"
)

// RegimeDirection represents the directional bias of a regime.
type RegimeDirection string

const (
	RegimeUp       RegimeDirection = "UP"
	RegimeDown     RegimeDirection = "DOWN"
	RegimeSideways RegimeDirection = "SIDEWAYS"
)

// RegimeClassification is the result of market regime detection.
type RegimeClassification struct {
	Regime    Regime          `json:"regime"`
	Direction RegimeDirection `json:"direction"`
	Strength  float64         `json:"strength"` // 0-100
}

// TimeframeAnalysis summarizes one timeframe: its trend direction, the
// strength of that trend on a 0-100 scale, and the full indicator snapshot.
type TimeframeAnalysis struct {
	Timeframe  models.Timeframe `json:"timeframe"`
	Trend      Trend            `json:"trend"`
	Strength   float64          `json:"strength"`
	Indicators IndicatorSet     `json:"indicators"`
}

// Recommendation is the directional call derived from the predicted change.
type Recommendation string

const (
	RecommendationLong    Recommendation = "LONG"
	RecommendationShort   Recommendation = "SHORT"
	RecommendationNeutral Recommendation = "NEUTRAL"
)

// RiskLevel classifies the risk of acting on a recommendation.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskVeryHigh RiskLevel = "VERY_HIGH"
)

// Analysis is the immutable result of running the full pipeline for one
// asset. It is a plain value suitable for JSON serialization; a refresh is a
// brand-new Analysis, never a mutation.
type Analysis struct {
	AssetID           string               `json:"assetId"`
	Symbol            string               `json:"symbol"`
	Indicators        IndicatorSet         `json:"indicators"`
	MarketRegime      RegimeClassification `json:"marketRegime"`
	MultiTimeframe    []TimeframeAnalysis  `json:"multiTimeframe"`
	SupportResistance []Level              `json:"supportResistance"`
	Patterns          []Pattern            `json:"patterns"`
	TechnicalScore    float64              `json:"technicalScore"`
	FundamentalScore  float64              `json:"fundamentalScore"`
	SentimentScore    float64              `json:"sentimentScore"`
	OverallScore      float64              `json:"overallScore"`
	PredictedChange   float64              `json:"predictedChange"` // percent, 24h horizon
	Recommendation    Recommendation       `json:"recommendation"`
	RiskLevel         RiskLevel            `json:"riskLevel"`
	PriceTarget       float64              `json:"priceTarget"`
	Confidence        float64              `json:"confidence"`
	Signals           []string             `json:"signals"`
}
