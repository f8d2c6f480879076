// Package models provides domain models for the analysis engine.
package models

import (
	"time"
)

// Timeframe represents a candle aggregation interval.
type Timeframe string

const (
	Timeframe1Hour Timeframe = "1h"
	Timeframe4Hour Timeframe = "4h"
	Timeframe1Day  Timeframe = "1d"
	Timeframe1Week Timeframe = "1w"
)

// AllTimeframes returns the timeframes used for multi-timeframe analysis,
// shortest first.
func AllTimeframes() []Timeframe {
	return []Timeframe{Timeframe1Hour, Timeframe4Hour, Timeframe1Day, Timeframe1Week}
}

// Candle represents OHLCV data for a time period.
//
// Volume may be a real traded quantity or a synthetic placeholder; consumers
// must check HasRealVolume before trusting volume-driven indicators.
type Candle struct {
	Timestamp     time.Time `json:"timestamp" csv:"timestamp"`
	Open          float64   `json:"open" csv:"open"`
	High          float64   `json:"high" csv:"high"`
	Low           float64   `json:"low" csv:"low"`
	Close         float64   `json:"close" csv:"close"`
	Volume        float64   `json:"volume" csv:"volume"`
	HasRealVolume bool      `json:"hasRealVolume" csv:"-"`
}

// AssetSnapshot holds the current market metadata for an asset, used for
// fundamental and sentiment scoring.
type AssetSnapshot struct {
	ID            string    `json:"id"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Change24h     float64   `json:"change24h"` // percent
	Change7d      float64   `json:"change7d"`  // percent
	Change30d     float64   `json:"change30d"` // percent
	MarketCap     float64   `json:"marketCap"`
	MarketCapRank int       `json:"marketCapRank"`
	TotalVolume   float64   `json:"totalVolume"`
	ATH           float64   `json:"ath"`
	ATHDate       time.Time `json:"athDate"`
}

// DrawdownFromATH returns the percentage the current price sits below the
// all-time high, or 0 if the ATH is unknown.
func (s AssetSnapshot) DrawdownFromATH() float64 {
	if s.ATH <= 0 {
		return 0
	}
	dd := (s.ATH - s.Price) / s.ATH * 100
	if dd < 0 {
		return 0
	}
	return dd
}
