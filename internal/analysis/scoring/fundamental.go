package scoring

import (
	"strings"

	"cryptoradar/internal/models"
)

// stableSymbols lists assets recognized as stable-value pegs. Matching is by
// lowercase symbol.
var stableSymbols = map[string]bool{
	"usdt": true, "usdc": true, "dai": true, "busd": true,
	"tusd": true, "usdd": true, "usdp": true, "gusd": true,
	"frax": true, "lusd": true, "usde": true, "fdusd": true,
	"pyusd": true, "eurt": true, "eurs": true,
}

// wrappedSymbols lists known wrapped and staked derivative symbols.
var wrappedSymbols = map[string]bool{
	"wbtc": true, "weth": true, "wbnb": true, "wsteth": true,
	"steth": true, "cbeth": true, "reth": true, "meth": true,
	"jitosol": true, "msol": true, "ezeth": true, "weeth": true,
}

// IsExcluded reports whether an asset is a stable-value peg or a
// wrapped/staked derivative. Excluded assets are hard-gated to a fundamental
// score of 0 before any other scoring runs.
func IsExcluded(snapshot models.AssetSnapshot) bool {
	symbol := strings.ToLower(snapshot.Symbol)
	name := strings.ToLower(snapshot.Name)

	if stableSymbols[symbol] || wrappedSymbols[symbol] {
		return true
	}

	for _, marker := range []string{"wrapped", "staked", "bridged", "stablecoin"} {
		if strings.Contains(name, marker) {
			return true
		}
	}
	if strings.Contains(name, "usd") && abs(snapshot.Change24h) < 1 && abs(snapshot.Change7d) < 2 {
		// Dollar-named asset that barely moves: treat as a peg
		return true
	}

	return false
}

// FundamentalScorer scores an asset's market standing on a 0-100 scale.
type FundamentalScorer struct{}

// NewFundamentalScorer creates a fundamental scorer.
func NewFundamentalScorer() *FundamentalScorer {
	return &FundamentalScorer{}
}

// Score combines market-cap-rank bucket, volume-to-market-cap ratio, and
// distance from the all-time high. Excluded assets score 0 outright.
func (s *FundamentalScorer) Score(snapshot models.AssetSnapshot) float64 {
	if IsExcluded(snapshot) {
		return 0
	}

	score := 30.0
	score += rankBucket(snapshot.MarketCapRank)
	score += liquidityBucket(snapshot)
	score += drawdownBucket(snapshot.DrawdownFromATH())

	return clamp(score, 0, 100)
}

func rankBucket(rank int) float64 {
	switch {
	case rank <= 0:
		return 0
	case rank <= 10:
		return 30
	case rank <= 50:
		return 25
	case rank <= 100:
		return 20
	case rank <= 250:
		return 12
	case rank <= 500:
		return 6
	default:
		return 0
	}
}

// liquidityBucket rewards healthy trading volume relative to market cap.
func liquidityBucket(snapshot models.AssetSnapshot) float64 {
	if snapshot.MarketCap <= 0 {
		return 0
	}
	ratio := snapshot.TotalVolume / snapshot.MarketCap
	switch {
	case ratio > 0.25:
		return 20
	case ratio > 0.10:
		return 15
	case ratio > 0.05:
		return 10
	case ratio > 0.01:
		return 5
	default:
		return 0
	}
}

// drawdownBucket favors assets well below their all-time high but not so
// deep that the market has abandoned them.
func drawdownBucket(drawdown float64) float64 {
	switch {
	case drawdown < 10:
		return 15
	case drawdown < 30:
		return 10
	case drawdown < 70:
		return 20
	case drawdown < 90:
		return 5
	default:
		return 0
	}
}

// SentimentScorer maps recent momentum into a 0-100 sentiment score centered
// at 50.
type SentimentScorer struct{}

// NewSentimentScorer creates a sentiment scorer.
func NewSentimentScorer() *SentimentScorer {
	return &SentimentScorer{}
}

// Score weights 24h momentum three times heavier than 7d momentum.
func (s *SentimentScorer) Score(snapshot models.AssetSnapshot) float64 {
	return clamp(50+1.5*snapshot.Change24h+0.5*snapshot.Change7d, 0, 100)
}
