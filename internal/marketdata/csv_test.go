package marketdata

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoradar/internal/errors"
	"cryptoradar/internal/models"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newFixtureProvider(t *testing.T) (*CSVProvider, string) {
	t.Helper()
	dir := t.TempDir()

	writeFixture(t, dir, "btc_1d.csv", `timestamp,open,high,low,close,volume
2024-01-01T00:00:00Z,100,110,95,105,5000
2024-01-02T00:00:00Z,105,112,101,108,6200
2024-01-03T00:00:00Z,108,115,104,111,0
`)

	writeFixture(t, dir, "newcoin_prices.csv", `timestamp,price
2024-01-01T00:00:00Z,10
2024-01-01T01:00:00Z,11
2024-01-01T02:00:00Z,9
2024-01-01T03:00:00Z,10.5
2024-01-01T04:00:00Z,12
2024-01-01T05:00:00Z,11.5
`)

	writeFixture(t, dir, "snapshots.csv", `id,symbol,name,price,change_24h,change_7d,change_30d,market_cap,market_cap_rank,total_volume,ath,ath_date
btc,BTC,Bitcoin,111,2.5,-1.2,10,2000000000,1,150000000,200,2024-03-14T00:00:00Z
newcoin,NEW,Newcoin,11.5,5,20,40,1000000,700,500000,15,2024-06-01T00:00:00Z
`)

	return NewCSVProvider(dir, filepath.Join(dir, "snapshots.csv")), dir
}

func TestCandlesFromOHLCVFile(t *testing.T) {
	provider, _ := newFixtureProvider(t)

	candles, err := provider.Candles(context.Background(), "btc", models.Timeframe1Day, 0)
	require.NoError(t, err)
	require.Len(t, candles, 3)

	assert.Equal(t, 105.0, candles[0].Close)
	assert.True(t, candles[0].HasRealVolume)
	// A zero volume column means the bar carries no real volume
	assert.False(t, candles[2].HasRealVolume)
}

func TestCandlesHonorsLimit(t *testing.T) {
	provider, _ := newFixtureProvider(t)

	candles, err := provider.Candles(context.Background(), "btc", models.Timeframe1Day, 2)
	require.NoError(t, err)
	require.Len(t, candles, 2)

	// The limit keeps the most recent bars
	assert.Equal(t, 108.0, candles[0].Close)
	assert.Equal(t, 111.0, candles[1].Close)
}

func TestCandlesFallsBackToPriceSeries(t *testing.T) {
	provider, _ := newFixtureProvider(t)

	candles, err := provider.Candles(context.Background(), "newcoin", models.Timeframe1Day, 0)
	require.NoError(t, err)

	// Six price points grouped by four reconstruct into two synthetic bars
	require.Len(t, candles, 2)
	assert.Equal(t, 10.0, candles[0].Open)
	assert.Equal(t, 10.5, candles[0].Close)
	assert.Equal(t, 11.0, candles[0].High)
	assert.Equal(t, 9.0, candles[0].Low)
	assert.False(t, candles[0].HasRealVolume)
	assert.False(t, candles[1].HasRealVolume)
}

func TestCandlesMissingAsset(t *testing.T) {
	provider, _ := newFixtureProvider(t)

	_, err := provider.Candles(context.Background(), "ghost", models.Timeframe1Day, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDataUnavailable))
}

func TestSnapshotLookup(t *testing.T) {
	provider, _ := newFixtureProvider(t)

	snapshot, err := provider.Snapshot(context.Background(), "btc")
	require.NoError(t, err)

	assert.Equal(t, "BTC", snapshot.Symbol)
	assert.Equal(t, 1, snapshot.MarketCapRank)
	assert.Equal(t, 2.5, snapshot.Change24h)
	assert.InDelta(t, 44.5, snapshot.DrawdownFromATH(), 0.0001)
}

func TestSnapshotMissingAsset(t *testing.T) {
	provider, _ := newFixtureProvider(t)

	_, err := provider.Snapshot(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDataUnavailable))
}

func TestCandlesRespectsContext(t *testing.T) {
	provider, _ := newFixtureProvider(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.Candles(ctx, "btc", models.Timeframe1Day, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
