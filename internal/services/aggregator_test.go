package services

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantbay/signal-engine/internal/models"
	"github.com/quantbay/signal-engine/internal/ohlcv"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func flatSeries(n int) ohlcv.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(ohlcv.Series, n)
	for i := range s {
		s[i] = ohlcv.Candle{
			Timestamp: start.Add(time.Duration(i) * 4 * time.Hour),
			Open:      100, High: 101, Low: 99, Close: 100, Volume: 10,
		}
	}
	return s
}

func TestRelaxToggle(t *testing.T) {
	sa := NewSignalAggregator(testLogger(), nil)
	assert.False(t, sa.Relax())
	sa.SetRelax(true)
	assert.True(t, sa.Relax())
	sa.SetRelax(false)
	assert.False(t, sa.Relax())
}

func TestCollectSkipsInvalidSymbol(t *testing.T) {
	sa := NewSignalAggregator(testLogger(), nil)

	bad := flatSeries(10)
	bad[0], bad[1] = bad[1], bad[0] // unsorted timestamps

	signals := sa.Collect(map[string]ohlcv.Series{
		"GOOD/USDT": flatSeries(300),
		"BAD/USDT":  bad,
	}, "4h", nil)

	// The flat series generates nothing and the bad one is skipped; the
	// point is that validation failure does not panic or abort the pass.
	assert.Empty(t, signals)
}

func TestCollectHonorsEnabledList(t *testing.T) {
	sa := NewSignalAggregator(testLogger(), nil)
	signals := sa.Collect(map[string]ohlcv.Series{
		"BTC/USDT": flatSeries(300),
	}, "4h", []string{"supertrend"})
	assert.Empty(t, signals)
}

func barTime(h int) time.Time {
	return time.Date(2024, 1, 1, h, 0, 0, 0, time.UTC)
}

func TestMergePrefersLive(t *testing.T) {
	live := []models.Signal{
		{Symbol: "BTC/USDT", Strategy: "supertrend", BarTime: barTime(8), Confidence: 50},
	}
	recent := []models.Signal{
		{Symbol: "BTC/USDT", Strategy: "supertrend", BarTime: barTime(8), Confidence: 10},
		{Symbol: "BTC/USDT", Strategy: "supertrend", BarTime: barTime(4), Confidence: 20},
		{Symbol: "ETH/USDT", Strategy: "donchian", BarTime: barTime(8), Confidence: 30},
	}

	merged := mergeSignals(live, recent)
	require.Len(t, merged, 3)
	// The duplicate (symbol, strategy, bar time) kept the live confidence.
	assert.Equal(t, 50, merged[0].Confidence)
	assert.Equal(t, barTime(4), merged[1].BarTime)
	assert.Equal(t, "ETH/USDT", merged[2].Symbol)
}

func TestSurfaceTopPerSymbol(t *testing.T) {
	signals := []models.Signal{
		{Symbol: "BTC/USDT", Strategy: "supertrend", BarTime: barTime(8)},
		{Symbol: "BTC/USDT", Strategy: "vegas_tunnel", BarTime: barTime(8)},
		{Symbol: "ETH/USDT", Strategy: "donchian", BarTime: barTime(8)},
		{Symbol: "ETH/USDT", Strategy: "donchian", BarTime: barTime(12)},
	}

	top := SurfaceTopPerSymbol(signals)
	require.Len(t, top, 2)

	bySymbol := make(map[string]models.Signal)
	for _, sig := range top {
		bySymbol[sig.Symbol] = sig
	}
	// vegas_tunnel precedes supertrend in catalogue order.
	assert.Equal(t, "vegas_tunnel", bySymbol["BTC/USDT"].Strategy)
	// Same strategy twice: the newer bar wins.
	assert.Equal(t, barTime(12), bySymbol["ETH/USDT"].BarTime)
}

func TestSurfaceTopIgnoresUnknownStrategies(t *testing.T) {
	signals := []models.Signal{
		{Symbol: "BTC/USDT", Strategy: "donchian", BarTime: barTime(8)},
		{Symbol: "BTC/USDT", Strategy: "mystery", BarTime: barTime(12)},
	}
	top := SurfaceTopPerSymbol(signals)
	require.Len(t, top, 1)
	assert.Equal(t, "donchian", top[0].Strategy)
}

func TestSurfaceTopUnknownStrategiesRankByBarTime(t *testing.T) {
	signals := []models.Signal{
		{Symbol: "BTC/USDT", Strategy: "mystery_a", BarTime: barTime(8)},
		{Symbol: "BTC/USDT", Strategy: "mystery_b", BarTime: barTime(12)},
		{Symbol: "BTC/USDT", Strategy: "mystery_c", BarTime: barTime(4)},
	}
	top := SurfaceTopPerSymbol(signals)
	require.Len(t, top, 1)
	// All off-catalogue names share the same rank; the newest bar wins
	// regardless of input order.
	assert.Equal(t, "mystery_b", top[0].Strategy)

	// Any catalogue strategy still beats the whole unknown group.
	signals = append(signals, models.Signal{Symbol: "BTC/USDT", Strategy: "heikin_ema", BarTime: barTime(1)})
	top = SurfaceTopPerSymbol(signals)
	require.Len(t, top, 1)
	assert.Equal(t, "heikin_ema", top[0].Strategy)
}
