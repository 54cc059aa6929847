package backtest

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantbay/signal-engine/internal/models"
	"github.com/quantbay/signal-engine/internal/ohlcv"
	"github.com/quantbay/signal-engine/internal/strategies"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func seriesFromCloses(closes []float64) ohlcv.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(ohlcv.Series, len(closes))
	for i, c := range closes {
		s[i] = ohlcv.Candle{
			Timestamp: start.Add(time.Duration(i) * 4 * time.Hour),
			Open:      c, High: c + 1, Low: c - 1, Close: c, Volume: 10,
		}
	}
	return s
}

// buyAt emits a BUY with fixed target/stop whenever the prefix length
// matches one of the given bar counts.
func buyAt(target, stop float64, lengths ...int) strategies.Strategy {
	want := make(map[int]bool, len(lengths))
	for _, n := range lengths {
		want[n] = true
	}
	return strategies.NewEventStrategy("test_buy", 1, 50, "scripted entry",
		func(symbol string, s ohlcv.Series, _ strategies.Context) (*models.Signal, error) {
			if !want[len(s)] {
				return nil, nil
			}
			last := s[len(s)-1]
			return &models.Signal{
				Symbol: symbol,
				Side:   models.SideBuy,
				Entry:  last.Close,
				Target: target,
				Stop:   stop,
			}, nil
		})
}

func TestTargetHitClosesAtBarClose(t *testing.T) {
	closes := []float64{100, 100, 100, 100, 100, 103, 112, 100, 100, 100}
	s := seriesFromCloses(closes)
	h := New(testLogger())

	// Signal on the 5th bar (index 4, close 100), target 110, stop 90.
	res, err := h.RunStrategies("BTC/USDT", s, []strategies.Strategy{buyAt(110, 90, 5)}, Config{
		Timeframe: "4h",
		Warmup:    3,
	})
	require.NoError(t, err)
	require.Len(t, res.Trades, 1)

	trade := res.Trades[0]
	assert.Equal(t, models.SideBuy, trade.Side)
	assert.Equal(t, 100.0, trade.Entry)
	// Exit is the touching bar's close, not the target level.
	assert.Equal(t, 112.0, trade.Exit)
	assert.InDelta(t, 12.0, trade.PnLPercent, 1e-9)
	assert.Equal(t, 1.0, trade.R)
	assert.Equal(t, s[4].Timestamp, trade.EntryTime)
	assert.Equal(t, s[6].Timestamp, trade.ExitTime)
	assert.Equal(t, 8*time.Hour, trade.Holding)

	assert.Equal(t, 1, res.Summary.TradeCount)
	assert.Equal(t, 100.0, res.Summary.WinRate)
	assert.Equal(t, 1.0, res.Summary.AverageR)
}

func TestStopTouchIsInclusive(t *testing.T) {
	closes := []float64{100, 100, 100, 100, 100, 90, 100, 100, 100, 100}
	s := seriesFromCloses(closes)
	h := New(testLogger())

	res, err := h.RunStrategies("BTC/USDT", s, []strategies.Strategy{buyAt(110, 90, 5)}, Config{
		Timeframe: "4h",
		Warmup:    3,
	})
	require.NoError(t, err)
	require.Len(t, res.Trades, 1)
	assert.Equal(t, 90.0, res.Trades[0].Exit) // close == stop closes the trade
	assert.Equal(t, -1.0, res.Trades[0].R)
	assert.InDelta(t, -10.0, res.Trades[0].PnLPercent, 1e-9)
}

func TestNoOverlappingPositions(t *testing.T) {
	// The scripted strategy would fire at bars 5, 6 and 7, but a position
	// is already open from bar 5 until the target touch at bar 9; only the
	// post-exit fire at bar 11 opens a second trade.
	closes := []float64{100, 100, 100, 100, 100, 100, 100, 100, 112, 100, 100, 100, 90, 100}
	s := seriesFromCloses(closes)
	h := New(testLogger())

	res, err := h.RunStrategies("BTC/USDT", s, []strategies.Strategy{buyAt(110, 90, 5, 6, 7, 11)}, Config{
		Timeframe: "4h",
		Warmup:    3,
	})
	require.NoError(t, err)
	require.Len(t, res.Trades, 2)
	assert.Equal(t, s[4].Timestamp, res.Trades[0].EntryTime)
	assert.Equal(t, s[8].Timestamp, res.Trades[0].ExitTime)
	assert.Equal(t, s[10].Timestamp, res.Trades[1].EntryTime)
	assert.Equal(t, s[12].Timestamp, res.Trades[1].ExitTime)

	// One winner, one loser.
	assert.Equal(t, 2, res.Summary.TradeCount)
	assert.Equal(t, 1, res.Summary.Wins)
	assert.Equal(t, 50.0, res.Summary.WinRate)
	assert.Equal(t, 0.0, res.Summary.AverageR)
}

func TestOpenPositionAtEndIsDiscarded(t *testing.T) {
	closes := []float64{100, 100, 100, 100, 100, 101, 102, 103}
	s := seriesFromCloses(closes)
	h := New(testLogger())

	res, err := h.RunStrategies("BTC/USDT", s, []strategies.Strategy{buyAt(150, 50, 5)}, Config{
		Timeframe: "4h",
		Warmup:    3,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Trades)
	assert.Equal(t, "no trades generated", res.Message)
}

func TestSellSideTouchesAreMirrored(t *testing.T) {
	sell := strategies.NewEventStrategy("test_sell", 1, 50, "scripted short",
		func(symbol string, s ohlcv.Series, _ strategies.Context) (*models.Signal, error) {
			if len(s) != 5 {
				return nil, nil
			}
			return &models.Signal{
				Symbol: symbol,
				Side:   models.SideSell,
				Entry:  100,
				Target: 90,
				Stop:   110,
			}, nil
		})

	closes := []float64{100, 100, 100, 100, 100, 95, 88, 100, 100}
	s := seriesFromCloses(closes)
	h := New(testLogger())

	res, err := h.RunStrategies("ETH/USDT", s, []strategies.Strategy{sell}, Config{Timeframe: "4h", Warmup: 3})
	require.NoError(t, err)
	require.Len(t, res.Trades, 1)
	trade := res.Trades[0]
	assert.Equal(t, models.SideSell, trade.Side)
	assert.Equal(t, 88.0, trade.Exit)
	assert.Equal(t, 1.0, trade.R)
	assert.InDelta(t, 12.0, trade.PnLPercent, 1e-9) // short profits from the drop
}

func TestStrategyFailuresAreIsolated(t *testing.T) {
	failing := strategies.NewEventStrategy("test_fail", 1, 50, "always errors",
		func(string, ohlcv.Series, strategies.Context) (*models.Signal, error) {
			return nil, fmt.Errorf("bad math")
		})

	closes := []float64{100, 100, 100, 100, 100, 112, 100, 100}
	s := seriesFromCloses(closes)
	h := New(testLogger())

	res, err := h.RunStrategies("BTC/USDT", s,
		[]strategies.Strategy{failing, buyAt(110, 90, 5)},
		Config{Timeframe: "4h", Warmup: 3})
	require.NoError(t, err)
	require.Len(t, res.Trades, 1)
	assert.Equal(t, "test_buy", res.Trades[0].Strategy)
}

func TestWarmupDefaults(t *testing.T) {
	// A scripted strategy firing on every prefix shows where evaluation
	// actually starts.
	fireEverywhere := buyAt(1e9, -1e9, 61, 221)

	closes := make([]float64, 240)
	for i := range closes {
		closes[i] = 100
	}
	s := seriesFromCloses(closes)
	h := New(testLogger())

	// Default warm-up is 60 bars: the bar-61 fire is seen.
	res, err := h.RunStrategies("BTC/USDT", s, []strategies.Strategy{fireEverywhere}, Config{Timeframe: "4h"})
	require.NoError(t, err)
	assert.Empty(t, res.Trades) // position never exits with absurd levels
	assert.Equal(t, "no trades generated", res.Message)

	// Including a MACD-dependent strategy raises the default warm-up to
	// 220, so a fire scripted for bar 100 is never evaluated.
	lateFire := buyAt(110, 90, 100)
	res, err = h.RunStrategies("BTC/USDT", s,
		[]strategies.Strategy{lateFire, mustLookup(t, "macd_plus")},
		Config{Timeframe: "4h"})
	require.NoError(t, err)
	// Warm-up 220 skips the bar-100 fire entirely.
	assert.Empty(t, res.Trades)
}

func mustLookup(t *testing.T, name string) strategies.Strategy {
	t.Helper()
	st, ok := strategies.Lookup(name)
	require.True(t, ok)
	return st
}

func TestRunRejectsUnknownStrategy(t *testing.T) {
	s := seriesFromCloses([]float64{100, 101, 102})
	h := New(testLogger())
	_, err := h.Run("BTC/USDT", s, Config{Strategies: []string{"nope"}, Timeframe: "4h"})
	require.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestRunValidatesSeries(t *testing.T) {
	s := seriesFromCloses([]float64{100, 101})
	s[0], s[1] = s[1], s[0] // break ordering
	h := New(testLogger())
	_, err := h.Run("BTC/USDT", s, Config{Timeframe: "4h"})
	var schemaErr *ohlcv.SchemaError
	require.ErrorAs(t, err, &schemaErr)
}
