package strategies

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantbay/signal-engine/internal/indicators"
	"github.com/quantbay/signal-engine/internal/models"
	"github.com/quantbay/signal-engine/internal/ohlcv"
)

// The series holds at 100 for nearly three UTC days of 4h bars, then the
// final bar jumps to 105, crossing above that day's anchored VWAP.
func vwapBreakSeries() ohlcv.Series {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	s := make(ohlcv.Series, 18)
	for i := 0; i < 17; i++ {
		s[i] = ohlcv.Candle{
			Timestamp: start.Add(time.Duration(i) * 4 * time.Hour),
			Open:      100, High: 101, Low: 99, Close: 100, Volume: 10,
		}
	}
	s[17] = ohlcv.Candle{
		Timestamp: start.Add(17 * 4 * time.Hour),
		Open:      100, High: 106, Low: 104, Close: 105, Volume: 10,
	}
	return s
}

func TestVWAPPullbackFiresOnReclaim(t *testing.T) {
	s := vwapBreakSeries()
	st, ok := Lookup("vwap_pullback")
	require.True(t, ok)

	sig, err := st.Evaluate("ADA/USDT", s, Context{Timeframe: "4h"})
	require.NoError(t, err)
	require.NotNil(t, sig)

	assert.Equal(t, models.SideBuy, sig.Side)
	assert.Equal(t, "vwap_pullback", sig.Strategy)
	assert.Equal(t, 105.0, sig.Entry)

	// Stop and target follow the pack convention: stop at the signal bar's
	// low minus 1.8 ATR, target at entry plus 1.5 ATR.
	atr := indicators.ATR(s.Highs(), s.Lows(), s.Closes(), 14)
	last := atr[len(atr)-1]
	require.True(t, indicators.Defined(last))
	assert.InDelta(t, models.RoundPrice("ADA/USDT", 104-1.8*last), sig.Stop, 1e-9)
	assert.InDelta(t, models.RoundPrice("ADA/USDT", 105+1.5*last), sig.Target, 1e-9)
	assert.Equal(t, s[17].Timestamp, sig.BarTime)
}

func TestVWAPPullbackQuietSeriesStaysSilent(t *testing.T) {
	s := vwapBreakSeries()[:17] // without the breakout bar
	st, _ := Lookup("vwap_pullback")
	sig, err := st.Evaluate("ADA/USDT", s, Context{Timeframe: "4h"})
	require.NoError(t, err)
	assert.Nil(t, sig)
}
