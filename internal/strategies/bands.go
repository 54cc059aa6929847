package strategies

import (
	"github.com/quantbay/signal-engine/internal/indicators"
	"github.com/quantbay/signal-engine/internal/ohlcv"
)

// bbMean: mean reversion at the Bollinger extremes, confirmed by RSI; the
// target is overridden to the band midline.
func bbMean(s ohlcv.Series, _ Context) (*VectorResult, error) {
	closes := s.Closes()
	bb := indicators.Bollinger(closes, 20, 2.0)
	rsi := indicators.RSI(closes, 14)

	n := len(s)
	long := make([]bool, n)
	short := make([]bool, n)
	for i := range closes {
		if !indicators.Defined(bb.Lower[i]) || !indicators.Defined(rsi[i]) {
			continue
		}
		long[i] = closes[i] < bb.Lower[i] && rsi[i] < 40
		short[i] = closes[i] > bb.Upper[i] && rsi[i] > 60
	}
	res := pack(s, long, short, nil, nil, 1.6, 1.2)
	for i := range closes {
		if res.Signal[i] != 0 && indicators.Defined(bb.Middle[i]) {
			res.Target[i] = bb.Middle[i]
		}
	}
	return res, nil
}

// bbSqueeze: breakout from a compressed Bollinger band. The squeeze is a
// bandwidth below threshold; entry is the close crossing the band.
func bbSqueeze(s ohlcv.Series, _ Context) (*VectorResult, error) {
	closes := s.Closes()
	bb := indicators.Bollinger(closes, 20, 2.0)

	squeezed := func(i int) bool {
		if !indicators.Defined(bb.Middle[i]) || bb.Middle[i] == 0 {
			return false
		}
		return (bb.Upper[i]-bb.Lower[i])/bb.Middle[i] < 0.05
	}
	long := andMask(indicators.CrossOverSeries(closes, bb.Upper), squeezed)
	short := andMask(indicators.CrossUnderSeries(closes, bb.Lower), squeezed)
	return pack(s, long, short, nil, nil, 2.2, 2.2), nil
}

// donchianBreak: turtle-style breakout of the previous bar's 20-bar
// channel. The prior-bar channel is used so a new extreme can actually
// cross it.
func donchianBreak(s ohlcv.Series, _ Context) (*VectorResult, error) {
	closes := s.Closes()
	dc := indicators.Donchian(s.Highs(), s.Lows(), 20)
	upper := indicators.Shift(dc.Upper)
	lower := indicators.Shift(dc.Lower)

	long := indicators.CrossOverSeries(closes, upper)
	short := indicators.CrossUnderSeries(closes, lower)
	return pack(s, long, short, nil, nil, 2.5, 2.5), nil
}

// keltnerBreak: close crossing the Keltner channel.
func keltnerBreak(s ohlcv.Series, _ Context) (*VectorResult, error) {
	closes := s.Closes()
	kc := indicators.Keltner(s.Highs(), s.Lows(), closes, 20, 2.0)

	long := indicators.CrossOverSeries(closes, kc.Upper)
	short := indicators.CrossUnderSeries(closes, kc.Lower)
	return pack(s, long, short, nil, nil, 2.0, 2.0), nil
}
