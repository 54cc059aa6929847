package strategies

import (
	"github.com/quantbay/signal-engine/internal/indicators"
	"github.com/quantbay/signal-engine/internal/ohlcv"
)

// rsiReversion: RSI leaving the oversold/overbought zone with EMA200
// keeping trades on the side of the larger trend.
func rsiReversion(s ohlcv.Series, _ Context) (*VectorResult, error) {
	closes := s.Closes()
	rsi := indicators.RSI(closes, 14)
	ema200 := indicators.EMA(closes, 200)
	lowRef := indicators.Constant(30, len(s))
	highRef := indicators.Constant(70, len(s))

	long := andMask(indicators.CrossOverSeries(rsi, lowRef), func(i int) bool { return closes[i] > ema200[i] })
	short := andMask(indicators.CrossUnderSeries(rsi, highRef), func(i int) bool { return closes[i] < ema200[i] })
	return pack(s, long, short, nil, nil, 1.8, 1.2), nil
}

// stochRSIExtreme: %K crossing %D inside the extreme zones.
func stochRSIExtreme(s ohlcv.Series, _ Context) (*VectorResult, error) {
	closes := s.Closes()
	sr := indicators.StochRSI(closes, 14, 14, 3, 3)

	long := andMask(indicators.CrossOverSeries(sr.K, sr.D), func(i int) bool { return sr.K[i] < 0.2 })
	short := andMask(indicators.CrossUnderSeries(sr.K, sr.D), func(i int) bool { return sr.K[i] > 0.8 })
	return pack(s, long, short, nil, nil, 1.8, 1.2), nil
}

// cciReversion: CCI returning through zero after an excursion beyond
// +/-100 within the last channel length of bars.
func cciReversion(s ohlcv.Series, _ Context) (*VectorResult, error) {
	const length = 20
	cci := indicators.CCI(s.Highs(), s.Lows(), s.Closes(), length)
	zero := indicators.Constant(0, len(s))

	wasBelow := recentExtreme(cci, length, func(v float64) bool { return v < -100 })
	wasAbove := recentExtreme(cci, length, func(v float64) bool { return v > 100 })

	long := andMask(indicators.CrossOverSeries(cci, zero), func(i int) bool { return wasBelow[i] })
	short := andMask(indicators.CrossUnderSeries(cci, zero), func(i int) bool { return wasAbove[i] })
	return pack(s, long, short, nil, nil, 1.8, 1.2), nil
}

// recentExtreme marks bars where pred held for some defined value within
// the previous window bars (exclusive of the current bar).
func recentExtreme(values []float64, window int, pred func(float64) bool) []bool {
	out := make([]bool, len(values))
	for i := range values {
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		for j := lo; j < i; j++ {
			if indicators.Defined(values[j]) && pred(values[j]) {
				out[i] = true
				break
			}
		}
	}
	return out
}
