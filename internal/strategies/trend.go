package strategies

import (
	"github.com/quantbay/signal-engine/internal/indicators"
	"github.com/quantbay/signal-engine/internal/ohlcv"
)

// emaADX: EMA20/EMA50 crossover gated by trend strength.
func emaADX(s ohlcv.Series, _ Context) (*VectorResult, error) {
	closes := s.Closes()
	e1 := indicators.EMA(closes, 20)
	e2 := indicators.EMA(closes, 50)
	adx := indicators.ADX(s.Highs(), s.Lows(), closes, 14)

	adxOK := func(i int) bool { return indicators.Defined(adx[i]) && adx[i] >= 20 }
	long := andMask(indicators.CrossOverSeries(e1, e2), adxOK)
	short := andMask(indicators.CrossUnderSeries(e1, e2), adxOK)
	return pack(s, long, short, nil, nil, 2.0, 2.0), nil
}

// macdPlus: MACD line crossing its signal line with the histogram agreeing
// in sign.
func macdPlus(s ohlcv.Series, _ Context) (*VectorResult, error) {
	closes := s.Closes()
	m := indicators.MACD(closes, 12, 26, 9)

	long := andMask(indicators.CrossOverSeries(m.DIF, m.DEA), func(i int) bool { return m.Histogram[i] > 0 })
	short := andMask(indicators.CrossUnderSeries(m.DIF, m.DEA), func(i int) bool { return m.Histogram[i] < 0 })
	return pack(s, long, short, nil, nil, 2.0, 2.0), nil
}

// supertrendFlip: enter when the Supertrend direction sign flips.
func supertrendFlip(s ohlcv.Series, _ Context) (*VectorResult, error) {
	st := indicators.Supertrend(s.Highs(), s.Lows(), s.Closes(), 10, 3.0)
	zero := indicators.Constant(0, len(s))
	long := indicators.CrossOverSeries(st.Direction, zero)
	short := indicators.CrossUnderSeries(st.Direction, zero)
	return pack(s, long, short, nil, nil, 2.0, 2.0), nil
}

// adxDI: +DI crossing -DI while ADX confirms an established trend.
func adxDI(s ohlcv.Series, _ Context) (*VectorResult, error) {
	dmi := indicators.DirectionalMovement(s.Highs(), s.Lows(), s.Closes(), 14)

	adxOK := func(i int) bool { return indicators.Defined(dmi.ADX[i]) && dmi.ADX[i] >= 20 }
	long := andMask(indicators.CrossOverSeries(dmi.PlusDI, dmi.MinusDI), adxOK)
	short := andMask(indicators.CrossUnderSeries(dmi.PlusDI, dmi.MinusDI), adxOK)
	return pack(s, long, short, nil, nil, 2.0, 2.0), nil
}

// psarTrend: close crossing the parabolic SAR with EMA50 agreeing.
func psarTrend(s ohlcv.Series, _ Context) (*VectorResult, error) {
	closes := s.Closes()
	ps := indicators.PSAR(s.Highs(), s.Lows(), 0.02, 0.2)
	ema50 := indicators.EMA(closes, 50)

	long := andMask(indicators.CrossOverSeries(closes, ps), func(i int) bool { return closes[i] > ema50[i] })
	short := andMask(indicators.CrossUnderSeries(closes, ps), func(i int) bool { return closes[i] < ema50[i] })
	return pack(s, long, short, nil, nil, 2.0, 2.0), nil
}

// heikinEMA: Heikin-Ashi close crossing its open with the raw close on the
// right side of EMA50.
func heikinEMA(s ohlcv.Series, _ Context) (*VectorResult, error) {
	closes := s.Closes()
	ha := indicators.HeikinAshiOC(s.Opens(), s.Highs(), s.Lows(), closes)
	ema50 := indicators.EMA(closes, 50)

	long := andMask(indicators.CrossOverSeries(ha.Close, ha.Open), func(i int) bool { return closes[i] > ema50[i] })
	short := andMask(indicators.CrossUnderSeries(ha.Close, ha.Open), func(i int) bool { return closes[i] < ema50[i] })
	return pack(s, long, short, nil, nil, 2.0, 1.6), nil
}

// ichimokuKijun: Tenkan/Kijun cross with the close outside the cloud in the
// trade direction.
func ichimokuKijun(s ohlcv.Series, _ Context) (*VectorResult, error) {
	closes := s.Closes()
	ich := indicators.IchimokuLines(s.Highs(), s.Lows(), 9, 26, 52)

	long := andMask(indicators.CrossOverSeries(ich.Tenkan, ich.Kijun), func(i int) bool {
		return indicators.Defined(ich.CloudTop[i]) && closes[i] > ich.CloudTop[i]
	})
	short := andMask(indicators.CrossUnderSeries(ich.Tenkan, ich.Kijun), func(i int) bool {
		return indicators.Defined(ich.CloudBot[i]) && closes[i] < ich.CloudBot[i]
	})
	return pack(s, long, short, nil, nil, 2.2, 2.0), nil
}
