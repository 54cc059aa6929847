package strategies

// catalogue is the fixed, ordered strategy set. Order matters: the
// aggregator surfaces the first firing strategy per symbol, so the
// event strategies with the strictest history requirements lead.
var catalogue = []Strategy{
	{Name: "vegas_tunnel", Kind: KindEvent, MinBars: 160, Confidence: 45,
		Label: "Vegas tunnel breakout with ADX and volatility floors", event: vegasTunnel},
	{Name: "chan_simplified", Kind: KindEvent, MinBars: 80, Confidence: 42,
		Label: "SMA20/60 cross confirmed on the higher timeframe", event: chanSimplified},
	{Name: "macd", Kind: KindEvent, MinBars: 220, Confidence: 30,
		Label: "MACD histogram flip with EMA200 trend filter", event: macdBaseline},

	{Name: "ema_adx", Kind: KindVector, MinBars: 52, Confidence: 38,
		Label: "EMA20/50 cross in an ADX trend", vector: emaADX},
	{Name: "macd_plus", Kind: KindVector, MinBars: 37, Confidence: 36,
		Label: "MACD line cross with histogram agreement", vector: macdPlus},
	{Name: "rsi_reversion", Kind: KindVector, MinBars: 202, Confidence: 32,
		Label: "RSI leaving the extreme zone with the EMA200 trend", vector: rsiReversion},
	{Name: "bb_mean", Kind: KindVector, MinBars: 22, Confidence: 32,
		Label: "Bollinger band tag with RSI confirmation, midline target", vector: bbMean},
	{Name: "bb_squeeze", Kind: KindVector, MinBars: 22, Confidence: 36,
		Label: "Bollinger squeeze release breakout", vector: bbSqueeze},
	{Name: "donchian", Kind: KindVector, MinBars: 23, Confidence: 38,
		Label: "Donchian channel breakout", vector: donchianBreak},
	{Name: "supertrend", Kind: KindVector, MinBars: 12, Confidence: 36,
		Label: "Supertrend direction flip", vector: supertrendFlip},
	{Name: "keltner_break", Kind: KindVector, MinBars: 22, Confidence: 36,
		Label: "Keltner channel breakout", vector: keltnerBreak},
	{Name: "ichimoku_kijun", Kind: KindVector, MinBars: 54, Confidence: 36,
		Label: "Tenkan/Kijun cross outside the cloud", vector: ichimokuKijun},
	{Name: "psar_trend", Kind: KindVector, MinBars: 52, Confidence: 34,
		Label: "Parabolic SAR flip on the EMA50 side", vector: psarTrend},
	{Name: "stochrsi", Kind: KindVector, MinBars: 34, Confidence: 32,
		Label: "StochRSI %K/%D cross in the extreme zone", vector: stochRSIExtreme},
	{Name: "cci_reversion", Kind: KindVector, MinBars: 22, Confidence: 32,
		Label: "CCI zero cross after a channel excursion", vector: cciReversion},
	{Name: "adx_di", Kind: KindVector, MinBars: 30, Confidence: 36,
		Label: "+DI/-DI cross in an ADX trend", vector: adxDI},
	{Name: "heikin_ema", Kind: KindVector, MinBars: 52, Confidence: 34,
		Label: "Heikin-Ashi color flip on the EMA50 side", vector: heikinEMA},
	{Name: "vwap_pullback", Kind: KindVector, MinBars: 10, Confidence: 34,
		Label: "Reclaim of the daily anchored VWAP", vector: vwapPullback},
}

var byName = func() map[string]Strategy {
	m := make(map[string]Strategy, len(catalogue))
	for _, st := range catalogue {
		m[st.Name] = st
	}
	return m
}()

// All returns the catalogue in registration order. The returned slice is a
// copy; callers cannot alter the registry.
func All() []Strategy {
	out := make([]Strategy, len(catalogue))
	copy(out, catalogue)
	return out
}

// Names returns the strategy identifiers in registration order.
func Names() []string {
	out := make([]string, len(catalogue))
	for i, st := range catalogue {
		out[i] = st.Name
	}
	return out
}

// Lookup finds a strategy by identifier.
func Lookup(name string) (Strategy, bool) {
	st, ok := byName[name]
	return st, ok
}
