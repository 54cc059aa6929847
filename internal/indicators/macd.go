package indicators

// MACDResult holds the three MACD series: the DIF line, its signal (DEA)
// and the histogram.
type MACDResult struct {
	DIF       []float64
	DEA       []float64
	Histogram []float64
}

// MACD computes the moving average convergence divergence:
// DIF = EMA(fast) - EMA(slow), DEA = EMA(DIF, signal), histogram = DIF-DEA.
func MACD(values []float64, fast, slow, signal int) MACDResult {
	emaFast := EMA(values, fast)
	emaSlow := EMA(values, slow)
	dif := make([]float64, len(values))
	for i := range values {
		dif[i] = emaFast[i] - emaSlow[i]
	}
	dea := EMA(dif, signal)
	hist := make([]float64, len(values))
	for i := range values {
		hist[i] = dif[i] - dea[i]
	}
	return MACDResult{DIF: dif, DEA: dea, Histogram: hist}
}
