package indicators

// HeikinAshi holds the recursively derived Heikin-Ashi open and close.
type HeikinAshi struct {
	Open  []float64
	Close []float64
}

// HeikinAshiOC derives Heikin-Ashi open/close from raw OHLC. The HA close
// is the bar's OHLC mean; the HA open is the midpoint of the previous HA
// bar, seeded from the first raw bar.
func HeikinAshiOC(open, high, low, close []float64) HeikinAshi {
	n := len(close)
	res := HeikinAshi{Open: make([]float64, n), Close: make([]float64, n)}
	for i := 0; i < n; i++ {
		res.Close[i] = (open[i] + high[i] + low[i] + close[i]) / 4.0
		if i == 0 {
			res.Open[i] = (open[i] + close[i]) / 2.0
			continue
		}
		res.Open[i] = (res.Open[i-1] + res.Close[i-1]) / 2.0
	}
	return res
}
