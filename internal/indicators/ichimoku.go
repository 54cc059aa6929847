package indicators

// Ichimoku holds the conversion/base lines, the two spans and the cloud
// extremes derived from them. Spans are not displaced; strategies compare
// the close against the cloud of the same bar.
type Ichimoku struct {
	Tenkan   []float64
	Kijun    []float64
	SpanA    []float64
	SpanB    []float64
	CloudTop []float64
	CloudBot []float64
}

// IchimokuLines computes the Ichimoku components from rolling high/low
// midpoints: Tenkan over tenkan bars, Kijun over kijun bars, Span A as
// their mean and Span B over senkou bars.
func IchimokuLines(high, low []float64, tenkan, kijun, senkou int) Ichimoku {
	n := len(high)
	mid := func(length int) []float64 {
		hh := RollingMax(high, length)
		ll := RollingMin(low, length)
		out := nanSlice(n)
		for i := range out {
			if Defined(hh[i]) && Defined(ll[i]) {
				out[i] = (hh[i] + ll[i]) / 2.0
			}
		}
		return out
	}

	res := Ichimoku{
		Tenkan:   mid(tenkan),
		Kijun:    mid(kijun),
		SpanB:    mid(senkou),
		SpanA:    nanSlice(n),
		CloudTop: nanSlice(n),
		CloudBot: nanSlice(n),
	}
	for i := 0; i < n; i++ {
		if Defined(res.Tenkan[i]) && Defined(res.Kijun[i]) {
			res.SpanA[i] = (res.Tenkan[i] + res.Kijun[i]) / 2.0
		}
		if Defined(res.SpanA[i]) && Defined(res.SpanB[i]) {
			if res.SpanA[i] > res.SpanB[i] {
				res.CloudTop[i] = res.SpanA[i]
				res.CloudBot[i] = res.SpanB[i]
			} else {
				res.CloudTop[i] = res.SpanB[i]
				res.CloudBot[i] = res.SpanA[i]
			}
		}
	}
	return res
}
