package strategies

import (
	"math"

	"github.com/quantbay/signal-engine/internal/indicators"
	"github.com/quantbay/signal-engine/internal/ohlcv"
)

// pack assembles a VectorResult from per-bar long/short masks. Entries
// default to the close; the ATR series defaults to ATR(14). Stops anchor at
// the signal bar's low (long) or high (short) offset by atrMult ATRs;
// targets sit rr ATRs from the entry. Bars whose ATR is undefined emit no
// signal.
func pack(s ohlcv.Series, long, short []bool, entry, atr []float64, atrMult, rr float64) *VectorResult {
	n := len(s)
	closes := s.Closes()
	highs := s.Highs()
	lows := s.Lows()
	if entry == nil {
		entry = closes
	}
	if atr == nil {
		atr = indicators.ATR(highs, lows, closes, 14)
	}

	res := &VectorResult{
		Signal: make([]int, n),
		Entry:  make([]float64, n),
		Stop:   make([]float64, n),
		Target: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		res.Entry[i] = entry[i]
		res.Stop[i] = math.NaN()
		res.Target[i] = math.NaN()
		if !indicators.Defined(atr[i]) || atr[i] <= 0 {
			continue
		}
		switch {
		case long[i]:
			res.Signal[i] = 1
			res.Stop[i] = lows[i] - atr[i]*atrMult
			res.Target[i] = entry[i] + atr[i]*rr
		case short[i]:
			res.Signal[i] = -1
			res.Stop[i] = highs[i] + atr[i]*atrMult
			res.Target[i] = entry[i] - atr[i]*rr
		}
	}
	return res
}

func andMask(a []bool, cond func(i int) bool) []bool {
	out := make([]bool, len(a))
	for i := range a {
		out[i] = a[i] && cond(i)
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
