package strategies

import (
	"github.com/quantbay/signal-engine/internal/indicators"
	"github.com/quantbay/signal-engine/internal/ohlcv"
)

// vwapPullback: price reclaiming or losing the session-anchored VWAP.
func vwapPullback(s ohlcv.Series, _ Context) (*VectorResult, error) {
	closes := s.Closes()
	vwap := indicators.AnchoredVWAP(s.Highs(), s.Lows(), closes, s.Volumes(), s.Timestamps())

	long := indicators.CrossOverSeries(closes, vwap)
	short := indicators.CrossUnderSeries(closes, vwap)
	return pack(s, long, short, nil, nil, 1.8, 1.5), nil
}
