package models

import (
	"math"
	"strings"
	"time"
)

// Side is the direction of a trade signal.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Signal represents one suggested trade produced by a strategy evaluation.
// Signals are produced fresh per evaluation and never mutated; the tuple
// (Symbol, Strategy, BarTime) is the deduplication identity.
type Signal struct {
	Symbol     string    `json:"symbol"`
	Strategy   string    `json:"strategy"`
	Side       Side      `json:"side"`
	Entry      float64   `json:"entry"`
	Target     float64   `json:"target"`
	Stop       float64   `json:"stop"`
	Confidence int       `json:"confidence"`
	Timeframe  string    `json:"timeframe"`
	Reason     string    `json:"reason"`
	BarTime    time.Time `json:"bar_time"`
}

// Key returns the deduplication key of the signal.
func (s *Signal) Key() SignalKey {
	return SignalKey{Symbol: s.Symbol, Strategy: s.Strategy, BarTime: s.BarTime.UnixMilli()}
}

// SignalKey identifies a signal for deduplication across live and
// recent-window sets.
type SignalKey struct {
	Symbol   string
	Strategy string
	BarTime  int64
}

// RoundPrice rounds a price to the display precision conventional for the
// symbol family: majors to 2 decimals, micro-priced alts to 6, everything
// else to 4.
func RoundPrice(symbol string, v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	s := strings.ToUpper(symbol)
	decimals := 4
	switch {
	case containsAny(s, "BTC", "ETH", "BNB", "SOL"):
		decimals = 2
	case containsAny(s, "XRP", "DOGE", "SHIB", "TRX"):
		decimals = 6
	}
	scale := math.Pow10(decimals)
	return math.Round(v*scale) / scale
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
