// Package strategies holds the fixed catalogue of technical-analysis
// strategies. Each strategy consumes a closed-bar OHLCV series and either
// returns one suggested trade or nothing; evaluation is pure apart from the
// relax flag carried in the Context.
package strategies

import (
	"fmt"

	"github.com/quantbay/signal-engine/internal/models"
	"github.com/quantbay/signal-engine/internal/ohlcv"
)

// Kind discriminates the two strategy calling conventions.
type Kind int

const (
	// KindEvent strategies inspect the series directly and build a fully
	// formatted signal for the last closed bar.
	KindEvent Kind = iota
	// KindVector strategies produce aligned per-bar signal/entry/stop/target
	// series; only the last bar is consulted for a live signal.
	KindVector
)

// Context carries the evaluation parameters every strategy reads. The relax
// flag loosens trigger thresholds uniformly across the catalogue; it is
// passed by value so an in-flight evaluation never observes a toggle.
type Context struct {
	Timeframe string
	Relax     bool
}

// EvalError wraps a strategy evaluation failure. Callers log and discard it;
// a failing strategy never aborts evaluation of its siblings.
type EvalError struct {
	Strategy string
	Err      error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("strategy %s: %v", e.Strategy, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

// EventFunc is the event-style convention: symbol-aware, returns a formatted
// signal or nil.
type EventFunc func(symbol string, s ohlcv.Series, ctx Context) (*models.Signal, error)

// VectorFunc is the vectorized convention: per-bar signal series over the
// whole input.
type VectorFunc func(s ohlcv.Series, ctx Context) (*VectorResult, error)

// VectorResult holds aligned per-bar outputs: Signal is +1 long, -1 short,
// 0 none; Entry/Stop/Target are only meaningful where Signal is non-zero.
type VectorResult struct {
	Signal []int
	Entry  []float64
	Stop   []float64
	Target []float64
}

// Strategy is one catalogue entry. The zero value is not usable; entries are
// constructed by the registry at init.
type Strategy struct {
	Name       string
	Kind       Kind
	MinBars    int
	Confidence int
	Label      string

	event  EventFunc
	vector VectorFunc
}

// NewEventStrategy builds a standalone event-style strategy. The catalogue
// itself is fixed; this is for hosts that replay their own strategies
// through the backtest harness.
func NewEventStrategy(name string, minBars, confidence int, label string, fn EventFunc) Strategy {
	return Strategy{Name: name, Kind: KindEvent, MinBars: minBars, Confidence: confidence, Label: label, event: fn}
}

// NewVectorStrategy builds a standalone vectorized strategy.
func NewVectorStrategy(name string, minBars, confidence int, label string, fn VectorFunc) Strategy {
	return Strategy{Name: name, Kind: KindVector, MinBars: minBars, Confidence: confidence, Label: label, vector: fn}
}

// Evaluate runs the strategy against the series and normalizes both calling
// conventions into an optional signal. Below the strategy's minimum history
// it returns (nil, nil): insufficient history is "no signal", not an error.
func (st Strategy) Evaluate(symbol string, s ohlcv.Series, ctx Context) (*models.Signal, error) {
	if len(s) < st.MinBars {
		return nil, nil
	}

	switch st.Kind {
	case KindEvent:
		sig, err := st.event(symbol, s, ctx)
		if err != nil {
			return nil, &EvalError{Strategy: st.Name, Err: err}
		}
		return st.stamp(sig, s, ctx), nil
	case KindVector:
		res, err := st.vector(s, ctx)
		if err != nil {
			return nil, &EvalError{Strategy: st.Name, Err: err}
		}
		return st.stamp(st.lastBarSignal(symbol, s, ctx, res), s, ctx), nil
	default:
		return nil, &EvalError{Strategy: st.Name, Err: fmt.Errorf("unknown strategy kind %d", st.Kind)}
	}
}

// lastBarSignal extracts a live signal from the final bar of a vectorized
// result, applying the symbol's price rounding.
func (st Strategy) lastBarSignal(symbol string, s ohlcv.Series, ctx Context, res *VectorResult) *models.Signal {
	if res == nil || len(res.Signal) != len(s) || len(s) == 0 {
		return nil
	}
	i := len(s) - 1
	if res.Signal[i] == 0 {
		return nil
	}
	side := models.SideBuy
	if res.Signal[i] < 0 {
		side = models.SideSell
	}
	if !finite(res.Entry[i]) || !finite(res.Target[i]) || !finite(res.Stop[i]) {
		return nil
	}
	verb := "long"
	if side == models.SideSell {
		verb = "short"
	}
	return &models.Signal{
		Symbol:     symbol,
		Strategy:   st.Name,
		Side:       side,
		Entry:      models.RoundPrice(symbol, res.Entry[i]),
		Target:     models.RoundPrice(symbol, res.Target[i]),
		Stop:       models.RoundPrice(symbol, res.Stop[i]),
		Confidence: st.Confidence,
		Reason:     fmt.Sprintf("%s (%s) %s: %s", symbol, ctx.Timeframe, verb, st.Label),
	}
}

// stamp fills in the fields shared by both conventions.
func (st Strategy) stamp(sig *models.Signal, s ohlcv.Series, ctx Context) *models.Signal {
	if sig == nil {
		return nil
	}
	sig.Strategy = st.Name
	sig.Timeframe = ctx.Timeframe
	if last, ok := s.Last(); ok {
		sig.BarTime = last.Timestamp
	}
	return sig
}
