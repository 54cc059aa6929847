// Package backtest replays the strategy catalogue bar-by-bar over
// historical OHLCV and aggregates simulated trade outcomes.
package backtest

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quantbay/signal-engine/internal/models"
	"github.com/quantbay/signal-engine/internal/ohlcv"
	"github.com/quantbay/signal-engine/internal/strategies"
)

// Trade records one closed simulated position. Trades are immutable once
// recorded; positions still open when the data ends are discarded.
type Trade struct {
	Strategy   string        `json:"strategy"`
	Symbol     string        `json:"symbol"`
	Side       models.Side   `json:"side"`
	Entry      float64       `json:"entry"`
	Exit       float64       `json:"exit"`
	PnLPercent float64       `json:"pnl_percent"`
	R          float64       `json:"r"`
	EntryTime  time.Time     `json:"entry_time"`
	ExitTime   time.Time     `json:"exit_time"`
	Holding    time.Duration `json:"holding"`
}

// Summary aggregates a completed run.
type Summary struct {
	TradeCount int     `json:"trade_count"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"win_rate"`
	AverageR   float64 `json:"average_r"`
}

// Result is the full output of one backtest run. Message is set to a
// human-readable note when the run produced no trades.
type Result struct {
	Symbol    string    `json:"symbol"`
	Timeframe string    `json:"timeframe"`
	Trades    []Trade   `json:"trades"`
	Summary   Summary   `json:"summary"`
	Message   string    `json:"message,omitempty"`
	StartedAt time.Time `json:"started_at"`
	Bars      int       `json:"bars"`
}

// Config selects what to replay. An empty Strategies list runs the whole
// catalogue; a zero Warmup picks the default for the selection.
type Config struct {
	Strategies []string
	Timeframe  string
	Relax      bool
	Warmup     int
}

// macdDependent strategies need the long EMA history to be meaningful, so
// their presence raises the default warm-up window.
var macdDependent = map[string]bool{
	"macd":      true,
	"macd_plus": true,
}

const (
	defaultWarmup = 60
	macdWarmup    = 220
)

// ErrUnknownStrategy is returned when the config names a strategy that is
// not in the catalogue.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Harness replays strategies over historical series. It is stateless across
// runs and safe for concurrent use.
type Harness struct {
	log *logrus.Logger
}

func New(log *logrus.Logger) *Harness {
	return &Harness{log: log}
}

// position is one open simulated trade inside the replay state machine.
type position struct {
	side      models.Side
	entry     float64
	target    float64
	stop      float64
	entryTime time.Time
}

// Run replays the selected strategies over the series for one symbol. Each
// (strategy, symbol) pair runs an independent Flat/Open state machine: a
// signal on bar i opens a position at that bar's close, and the position
// closes on the first later bar whose close touches the target or stop.
func (h *Harness) Run(symbol string, s ohlcv.Series, cfg Config) (*Result, error) {
	selected, err := selectStrategies(cfg.Strategies)
	if err != nil {
		return nil, err
	}
	return h.RunStrategies(symbol, s, selected, cfg)
}

// RunStrategies is Run with an explicit strategy set, bypassing the
// catalogue lookup.
func (h *Harness) RunStrategies(symbol string, s ohlcv.Series, selected []strategies.Strategy, cfg Config) (*Result, error) {
	if err := ohlcv.Validate(s); err != nil {
		return nil, err
	}

	warmup := cfg.Warmup
	if warmup <= 0 {
		warmup = defaultWarmup
		for _, st := range selected {
			if macdDependent[st.Name] {
				warmup = macdWarmup
				break
			}
		}
	}

	ctx := strategies.Context{Timeframe: cfg.Timeframe, Relax: cfg.Relax}
	res := &Result{
		Symbol:    symbol,
		Timeframe: cfg.Timeframe,
		StartedAt: time.Now().UTC(),
		Bars:      len(s),
	}

	for _, st := range selected {
		trades := h.replay(symbol, s, st, ctx, warmup)
		res.Trades = append(res.Trades, trades...)
	}

	res.Summary = summarize(res.Trades)
	if res.Summary.TradeCount == 0 {
		res.Message = "no trades generated"
	}

	h.log.WithFields(logrus.Fields{
		"symbol":     symbol,
		"timeframe":  cfg.Timeframe,
		"bars":       len(s),
		"strategies": len(selected),
		"trades":     res.Summary.TradeCount,
		"win_rate":   res.Summary.WinRate,
	}).Info("Backtest run complete")

	return res, nil
}

// replay drives one strategy's state machine over the series. A strategy
// evaluation failure skips that bar and leaves the machine untouched.
func (h *Harness) replay(symbol string, s ohlcv.Series, st strategies.Strategy, ctx strategies.Context, warmup int) []Trade {
	var trades []Trade
	var open *position

	for i := warmup; i < len(s); i++ {
		bar := s[i]

		if open != nil {
			if exit, hit := open.touched(bar.Close); hit {
				trades = append(trades, open.close(st.Name, symbol, bar, exit))
				open = nil
			}
			continue
		}

		sig, err := st.Evaluate(symbol, s.Prefix(i+1), ctx)
		if err != nil {
			h.log.WithFields(logrus.Fields{
				"strategy": st.Name,
				"symbol":   symbol,
				"bar":      i,
			}).WithError(err).Warn("Strategy evaluation failed during replay")
			continue
		}
		if sig == nil {
			continue
		}
		open = &position{
			side:      sig.Side,
			entry:     bar.Close,
			target:    sig.Target,
			stop:      sig.Stop,
			entryTime: bar.Timestamp,
		}
	}

	return trades
}

// touched reports whether the close price crosses the target or stop,
// inclusive on both thresholds, and returns the R outcome.
func (p *position) touched(close float64) (r float64, hit bool) {
	switch p.side {
	case models.SideBuy:
		if close >= p.target {
			return 1, true
		}
		if close <= p.stop {
			return -1, true
		}
	case models.SideSell:
		if close <= p.target {
			return 1, true
		}
		if close >= p.stop {
			return -1, true
		}
	}
	return 0, false
}

func (p *position) close(strategy, symbol string, bar ohlcv.Candle, r float64) Trade {
	exit := bar.Close
	pnl := (exit - p.entry) / p.entry * 100
	if p.side == models.SideSell {
		pnl = -pnl
	}
	return Trade{
		Strategy:   strategy,
		Symbol:     symbol,
		Side:       p.side,
		Entry:      p.entry,
		Exit:       exit,
		PnLPercent: pnl,
		R:          r,
		EntryTime:  p.entryTime,
		ExitTime:   bar.Timestamp,
		Holding:    bar.Timestamp.Sub(p.entryTime),
	}
}

func selectStrategies(names []string) ([]strategies.Strategy, error) {
	if len(names) == 0 {
		return strategies.All(), nil
	}
	out := make([]strategies.Strategy, 0, len(names))
	for _, name := range names {
		st, ok := strategies.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
		}
		out = append(out, st)
	}
	return out, nil
}

func summarize(trades []Trade) Summary {
	sum := Summary{TradeCount: len(trades)}
	if len(trades) == 0 {
		return sum
	}
	var rTotal float64
	for _, t := range trades {
		if t.PnLPercent > 0 {
			sum.Wins++
		}
		rTotal += t.R
	}
	sum.WinRate = float64(sum.Wins) / float64(len(trades)) * 100
	sum.AverageR = rTotal / float64(len(trades))
	return sum
}
