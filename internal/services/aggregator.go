// Package services hosts the engine's orchestration layer: signal
// aggregation across symbols and the quality scorer that refines raw
// strategy confidence.
package services

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/quantbay/signal-engine/internal/models"
	"github.com/quantbay/signal-engine/internal/ohlcv"
	"github.com/quantbay/signal-engine/internal/strategies"
)

// recentWindow is how many closed bars back the aggregator replays when
// building the recent-signal set.
const recentWindow = 3

// SignalAggregator evaluates the strategy catalogue across symbols and
// merges the results into one deduplicated, per-symbol surfaced set.
//
// The relax flag lives here rather than in package-level state; every
// evaluation receives it as an explicit Context value, so a toggle never
// affects an in-flight pass.
type SignalAggregator struct {
	logger *logrus.Logger
	scorer *QualityScorer

	mu    sync.RWMutex
	relax bool
}

// NewSignalAggregator creates a new signal aggregator. The scorer may be
// nil, in which case raw strategy confidence is surfaced unchanged.
func NewSignalAggregator(logger *logrus.Logger, scorer *QualityScorer) *SignalAggregator {
	return &SignalAggregator{logger: logger, scorer: scorer}
}

// SetRelax toggles relaxed thresholds for subsequent evaluations.
func (sa *SignalAggregator) SetRelax(enabled bool) {
	sa.mu.Lock()
	sa.relax = enabled
	sa.mu.Unlock()
}

// Relax reports the current relax setting.
func (sa *SignalAggregator) Relax() bool {
	sa.mu.RLock()
	defer sa.mu.RUnlock()
	return sa.relax
}

// Collect evaluates every enabled strategy against every symbol's series
// and returns the merged live and recent-window signal sets, deduplicated
// by (symbol, strategy, bar time) with live entries winning. A symbol whose
// series fails validation is skipped and reported; it never aborts the
// others. An empty names list enables the whole catalogue.
func (sa *SignalAggregator) Collect(symbolSeries map[string]ohlcv.Series, timeframe string, names []string) []models.Signal {
	ctx := strategies.Context{Timeframe: timeframe, Relax: sa.Relax()}
	enabled := sa.enabledSet(names)

	var live, recent []models.Signal
	for symbol, s := range symbolSeries {
		if err := ohlcv.Validate(s); err != nil {
			sa.logger.WithFields(logrus.Fields{
				"symbol":    symbol,
				"timeframe": timeframe,
			}).WithError(err).Warn("Skipping symbol with invalid series")
			continue
		}
		live = append(live, sa.evaluateSymbol(symbol, s, ctx, enabled)...)
		for back := 1; back <= recentWindow && back < len(s); back++ {
			recent = append(recent, sa.evaluateSymbol(symbol, s.Prefix(len(s)-back), ctx, enabled)...)
		}
	}

	merged := mergeSignals(live, recent)
	sa.logger.WithFields(logrus.Fields{
		"symbols":   len(symbolSeries),
		"timeframe": timeframe,
		"live":      len(live),
		"recent":    len(recent),
		"merged":    len(merged),
		"relax":     ctx.Relax,
	}).Info("Signal collection complete")
	return merged
}

// evaluateSymbol runs the catalogue over one series. A failing strategy is
// logged and skipped so its siblings still evaluate.
func (sa *SignalAggregator) evaluateSymbol(symbol string, s ohlcv.Series, ctx strategies.Context, enabled map[string]bool) []models.Signal {
	var out []models.Signal
	for _, st := range strategies.All() {
		if enabled != nil && !enabled[st.Name] {
			continue
		}
		sig, err := st.Evaluate(symbol, s, ctx)
		if err != nil {
			sa.logger.WithFields(logrus.Fields{
				"strategy": st.Name,
				"symbol":   symbol,
			}).WithError(err).Warn("Strategy evaluation failed")
			continue
		}
		if sig == nil {
			continue
		}
		if sa.scorer != nil {
			sa.scorer.Score(sig, s)
		}
		out = append(out, *sig)
	}
	return out
}

func (sa *SignalAggregator) enabledSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// mergeSignals merges the live and recent sets. De-duplication key is
// (symbol, strategy, bar time); a live signal always replaces a recent one
// with the same key.
func mergeSignals(live, recent []models.Signal) []models.Signal {
	seen := make(map[models.SignalKey]bool, len(live))
	merged := make([]models.Signal, 0, len(live)+len(recent))
	for _, sig := range live {
		if seen[sig.Key()] {
			continue
		}
		seen[sig.Key()] = true
		merged = append(merged, sig)
	}
	for _, sig := range recent {
		if seen[sig.Key()] {
			continue
		}
		seen[sig.Key()] = true
		merged = append(merged, sig)
	}
	return merged
}

// SurfaceTopPerSymbol reduces a merged set to at most one signal per
// symbol: the one from the earliest strategy in catalogue order, breaking
// ties toward the newer bar. Strategy names outside the catalogue all rank
// below it and tie among themselves, so the newer bar decides there too.
func SurfaceTopPerSymbol(signals []models.Signal) []models.Signal {
	rank := make(map[string]int)
	for i, name := range strategies.Names() {
		rank[name] = i
	}
	rankOf := func(name string) int {
		if r, ok := rank[name]; ok {
			return r
		}
		return len(rank)
	}

	best := make(map[string]models.Signal)
	order := make([]string, 0)
	for _, sig := range signals {
		cur, ok := best[sig.Symbol]
		if !ok {
			best[sig.Symbol] = sig
			order = append(order, sig.Symbol)
			continue
		}
		ri, rj := rankOf(sig.Strategy), rankOf(cur.Strategy)
		if ri < rj || (ri == rj && sig.BarTime.After(cur.BarTime)) {
			best[sig.Symbol] = sig
		}
	}

	out := make([]models.Signal, 0, len(best))
	for _, symbol := range order {
		out = append(out, best[symbol])
	}
	return out
}
