package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/quantbay/signal-engine/internal/backtest"
	"github.com/quantbay/signal-engine/internal/config"
	"github.com/quantbay/signal-engine/internal/ohlcv"
	"github.com/quantbay/signal-engine/internal/services"
)

// SeriesFetcher supplies normalized candle history for one symbol. The
// exchange client implements it; tests substitute a stub.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, symbol, timeframe string, limit int) (ohlcv.Series, error)
}

// Handler carries the engine dependencies the endpoints need.
type Handler struct {
	cfg        *config.Config
	fetcher    SeriesFetcher
	aggregator *services.SignalAggregator
	harness    *backtest.Harness
	logger     *logrus.Logger
}

func NewHandler(cfg *config.Config, fetcher SeriesFetcher, aggregator *services.SignalAggregator, harness *backtest.Harness, logger *logrus.Logger) *Handler {
	return &Handler{
		cfg:        cfg,
		fetcher:    fetcher,
		aggregator: aggregator,
		harness:    harness,
		logger:     logger,
	}
}

// GetSignals evaluates the catalogue against the requested symbols and
// returns the merged signal set. Symbols whose data cannot be fetched or
// fails schema validation are skipped and reported in the response; the
// endpoint only fails outright when no symbol could be evaluated.
func (h *Handler) GetSignals(c *gin.Context) {
	symbols := h.cfg.Engine.Symbols
	if raw := c.Query("symbols"); raw != "" {
		symbols = splitList(raw)
	}
	timeframe := c.DefaultQuery("timeframe", h.cfg.Engine.Timeframe)
	if !validTimeframe(timeframe) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported timeframe, want 4h, 1d or 1w"})
		return
	}
	var names []string
	if raw := c.Query("strategies"); raw != "" {
		names = splitList(raw)
	}

	symbolSeries := make(map[string]ohlcv.Series, len(symbols))
	skipped := make(map[string]string)
	schemaFailure := false
	for _, symbol := range symbols {
		s, err := h.fetcher.FetchSeries(c.Request.Context(), symbol, timeframe, h.cfg.Engine.KlineLimit)
		if err != nil {
			h.logger.WithFields(logrus.Fields{
				"symbol":    symbol,
				"timeframe": timeframe,
			}).WithError(err).Warn("Failed to fetch symbol series")
			skipped[symbol] = err.Error()
			var schemaErr *ohlcv.SchemaError
			if errors.As(err, &schemaErr) {
				schemaFailure = true
			}
			continue
		}
		symbolSeries[symbol] = s
	}
	if len(symbolSeries) == 0 {
		status := http.StatusBadGateway
		if schemaFailure {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": "no symbol could be evaluated", "skipped": skipped})
		return
	}

	signals := h.aggregator.Collect(symbolSeries, timeframe, names)
	resp := gin.H{
		"signals":   signals,
		"count":     len(signals),
		"timeframe": timeframe,
		"relax":     h.aggregator.Relax(),
	}
	if c.Query("top") == "true" {
		top := services.SurfaceTopPerSymbol(signals)
		resp["signals"] = top
		resp["count"] = len(top)
	}
	if len(skipped) > 0 {
		resp["skipped"] = skipped
	}
	c.JSON(http.StatusOK, resp)
}

type backtestRequest struct {
	Symbol     string   `json:"symbol" binding:"required"`
	Timeframe  string   `json:"timeframe"`
	Strategies []string `json:"strategies"`
	Limit      int      `json:"limit"`
}

// RunBacktest replays the selected strategies over fetched history.
func (h *Handler) RunBacktest(c *gin.Context) {
	var req backtestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Timeframe == "" {
		req.Timeframe = h.cfg.Engine.Timeframe
	}
	if !validTimeframe(req.Timeframe) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported timeframe, want 4h, 1d or 1w"})
		return
	}
	if req.Limit <= 0 {
		req.Limit = h.cfg.Engine.KlineLimit
	}

	s, err := h.fetcher.FetchSeries(c.Request.Context(), req.Symbol, req.Timeframe, req.Limit)
	if err != nil {
		h.respondFetchError(c, req.Symbol, err)
		return
	}

	result, err := h.harness.Run(req.Symbol, s, backtest.Config{
		Strategies: req.Strategies,
		Timeframe:  req.Timeframe,
		Relax:      h.aggregator.Relax(),
		Warmup:     h.cfg.Engine.WarmupBars,
	})
	if err != nil {
		var schemaErr *ohlcv.SchemaError
		switch {
		case errors.As(err, &schemaErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, backtest.ErrUnknownStrategy):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

type relaxRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// SetRelax toggles relaxed strategy thresholds for subsequent evaluations.
func (h *Handler) SetRelax(c *gin.Context) {
	var req relaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	h.aggregator.SetRelax(*req.Enabled)
	h.logger.WithField("relax", *req.Enabled).Info("Relax mode updated")
	c.JSON(http.StatusOK, gin.H{"relax": *req.Enabled})
}

func (h *Handler) GetRelax(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"relax": h.aggregator.Relax()})
}

func (h *Handler) respondFetchError(c *gin.Context, symbol string, err error) {
	var schemaErr *ohlcv.SchemaError
	if errors.As(err, &schemaErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "symbol": symbol})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "symbol": symbol})
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func validTimeframe(tf string) bool {
	switch tf {
	case "4h", "1d", "1w":
		return true
	}
	return false
}
