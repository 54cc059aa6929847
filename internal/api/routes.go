// Package api wires the engine's HTTP surface: signal retrieval, backtest
// runs, and the relax-mode control endpoint.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quantbay/signal-engine/internal/strategies"
)

var startTime = time.Now()

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
}

// SetupRoutes registers all endpoints on the router.
func SetupRoutes(router *gin.Engine, h *Handler) {
	router.GET("/health", healthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/signals", h.GetSignals)
		v1.GET("/strategies", listStrategies)

		v1.POST("/backtest", h.RunBacktest)

		engine := v1.Group("/engine")
		{
			engine.GET("/relax", h.GetRelax)
			engine.POST("/relax", h.SetRelax)
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
		Uptime:    time.Since(startTime).Round(time.Second).String(),
	})
}

func listStrategies(c *gin.Context) {
	type entry struct {
		Name       string `json:"name"`
		MinBars    int    `json:"min_bars"`
		Confidence int    `json:"confidence"`
		Label      string `json:"label"`
	}
	catalogue := strategies.All()
	out := make([]entry, len(catalogue))
	for i, st := range catalogue {
		out[i] = entry{Name: st.Name, MinBars: st.MinBars, Confidence: st.Confidence, Label: st.Label}
	}
	c.JSON(http.StatusOK, gin.H{"strategies": out, "count": len(out)})
}
