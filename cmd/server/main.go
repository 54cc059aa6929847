package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/quantbay/signal-engine/internal/api"
	"github.com/quantbay/signal-engine/internal/backtest"
	"github.com/quantbay/signal-engine/internal/config"
	"github.com/quantbay/signal-engine/internal/exchange"
	"github.com/quantbay/signal-engine/internal/logging"
	"github.com/quantbay/signal-engine/internal/services"
)

func main() {
	// Optional .env for local development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.Environment)

	client := exchange.NewClient(&cfg.Exchange, logger)

	var scorer *services.QualityScorer
	if cfg.Engine.ScoreQuality {
		scorer = services.NewQualityScorer(logger)
	}
	aggregator := services.NewSignalAggregator(logger, scorer)
	aggregator.SetRelax(cfg.Engine.Relax)

	harness := backtest.New(logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	api.SetupRoutes(router, api.NewHandler(cfg, client, aggregator, harness, logger))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
