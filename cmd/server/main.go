package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"houseprice/internal/config"
	"houseprice/internal/handler"
	"houseprice/internal/logger"
	"houseprice/internal/repository"
	"houseprice/internal/service"
	"houseprice/internal/ui"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog, err := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLog.Sync()

	appLog.Info("house price prediction client starting", map[string]interface{}{
		"version":   Version,
		"buildTime": BuildTime,
		"gitCommit": GitCommit,
	})

	if err := run(cfg, appLog); err != nil {
		appLog.Error("server exited with error", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run(cfg *config.Config, appLog logger.Logger) error {
	gin.SetMode(cfg.Server.GinMode)

	// History is optional; the client works without a database
	var history service.HistoryStore
	if cfg.History.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		repo, err := repository.NewPostgresRepository(ctx, cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections, cfg.PostgreSQL.MaxIdleConnections)
		cancel()
		if err != nil {
			return fmt.Errorf("history store: %w", err)
		}
		defer repo.Close()
		history = repo
		appLog.Info("prediction history enabled", nil)
	} else {
		appLog.Info("prediction history disabled; set DATABASE_URL to enable it", nil)
	}

	client := service.NewPredictorClient(&cfg.Predictor)
	predictionService := service.NewPredictionService(client, history, appLog)
	appLog.Info("prediction service configured", map[string]interface{}{
		"baseUrl": client.BaseURL(),
		"timeout": cfg.Predictor.Timeout.String(),
	})

	predictHandler := handler.NewPredictHandler(predictionService, ui.Options{
		StatusHideDelay:      cfg.Predictor.StatusHideDelay,
		ResultDisplayTimeout: cfg.Predictor.ResultDisplayTimeout,
	}, appLog)
	historyHandler := handler.NewHistoryHandler(predictionService, cfg.History.RecentLimit, cfg.History.SimilarLimit)

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(appLog))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"service":    "house-price-client",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Form page
	router.GET("/", predictHandler.Page)
	router.POST("/", predictHandler.Submit)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/status", predictHandler.Status)
		apiV1.POST("/predict", predictHandler.Predict)

		apiV1.GET("/history", historyHandler.Recent)
		apiV1.POST("/history/similar", historyHandler.Similar)
	}

	if err := setupStaticFiles(router); err != nil {
		return fmt.Errorf("static files: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting server", map[string]interface{}{"addr": addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case sig := <-quit:
		appLog.Info("shutting down server", map[string]interface{}{"signal": sig.String()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	appLog.Info("server stopped", nil)
	return nil
}

// requestLogger logs one line per request through the structured logger
func requestLogger(l logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Info("request", map[string]interface{}{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latencyMs": time.Since(start).Milliseconds(),
			"clientIp":  c.ClientIP(),
		})
	}
}
