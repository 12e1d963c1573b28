package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/vikasavnish/carecoord/internal/api"
	"github.com/vikasavnish/carecoord/internal/config"
	"github.com/vikasavnish/carecoord/internal/db"
	"github.com/vikasavnish/carecoord/internal/logging"
	"github.com/vikasavnish/carecoord/internal/services"
	"github.com/vikasavnish/carecoord/internal/tasks"
	"github.com/vikasavnish/carecoord/internal/websocket"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.SetupWithLevel(logging.ParseLevel(cfg.Log.Level))
	if envErr != nil {
		logger.Info("No .env file found, using environment variables")
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	database, err := db.Connect(cfg.Database)
	if err != nil {
		return err
	}

	// Redis only caches the dashboard; run without it when unreachable
	var redisClient *redis.Client
	if client, err := db.ConnectRedis(cfg.Redis); err != nil {
		logger.Warn("Failed to connect to Redis, dashboard cache disabled", "error", err)
	} else {
		redisClient = client
		defer redisClient.Close()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize WebSocket hub
	wsHub := websocket.NewHub(logger)

	// One report service feeds both the dashboard handler and the refresh task
	reports := services.NewReportService(database, redisClient, cfg.Redis.SummaryTTL)

	// Initialize scheduled tasks
	taskManager := tasks.NewManager(logger)
	taskManager.RegisterTask(tasks.NewReportRefreshTask(reports, wsHub, cfg.Tasks.ReportInterval, logger))

	// Initialize router
	router := api.SetupRouter(api.Deps{
		DB:       database,
		Redis:    redisClient,
		Hub:      wsHub,
		Registry: registry,
		Reports:  reports,
		Logger:   logger,
	}, cfg)

	// Set up CORS
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           corsMiddleware.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return wsHub.Run(gctx) })
	g.Go(func() error { return taskManager.Run(gctx) })
	g.Go(func() error {
		logger.Info("Server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
