package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/ukuvago/themeboard/internal/config"
	"github.com/ukuvago/themeboard/internal/database"
	"github.com/ukuvago/themeboard/internal/logger"
	"github.com/ukuvago/themeboard/internal/metrics"
	"github.com/ukuvago/themeboard/internal/routes"
	"github.com/ukuvago/themeboard/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Configure(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.Info().Str("database_type", cfg.DatabaseType).Msg("Starting application")
	gin.SetMode(cfg.GinMode)

	// Initialize database
	db, err := database.Initialize(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize database")
	}

	m := metrics.New(prometheus.NewRegistry())
	notifier := services.NewAsyncNotifier(services.NewEmailService(cfg), 30*time.Second)
	svc := routes.NewServices(cfg, db, notifier, m)

	// Seed admin user
	if err := svc.Auth.EnsureAdmin(context.Background()); err != nil {
		logger.Warn().Err(err).Msg("failed to seed admin user")
	} else {
		logger.Info().Str("email", cfg.AdminEmail).Msg("Admin user ready")
	}

	if cfg.SeedDemo {
		if err := database.SeedDemo(db); err != nil {
			logger.Warn().Err(err).Msg("seed data error")
		}
	}

	router := routes.SetupRouter(cfg, db, svc, m)

	srv := &http.Server{
		Addr:              cfg.ServerHost + ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Fatal().Err(err).Msg("Failed to start server")
	case sig := <-osSignals:
		logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info().Msg("Server stopped")
}
