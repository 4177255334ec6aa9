package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/company-scheduler/internal/audit"
	"github.com/BruksfildServices01/company-scheduler/internal/cache"
	"github.com/BruksfildServices01/company-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/company-scheduler/internal/db"
	"github.com/BruksfildServices01/company-scheduler/internal/logger"
	"github.com/BruksfildServices01/company-scheduler/internal/metrics"
	"github.com/BruksfildServices01/company-scheduler/internal/routes"
	"github.com/BruksfildServices01/company-scheduler/internal/timezone"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a config file (yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	timezone.SetDefault(cfg.Booking.DefaultTimezone)
	metrics.Register()

	db, err := dbpkg.NewDB(cfg.Database, zl)
	if err != nil {
		zl.Fatal("failed to open database", zap.Error(err))
	}

	// Redis is optional: without it availability is not cached and rate
	// limits are per process.
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = cache.NewRedis(cfg.Redis, zl)
		if err != nil {
			zl.Warn("redis unavailable, continuing without it", zap.Error(err))
			rdb = nil
		}
	}

	auditDispatcher := audit.NewDispatcher(audit.New(db), zl)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	routes.RegisterRoutes(r, routes.Deps{
		DB:     db,
		Redis:  rdb,
		Config: cfg,
		Log:    zl,
		Audit:  auditDispatcher,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zl.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("server shutdown failed", zap.Error(err))
	}

	auditDispatcher.Close()

	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
