package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookhub/database"
	"bookhub/internal/cache"
	"bookhub/internal/config"
	"bookhub/internal/logger"
	"bookhub/internal/microservices/http-api/handler"
	"bookhub/internal/microservices/http-api/router"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logg := logger.New(cfg.LogLevel, cfg.LogFormat)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.ConnectDB(cfg, logg)
	if err != nil {
		logg.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	deps := router.Deps{DB: db, Config: cfg, Log: logg}
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			// sessions still validate against the database
			logg.Warn("redis unavailable, session cache disabled", "error", err)
		} else {
			defer rdb.Close()
			deps.Sessions = cache.NewSessionCache(rdb)
			deps.Checks = map[string]handler.Pinger{"cache": handler.PingFunc(func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			})}
		}
	}

	r, err := router.New(deps)
	if err != nil {
		logg.Error("could not build router", "error", err)
		os.Exit(1)
	}
	go r.SweepLimiter(ctx, time.Minute)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r.Engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logg.Info("HTTP server listening", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error("HTTP server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
