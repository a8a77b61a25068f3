package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"subpay/config"
	"subpay/internal/database"
	"subpay/internal/router"
	"subpay/pkg/proofstore"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	var logger *zap.Logger
	var err error
	if cfg.Server.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	if err := database.SeedAdmin(db, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		logger.Fatal("admin seeding failed", zap.Error(err))
	}

	proofs, err := proofstore.NewClient(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	if err != nil {
		logger.Fatal("proof storage init failed", zap.Error(err))
	}

	engine, services := router.Setup(cfg, db, proofs, logger)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	go runSweeper(sweepCtx, services, cfg.Sweep.Interval, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")
	stopSweeper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}

// runSweeper periodically expires overdue pending payments and lapsed
// subscriptions.
func runSweeper(ctx context.Context, services *router.Services, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := services.Payments.SweepExpired(ctx); err != nil {
				logger.Error("payment sweep failed", zap.Error(err))
			} else if n > 0 {
				logger.Info("expired overdue payments", zap.Int("count", n))
			}
			if _, err := services.Subscriptions.SweepExpired(""); err != nil {
				logger.Error("subscription sweep failed", zap.Error(err))
			}
		}
	}
}
