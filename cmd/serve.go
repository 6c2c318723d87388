package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hr_records/config"
	"hr_records/handlers"
	"hr_records/services"
	"hr_records/store"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()
		defer store.Close(db)

		if err := store.Migrate(db); err != nil {
			return err
		}
		if seedOnStart {
			if err := store.Seed(cmd.Context(), db, time.Now().UTC()); err != nil {
				return err
			}
		}

		rdb, limiter := loginLimiter(cmd.Context(), cfg, logger)
		if rdb != nil {
			defer rdb.Close()
		}

		svc := services.New(db, services.Options{
			Logger:  logger,
			Tokens:  services.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
			Limiter: limiter,
		})
		app := handlers.NewApp(handlers.New(svc), handlers.AppOptions{
			Logger:      logger,
			CORSOrigins: cfg.Server.CORSOrigins,
		})

		errCh := make(chan error, 1)
		go func() {
			logger.Info("HTTP server started", zap.String("addr", cfg.Addr()))
			errCh <- app.Listen(cfg.Addr())
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return err
		case sig := <-quit:
			logger.Info("Shutting down", zap.String("signal", sig.String()))
		}

		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("Server shutdown failed", zap.Error(err))
		}
		logger.Info("Server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&seedOnStart, "seed", false, "seed demo data when the database is empty")
}

// loginLimiter connects to Redis when configured. Without Redis, or when it is
// unreachable, login attempts are not limited.
func loginLimiter(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*redis.Client, services.LoginLimiter) {
	if cfg.Redis.Addr == "" || cfg.Login.MaxAttempts == 0 {
		logger.Info("Login attempt limiting disabled")
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unavailable, login attempt limiting disabled", zap.Error(err))
		rdb.Close()
		return nil, nil
	}
	return rdb, services.NewRedisLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.Window)
}
