// @title           User Session API
// @version         1.0
// @host            localhost
// @schemes         http https
// @BasePath        /api/v1
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name session_id
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "user-session-api/docs"
	"user-session-api/internal/api"
	"user-session-api/internal/config"
	"user-session-api/internal/database"
	"user-session-api/internal/session"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Log.Development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cannot load configuration: " + err.Error())
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic("cannot initialize logger: " + err.Error())
	}
	defer logger.Sync()

	dbpool, err := pgxpool.New(context.Background(), cfg.DB.Source)
	if err != nil {
		logger.Fatal("cannot connect to database", zap.Error(err))
	}
	defer dbpool.Close()

	if err := dbpool.Ping(context.Background()); err != nil {
		logger.Fatal("cannot ping database", zap.Error(err))
	}
	logger.Info("connected to database")

	store := database.NewStore(dbpool)
	checks := []api.HealthCheck{{Name: "postgres", Ping: store.Ping}}

	var sessionStore session.Store = store
	if cfg.Session.Store == config.SessionStoreRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		if err := client.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("cannot ping redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr))
		}

		sessionStore = session.NewRedisStore(client, cfg.Session.Retention)
		checks = append(checks, api.HealthCheck{
			Name: "redis",
			Ping: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		})
		logger.Info("sessions stored in redis", zap.String("addr", cfg.Redis.Addr))
	}

	sessions, err := session.NewManager(sessionStore, logger,
		session.WithPolicy(session.Policy{
			Lifetime:   cfg.Session.Lifetime,
			RenewAfter: cfg.Session.RenewAfter,
		}),
		session.WithCookieOptions(session.CookieOptions{Secure: cfg.Session.CookieSecure}),
	)
	if err != nil {
		logger.Fatal("cannot create session manager", zap.Error(err))
	}

	server := api.NewServer(cfg, store, sessions, logger, checks...)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("cannot start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
