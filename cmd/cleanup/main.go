// Command cleanup deletes sessions that expired longer ago than the configured
// retention window. The request path never deletes sessions.
package main

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"user-session-api/internal/config"
	"user-session-api/internal/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cannot load configuration: " + err.Error())
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic("cannot initialize logger: " + err.Error())
	}
	defer logger.Sync()

	if cfg.Session.Store == config.SessionStoreRedis {
		logger.Info("sessions are stored in redis; expired keys are evicted by TTL, nothing to do")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dbpool, err := pgxpool.New(ctx, cfg.DB.Source)
	if err != nil {
		logger.Fatal("cannot connect to database", zap.Error(err))
	}
	defer dbpool.Close()

	store := database.NewStore(dbpool)
	cutoff := time.Now().UTC().Add(-cfg.Session.Retention)

	var deleted int64
	err = store.ExecTx(ctx, func(q *database.Queries) error {
		n, err := q.DeleteExpiredSessions(ctx, cutoff)
		deleted = n
		return err
	})
	if err != nil {
		logger.Fatal("cannot delete expired sessions", zap.Error(err))
	}

	logger.Info("expired sessions deleted",
		zap.Int64("deleted", deleted),
		zap.Time("expired_before", cutoff),
	)
}
