package driver

import (
	"context"
	"fmt"
	"time"

	"briefcard/config"
	"briefcard/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Init creates the Postgres connection pool used by the repositories.
func Init(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Logger.Error("Failed to parse database config", "error", err)
		return nil, err
	}

	poolConfig.MaxConns = 20
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	dbPool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Logger.Error("Failed to connect to database", "error", err)
		return nil, err
	}

	if err := dbPool.Ping(ctx); err != nil {
		logger.Logger.Error("Failed to ping database", "error", err)
		dbPool.Close()

		return nil, err
	}

	logger.Logger.Info("Connected to database pool",
		"max_conns", poolConfig.MaxConns,
		"min_conns", poolConfig.MinConns)

	return dbPool, nil
}
