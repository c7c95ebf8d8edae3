// Package postgres implements the repository ports on PostgreSQL using
// pgx. Every mutation is a single parameterized statement; the WHERE clause
// carries both the ownership check and the lifecycle guard, so the store's
// per-statement atomicity is the only synchronization relied on.
package postgres

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const openRetries = 10

var (
	openBackoffBase  = 1 * time.Second
	openBackoffScale = 1.618
)

// Open initializes a connection pool with retry and verifies connectivity.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	var lastErr error
	for i := 0; i < openRetries; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := pool.Ping(pingCtx)
		cancel()
		if err == nil {
			logger.Info("connected to database",
				slog.String("host", cfg.ConnConfig.Host),
			)
			return pool, nil
		}
		lastErr = err

		backoff := time.Duration(float64(openBackoffBase) * math.Pow(openBackoffScale, float64(i)))
		logger.Warn("database not reachable, retrying",
			slog.String("error", err.Error()),
			slog.Duration("backoff", backoff),
		)
		select {
		case <-ctx.Done():
			pool.Close()
			return nil, fmt.Errorf("connect to database: %w", ctx.Err())
		case <-time.After(backoff):
		}
	}

	pool.Close()
	return nil, fmt.Errorf("connect to database after %d retries: %w", openRetries, lastErr)
}

// Migrate runs the embedded goose migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer func() { _ = db.Close() }()

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
