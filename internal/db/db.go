// Package db provides PostgreSQL-backed stores for search history and
// favorites, plus in-memory stores used when no database is configured. All
// repositories accept a DBTX interface that is satisfied by both
// *pgxpool.Pool and pgx.Tx.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"vibefinder/internal/config"
	"vibefinder/internal/types"
)

// DBTX is the minimal interface shared by *pgxpool.Pool and pgx.Tx.
// Repositories accept this so the same code works inside or outside a
// transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Schema creates the tables the repositories rely on. Every statement is
// idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS search_history (
	id         TEXT PRIMARY KEY,
	location   TEXT NOT NULL,
	vibe       TEXT NOT NULL,
	budget     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS search_history_created_at_idx ON search_history (created_at DESC);

CREATE TABLE IF NOT EXISTS favorites (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	location   TEXT NOT NULL DEFAULT '',
	score      INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL
);`

// EnsureSchema applies Schema.
func EnsureSchema(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to apply schema", err)
	}
	return nil
}

// NewPool opens a connection pool tuned from cfg and verifies connectivity.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL.Unmask())
	if err != nil {
		// The parse error may echo the connection string.
		return nil, errors.New("invalid DATABASE_URL")
	}

	poolCfg.MaxConns = int32(cfg.MaxConns)
	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.AcquireTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthProbe reports database reachability to the /health endpoint.
type HealthProbe struct {
	db Pinger
}

// NewHealthProbe creates a HealthProbe for the given pool.
func NewHealthProbe(db Pinger) *HealthProbe {
	return &HealthProbe{db: db}
}

func (p *HealthProbe) Name() string { return "database" }

func (p *HealthProbe) Check(ctx context.Context) error {
	return p.db.Ping(ctx)
}
