// Package db contains general logic for interacting with shelfstack's
// Postgres datastore with pgx (https://github.com/jackc/pgx).
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Mode selects the pool sizing policy for a deployment shape.
type Mode int

const (
	// ModePersistent sizes the pool for a long-lived server process: many
	// connections, generous connect ceiling.
	ModePersistent Mode = iota

	// ModeOnDemand sizes the pool for a per-request invocation environment
	// such as AWS Lambda: a single connection and a short connect ceiling,
	// since the invoking scheduler has a hard deadline of its own.
	ModeOnDemand
)

const idleTimeout = 2 * time.Minute

// Config describes a Postgres connection profile.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSL      bool
	Mode     Mode
}

// DSN renders the Config as a keyword/value connection string.
func (c Config) DSN() string {
	sslmode := "disable"
	if c.SSL {
		sslmode = "require"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, sslmode,
	)
}

func (c Config) poolSettings() (maxConns int32, connectTimeout time.Duration) {
	if c.Mode == ModeOnDemand {
		return 1, 5 * time.Second
	}
	return 10, 30 * time.Second
}

// Open builds a connection pool for the passed Config. The pool connects
// lazily; call Ping to establish and verify a connection before serving
// traffic.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (*DB, error) {
	poolcfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	maxConns, connectTimeout := cfg.poolSettings()
	poolcfg.MaxConns = maxConns
	poolcfg.MaxConnIdleTime = idleTimeout
	poolcfg.ConnConfig.ConnectTimeout = connectTimeout
	poolcfg.ConnConfig.Tracer = newQueryTracer(logger)

	pool, err := pgxpool.NewWithConfig(ctx, poolcfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	return &DB{logger: logger, pool: pool}, nil
}

// DB owns a pool of Postgres connections. It is the only resource shared
// across requests; concurrent operations acquire distinct connections up to
// the configured maximum and queue beyond it.
type DB struct {
	logger *zap.Logger
	pool   *pgxpool.Pool
}

// Ping establishes and verifies a connection. Callers await this explicitly
// at startup; there is no background warm-up.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping pool: %w", err)
	}
	return nil
}

// Query executes the passed SQL with positionally bound params.
func (d *DB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return d.pool.Query(ctx, sql, args...)
}

// QueryRow executes the passed SQL with positionally bound params, expecting
// at most one row.
func (d *DB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return d.pool.QueryRow(ctx, sql, args...)
}

// Exec executes the passed SQL with positionally bound params, discarding any
// rows.
func (d *DB) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return d.pool.Exec(ctx, sql, args...)
}

// Begin starts a transaction on a dedicated connection.
func (d *DB) Begin(ctx context.Context) (pgx.Tx, error) {
	return d.pool.Begin(ctx)
}

// Close drains the pool, waiting for acquired connections to be released.
func (d *DB) Close() {
	d.pool.Close()
}
