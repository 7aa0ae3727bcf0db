package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate brings the DB schema up to date with the embedded migrations
// files.
func Migrate(d *DB, options ...MigrateOption) error {
	cfg := &postgres.Config{
		MigrationsTable: "migrations",
	}
	for _, option := range options {
		option(cfg)
	}

	driver, err := postgres.WithInstance(stdlib.OpenDBFromPool(d.pool), cfg)
	if err != nil {
		return fmt.Errorf("open migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}

	migration, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("prepare migration: %w", err)
	}

	if err := migration.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migration: %w", err)
	}

	return nil
}

type MigrateOption func(*postgres.Config)

func WithMigrationsTable(name string) MigrateOption {
	return func(c *postgres.Config) {
		c.MigrationsTable = name
	}
}
