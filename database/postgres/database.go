// Package postgres implements the media and schema repositories using
// PostgreSQL through a pgx connection pool.
package postgres

import (
	"context"
	"fmt"

	"github.com/grabbiel/grabbieldb"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type database struct {
	pool   *pgxpool.Pool
	tables grabbieldb.Tables
}

// Connect establishes a connection to PostgreSQL.
// Tables should be validated before calling Connect.
func Connect(ctx context.Context, dsn string, tables grabbieldb.Tables) (*database, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return &database{
		pool:   pool,
		tables: tables,
	}, nil
}

// Ping verifies the database connection is alive.
func (d *database) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

// Migrate runs database migrations to create required tables.
func (d *database) Migrate(ctx context.Context) error {
	if err := Migrate(ctx, d.pool, d.tables); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Validate checks that the media tables have the expected columns.
func (d *database) Validate(ctx context.Context) error {
	return ValidateSchema(ctx, d.pool, d.tables)
}

// MediaRepo returns the repository for the images and videos tables.
func (d *database) MediaRepo() grabbieldb.MediaRepo {
	return &mediaRepo{
		pool:   d.pool,
		images: pgx.Identifier{d.tables.Images}.Sanitize(),
		videos: pgx.Identifier{d.tables.Videos}.Sanitize(),
	}
}

// SchemaRepo returns the repository for generic table browsing.
func (d *database) SchemaRepo() grabbieldb.SchemaRepo {
	return &schemaRepo{pool: d.pool}
}

// Close closes the database connection pool.
func (d *database) Close() error {
	d.pool.Close()
	return nil
}
