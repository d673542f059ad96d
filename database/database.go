package database

import (
	"context"
	"fmt"

	"github.com/grabbiel/grabbieldb"
	"github.com/grabbiel/grabbieldb/database/postgres"
	"github.com/grabbiel/grabbieldb/database/sqlite"
)

// Supported backend types.
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Config holds the configuration for connecting to a content database.
type Config struct {
	// Type specifies the database type: "sqlite" or "postgres"
	Type string `mapstructure:"type" validate:"required,oneof=sqlite postgres"`
	// DSN is the data source name (connection string)
	DSN string `mapstructure:"dsn" validate:"required"`
	// Tables names the media tables
	Tables grabbieldb.Tables `mapstructure:"tables"`
}

// Database is a connected backend.
type Database interface {
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Validate(ctx context.Context) error
	MediaRepo() grabbieldb.MediaRepo
	SchemaRepo() grabbieldb.SchemaRepo
	Close() error
}

// Connect routes to the configured backend. No migration or validation
// happens here; see Open.
func Connect(ctx context.Context, cfg Config) (Database, error) {
	if err := cfg.Tables.Validate(); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	switch cfg.Type {
	case TypeSQLite:
		db, err := sqlite.Connect(ctx, cfg.DSN, cfg.Tables)
		if err != nil {
			return nil, err
		}
		return db, nil
	case TypePostgres:
		db, err := postgres.Connect(ctx, cfg.DSN, cfg.Tables)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %q", cfg.Type)
	}
}

// Open connects, pings, optionally migrates and then validates the media
// tables. The database is closed on any failure.
func Open(ctx context.Context, cfg Config, migrate bool) (Database, error) {
	db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Type, err)
	}

	if migrate {
		if err = db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate %s: %w", cfg.Type, err)
		}
	}

	if err = db.Validate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("validate %s schema: %w", cfg.Type, err)
	}

	return db, nil
}
