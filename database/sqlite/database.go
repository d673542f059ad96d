// Package sqlite implements the media and schema repositories using SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/grabbiel/grabbieldb"

	_ "modernc.org/sqlite" // SQLite driver
)

// database provides SQLite database operations.
type database struct {
	db     *sql.DB
	tables grabbieldb.Tables
}

// Connect opens the SQLite database at dsn.
// Tables should be validated before calling Connect.
func Connect(ctx context.Context, dsn string, tables grabbieldb.Tables) (*database, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	// every connection to :memory: is a separate database
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	return &database{
		db:     db,
		tables: tables,
	}, nil
}

// Ping verifies the database connection is alive.
func (d *database) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Migrate runs database migrations to create required tables.
func (d *database) Migrate(ctx context.Context) error {
	if err := Migrate(ctx, d.db, d.tables); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Validate checks that the media tables have the expected columns.
func (d *database) Validate(ctx context.Context) error {
	return ValidateSchema(ctx, d.db, d.tables)
}

// MediaRepo returns the repository for the images and videos tables.
func (d *database) MediaRepo() grabbieldb.MediaRepo {
	return &mediaRepo{db: d.db, images: quoteIdentifier(d.tables.Images), videos: quoteIdentifier(d.tables.Videos)}
}

// SchemaRepo returns the repository for generic table browsing.
func (d *database) SchemaRepo() grabbieldb.SchemaRepo {
	return &schemaRepo{db: d.db}
}

// Close closes the database connection.
func (d *database) Close() error {
	return d.db.Close()
}
