package postgres

import (
	"context"
	"fmt"

	"github.com/grabbiel/grabbieldb"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TableMigration struct {
	TableName string
	Up        func(ctx context.Context, pool *pgxpool.Pool) error
	Down      func(ctx context.Context, pool *pgxpool.Pool) error
}

func getTableMigrations(tables grabbieldb.Tables) []TableMigration {
	return []TableMigration{
		{
			TableName: tables.Images,
			Up:        createImagesTable(tables.Images),
			Down:      dropTable(tables.Images),
		},
		{
			TableName: tables.Videos,
			Up:        createVideosTable(tables.Videos),
			Down:      dropTable(tables.Videos),
		},
	}
}

func Migrate(ctx context.Context, pool *pgxpool.Pool, tables grabbieldb.Tables) error {
	for _, migration := range getTableMigrations(tables) {
		if err := migration.Up(ctx, pool); err != nil {
			return fmt.Errorf("migrate up %s: %w", migration.TableName, err)
		}
	}

	return nil
}

func DropTables(ctx context.Context, pool *pgxpool.Pool, tables grabbieldb.Tables) error {
	migrations := getTableMigrations(tables)

	for i := len(migrations) - 1; i >= 0; i-- {
		migration := migrations[i]
		if err := migration.Down(ctx, pool); err != nil {
			return fmt.Errorf("migrate down %s: %w", migration.TableName, err)
		}
	}

	return nil
}

func createImagesTable(tableName string) func(context.Context, *pgxpool.Pool) error {
	return func(ctx context.Context, pool *pgxpool.Pool) error {
		quotedTable := pgx.Identifier{tableName}.Sanitize()
		indexContent := pgx.Identifier{fmt.Sprintf("idx_%s_content_id", tableName)}.Sanitize()

		sql := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				original_url TEXT NOT NULL,
				filename TEXT NOT NULL,
				mime_type TEXT NOT NULL,
				size BIGINT NOT NULL DEFAULT 0,
				width INTEGER NOT NULL DEFAULT 0,
				height INTEGER NOT NULL DEFAULT 0,
				content_id BIGINT NOT NULL DEFAULT 0,
				image_type TEXT NOT NULL DEFAULT 'content',
				processing_status TEXT NOT NULL DEFAULT 'pending'
			);

			CREATE INDEX IF NOT EXISTS %s ON %s (content_id);
		`, quotedTable, indexContent, quotedTable)

		if _, err := pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("create images table: %w", err)
		}
		return nil
	}
}

func createVideosTable(tableName string) func(context.Context, *pgxpool.Pool) error {
	return func(ctx context.Context, pool *pgxpool.Pool) error {
		quotedTable := pgx.Identifier{tableName}.Sanitize()
		indexContent := pgx.Identifier{fmt.Sprintf("idx_%s_content_id", tableName)}.Sanitize()

		sql := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				title TEXT NOT NULL,
				gcs_path TEXT NOT NULL,
				mime_type TEXT NOT NULL,
				size_bytes BIGINT NOT NULL DEFAULT 0,
				duration_seconds INTEGER NOT NULL DEFAULT 0,
				content_id BIGINT NOT NULL DEFAULT 0,
				processing_status TEXT NOT NULL DEFAULT 'pending'
			);

			CREATE INDEX IF NOT EXISTS %s ON %s (content_id);
		`, quotedTable, indexContent, quotedTable)

		if _, err := pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("create videos table: %w", err)
		}
		return nil
	}
}

func dropTable(tableName string) func(context.Context, *pgxpool.Pool) error {
	return func(ctx context.Context, pool *pgxpool.Pool) error {
		quotedTable := pgx.Identifier{tableName}.Sanitize()
		_, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", quotedTable))
		return err
	}
}
