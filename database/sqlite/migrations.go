package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/grabbiel/grabbieldb"
)

// quoteIdentifier safely quotes a SQLite identifier
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

type TableMigration struct {
	TableName string
	Up        func(ctx context.Context, db *sql.DB) error
	Down      func(ctx context.Context, db *sql.DB) error
}

// getTableMigrations returns all table migrations for the app
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

func Migrate(ctx context.Context, db *sql.DB, tables grabbieldb.Tables) error {
	for _, migration := range getTableMigrations(tables) {
		if err := migration.Up(ctx, db); err != nil {
			return fmt.Errorf("migrate up %s: %w", migration.TableName, err)
		}
	}

	return nil
}

func DropTables(ctx context.Context, db *sql.DB, tables grabbieldb.Tables) error {
	migrations := getTableMigrations(tables)

	for i := len(migrations) - 1; i >= 0; i-- {
		migration := migrations[i]
		if err := migration.Down(ctx, db); err != nil {
			return fmt.Errorf("migrate down %s: %w", migration.TableName, err)
		}
	}

	return nil
}

func createImagesTable(tableName string) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		quotedTable := quoteIdentifier(tableName)
		indexContent := quoteIdentifier(fmt.Sprintf("idx_%s_content_id", tableName))

		createTableSQL := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				original_url TEXT NOT NULL,
				filename TEXT NOT NULL,
				mime_type TEXT NOT NULL,
				size INTEGER NOT NULL DEFAULT 0,
				width INTEGER NOT NULL DEFAULT 0,
				height INTEGER NOT NULL DEFAULT 0,
				content_id INTEGER NOT NULL DEFAULT 0,
				image_type TEXT NOT NULL DEFAULT 'content',
				processing_status TEXT NOT NULL DEFAULT 'pending'
			)
		`, quotedTable)

		if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
			return fmt.Errorf("create table: %w", err)
		}

		indexSQL := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (content_id)`, indexContent, quotedTable)
		if _, err := db.ExecContext(ctx, indexSQL); err != nil {
			return fmt.Errorf("create index content_id: %w", err)
		}

		return nil
	}
}

func createVideosTable(tableName string) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		quotedTable := quoteIdentifier(tableName)
		indexContent := quoteIdentifier(fmt.Sprintf("idx_%s_content_id", tableName))

		createTableSQL := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				title TEXT NOT NULL,
				gcs_path TEXT NOT NULL,
				mime_type TEXT NOT NULL,
				size_bytes INTEGER NOT NULL DEFAULT 0,
				duration_seconds INTEGER NOT NULL DEFAULT 0,
				content_id INTEGER NOT NULL DEFAULT 0,
				processing_status TEXT NOT NULL DEFAULT 'pending'
			)
		`, quotedTable)

		if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
			return fmt.Errorf("create table: %w", err)
		}

		indexSQL := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (content_id)`, indexContent, quotedTable)
		if _, err := db.ExecContext(ctx, indexSQL); err != nil {
			return fmt.Errorf("create index content_id: %w", err)
		}

		return nil
	}
}

func dropTable(tableName string) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		quotedTable := quoteIdentifier(tableName)
		dropSQL := fmt.Sprintf("DROP TABLE IF EXISTS %s", quotedTable)

		_, err := db.ExecContext(ctx, dropSQL)
		return err
	}
}
