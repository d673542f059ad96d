package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/grabbiel/grabbieldb"
	"github.com/jackc/pgx/v5/pgxpool"
)

type columnInfo struct {
	name     string
	dataType string
}

const columnsQuery = `
	SELECT c.column_name, c.data_type, c.is_nullable = 'NO',
		EXISTS (
			SELECT 1
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
				ON tc.constraint_name = kcu.constraint_name
				AND tc.table_schema = kcu.table_schema
				AND tc.table_name = kcu.table_name
			WHERE tc.constraint_type = 'PRIMARY KEY'
			AND tc.table_schema = c.table_schema
			AND tc.table_name = c.table_name
			AND kcu.column_name = c.column_name
		)
	FROM information_schema.columns c
	WHERE c.table_schema = current_schema()
	AND c.table_name = $1
	ORDER BY c.ordinal_position
`

func tableColumns(ctx context.Context, pool *pgxpool.Pool, table string) ([]grabbieldb.Column, error) {
	rows, err := pool.Query(ctx, columnsQuery, table)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var cols []grabbieldb.Column
	for rows.Next() {
		var c grabbieldb.Column
		if err := rows.Scan(&c.Name, &c.Type, &c.NotNull, &c.PrimaryKey); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		cols = append(cols, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return cols, nil
}

func validateTableSchema(ctx context.Context, pool *pgxpool.Pool, tableName string, expectedSchema map[string]columnInfo) error {
	if !grabbieldb.IsValidTableName(tableName) {
		return fmt.Errorf("validate table schema: invalid table name: %s", tableName)
	}

	exists, err := tableExists(ctx, pool, tableName)
	if err != nil {
		return fmt.Errorf("validate table schema: %w", err)
	}

	if !exists {
		return fmt.Errorf("validate table schema: table %s does not exist", tableName)
	}

	cols, err := tableColumns(ctx, pool, tableName)
	if err != nil {
		return fmt.Errorf("validate table schema: %w", err)
	}

	actualColumns := make(map[string]columnInfo, len(cols))
	for _, c := range cols {
		actualColumns[c.Name] = columnInfo{name: c.Name, dataType: strings.ToLower(c.Type)}
	}

	var missingColumns []string
	var mismatchedColumns []string

	for colName, expected := range expectedSchema {
		actual, exists := actualColumns[colName]
		if !exists {
			missingColumns = append(missingColumns, colName)
			continue
		}

		if actual.dataType != expected.dataType {
			mismatchedColumns = append(mismatchedColumns,
				fmt.Sprintf("%s: expected %s, got %s", colName, expected.dataType, actual.dataType))
		}
	}

	if len(missingColumns) > 0 || len(mismatchedColumns) > 0 {
		sort.Strings(missingColumns)
		sort.Strings(mismatchedColumns)

		var errMsg strings.Builder
		fmt.Fprintf(&errMsg, "table %s schema validation failed:\n", tableName)

		if len(missingColumns) > 0 {
			fmt.Fprintf(&errMsg, "  missing columns: %s\n", strings.Join(missingColumns, ", "))
		}

		if len(mismatchedColumns) > 0 {
			fmt.Fprintf(&errMsg, "  mismatched columns:\n")
			for _, msg := range mismatchedColumns {
				fmt.Fprintf(&errMsg, "    - %s\n", msg)
			}
		}

		return errors.New(errMsg.String())
	}

	return nil
}

func tableExists(ctx context.Context, pool *pgxpool.Pool, tableName string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.tables
			WHERE table_schema = current_schema()
			AND table_name = $1
		)
	`
	err := pool.QueryRow(ctx, query, tableName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check table exists: %w", err)
	}
	return exists, nil
}

type tableValidation struct {
	tableName      string
	expectedSchema map[string]columnInfo
}

var imagesTableSchema = map[string]columnInfo{
	"id":                {"id", "bigint"},
	"original_url":      {"original_url", "text"},
	"filename":          {"filename", "text"},
	"mime_type":         {"mime_type", "text"},
	"size":              {"size", "bigint"},
	"width":             {"width", "integer"},
	"height":            {"height", "integer"},
	"content_id":        {"content_id", "bigint"},
	"image_type":        {"image_type", "text"},
	"processing_status": {"processing_status", "text"},
}

var videosTableSchema = map[string]columnInfo{
	"id":                {"id", "bigint"},
	"title":             {"title", "text"},
	"gcs_path":          {"gcs_path", "text"},
	"mime_type":         {"mime_type", "text"},
	"size_bytes":        {"size_bytes", "bigint"},
	"duration_seconds":  {"duration_seconds", "integer"},
	"content_id":        {"content_id", "bigint"},
	"processing_status": {"processing_status", "text"},
}

func getTableValidations(tables grabbieldb.Tables) []tableValidation {
	return []tableValidation{
		{tableName: tables.Images, expectedSchema: imagesTableSchema},
		{tableName: tables.Videos, expectedSchema: videosTableSchema},
	}
}

func ValidateSchema(ctx context.Context, pool *pgxpool.Pool, tables grabbieldb.Tables) error {
	for _, validation := range getTableValidations(tables) {
		if err := validateTableSchema(ctx, pool, validation.tableName, validation.expectedSchema); err != nil {
			return fmt.Errorf("validate schema %s: %w", validation.tableName, err)
		}
	}

	return nil
}
