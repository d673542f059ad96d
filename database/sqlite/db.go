package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/grabbiel/grabbieldb"
)

type columnInfo struct {
	name     string
	dataType string
}

// tableColumns reads PRAGMA table_info for table.
func tableColumns(ctx context.Context, db *sql.DB, table string) ([]grabbieldb.Column, error) {
	query := fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdentifier(table))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cols []grabbieldb.Column
	for rows.Next() {
		var cid int
		var name, dataType string
		var notNull int
		var dfltValue sql.NullString
		var pk int

		if err := rows.Scan(&cid, &name, &dataType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}

		cols = append(cols, grabbieldb.Column{
			Name:       name,
			Type:       dataType,
			NotNull:    notNull != 0,
			PrimaryKey: pk > 0,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return cols, nil
}

func validateTableSchema(ctx context.Context, db *sql.DB, tableName string, expectedSchema map[string]columnInfo) error {
	if !grabbieldb.IsValidTableName(tableName) {
		return fmt.Errorf("validate table schema: invalid table name: %s", tableName)
	}

	exists, err := tableExists(ctx, db, tableName)
	if err != nil {
		return fmt.Errorf("validate table schema: %w", err)
	}

	if !exists {
		return fmt.Errorf("validate table schema: table %s does not exist", tableName)
	}

	cols, err := tableColumns(ctx, db, tableName)
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

func tableExists(ctx context.Context, db *sql.DB, tableName string) (bool, error) {
	var name string
	query := `SELECT name FROM sqlite_master WHERE type='table' AND name=?`
	err := db.QueryRowContext(ctx, query, tableName).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check table exists: %w", err)
	}
	return true, nil
}

type tableValidation struct {
	tableName      string
	expectedSchema map[string]columnInfo
}

var imagesTableSchema = map[string]columnInfo{
	"id":                {"id", "integer"},
	"original_url":      {"original_url", "text"},
	"filename":          {"filename", "text"},
	"mime_type":         {"mime_type", "text"},
	"size":              {"size", "integer"},
	"width":             {"width", "integer"},
	"height":            {"height", "integer"},
	"content_id":        {"content_id", "integer"},
	"image_type":        {"image_type", "text"},
	"processing_status": {"processing_status", "text"},
}

var videosTableSchema = map[string]columnInfo{
	"id":                {"id", "integer"},
	"title":             {"title", "text"},
	"gcs_path":          {"gcs_path", "text"},
	"mime_type":         {"mime_type", "text"},
	"size_bytes":        {"size_bytes", "integer"},
	"duration_seconds":  {"duration_seconds", "integer"},
	"content_id":        {"content_id", "integer"},
	"processing_status": {"processing_status", "text"},
}

func getTableValidations(tables grabbieldb.Tables) []tableValidation {
	return []tableValidation{
		{tableName: tables.Images, expectedSchema: imagesTableSchema},
		{tableName: tables.Videos, expectedSchema: videosTableSchema},
	}
}

// ValidateSchema checks that the media tables exist with the expected
// column names and declared types. Extra columns are allowed.
func ValidateSchema(ctx context.Context, db *sql.DB, tables grabbieldb.Tables) error {
	for _, validation := range getTableValidations(tables) {
		if err := validateTableSchema(ctx, db, validation.tableName, validation.expectedSchema); err != nil {
			return fmt.Errorf("validate schema %s: %w", validation.tableName, err)
		}
	}

	return nil
}
