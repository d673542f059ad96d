package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/grabbiel/grabbieldb"
	"github.com/grabbiel/grabbieldb/database/internal"
)

type schemaRepo struct {
	db *sql.DB
}

func (r *schemaRepo) Tables(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tables := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("tables: scan: %w", err)
		}
		tables = append(tables, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tables: %w", err)
	}

	return tables, nil
}

func (r *schemaRepo) Columns(ctx context.Context, table string) ([]grabbieldb.Column, error) {
	cols, err := tableColumns(ctx, r.db, table)
	if err != nil {
		return nil, fmt.Errorf("columns %s: %w", table, err)
	}

	if len(cols) == 0 {
		return nil, fmt.Errorf("columns %s: %w", table, grabbieldb.ErrNotFound)
	}

	return cols, nil
}

func (r *schemaRepo) Rows(ctx context.Context, table, keyCol string, limit, offset int) ([]grabbieldb.Row, error) {
	query := fmt.Sprintf(`SELECT * FROM %s`, quoteIdentifier(table))
	orderBy := "rowid"
	if keyCol != "" {
		orderBy = quoteIdentifier(keyCol)
	}
	query += ` ORDER BY ` + orderBy + ` LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("rows %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	result, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("rows %s: %w", table, err)
	}

	return result, nil
}

func (r *schemaRepo) Row(ctx context.Context, table, keyCol, key string) (grabbieldb.Row, error) {
	query := fmt.Sprintf(`SELECT * FROM %s WHERE %s = ? LIMIT 1`, quoteIdentifier(table), quoteIdentifier(keyCol))

	rows, err := r.db.QueryContext(ctx, query, key)
	if err != nil {
		return nil, fmt.Errorf("row %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	result, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("row %s: %w", table, err)
	}

	if len(result) == 0 {
		return nil, grabbieldb.ErrNotFound
	}

	return result[0], nil
}

func (r *schemaRepo) Insert(ctx context.Context, table string, values map[string]grabbieldb.Value) error {
	cols := internal.SortedColumns(values)

	quoted := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdentifier(c)
		args[i] = internal.Arg(values[c])
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		quoteIdentifier(table),
		strings.Join(quoted, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "),
	)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}

	return nil
}

func (r *schemaRepo) Update(ctx context.Context, table, keyCol, key string, values map[string]grabbieldb.Value) error {
	cols := internal.SortedColumns(values)

	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, c := range cols {
		sets[i] = quoteIdentifier(c) + " = ?"
		args = append(args, internal.Arg(values[c]))
	}
	args = append(args, key)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = ?`,
		quoteIdentifier(table), strings.Join(sets, ", "), quoteIdentifier(keyCol))

	return r.execAffecting(ctx, "update "+table, query, args...)
}

func (r *schemaRepo) Delete(ctx context.Context, table, keyCol, key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, quoteIdentifier(table), quoteIdentifier(keyCol))

	return r.execAffecting(ctx, "delete "+table, query, key)
}

func (r *schemaRepo) execAffecting(ctx context.Context, op, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}

	if n == 0 {
		return fmt.Errorf("%s: %w", op, grabbieldb.ErrNotFound)
	}

	return nil
}

func scanRows(rows *sql.Rows) ([]grabbieldb.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	result := []grabbieldb.Row{}
	for rows.Next() {
		cells := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}

		result = append(result, internal.FormatRow(cells))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
