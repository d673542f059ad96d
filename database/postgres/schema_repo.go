package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/grabbiel/grabbieldb"
	"github.com/grabbiel/grabbieldb/database/internal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaRepo sends statements over the simple protocol so that text cells
// are coerced by the server into whatever type the column declares.
type schemaRepo struct {
	pool *pgxpool.Pool
}

const simple = pgx.QueryExecModeSimpleProtocol

func (r *schemaRepo) Tables(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = current_schema()
		AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`)
	if err != nil {
		return nil, fmt.Errorf("tables: %w", err)
	}

	tables, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("tables: %w", err)
	}

	if tables == nil {
		tables = []string{}
	}

	return tables, nil
}

func (r *schemaRepo) Columns(ctx context.Context, table string) ([]grabbieldb.Column, error) {
	cols, err := tableColumns(ctx, r.pool, table)
	if err != nil {
		return nil, fmt.Errorf("columns %s: %w", table, err)
	}

	if len(cols) == 0 {
		return nil, fmt.Errorf("columns %s: %w", table, grabbieldb.ErrNotFound)
	}

	return cols, nil
}

func (r *schemaRepo) Rows(ctx context.Context, table, keyCol string, limit, offset int) ([]grabbieldb.Row, error) {
	query := fmt.Sprintf(`SELECT * FROM %s`, pgx.Identifier{table}.Sanitize())
	// ctid keeps pages stable for tables without a key column
	orderBy := "ctid"
	if keyCol != "" {
		orderBy = pgx.Identifier{keyCol}.Sanitize()
	}
	query += fmt.Sprintf(` ORDER BY %s LIMIT %d OFFSET %d`, orderBy, limit, offset)

	result, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("rows %s: %w", table, err)
	}

	return result, nil
}

func (r *schemaRepo) Row(ctx context.Context, table, keyCol, key string) (grabbieldb.Row, error) {
	query := fmt.Sprintf(`SELECT * FROM %s WHERE %s::text = $1 LIMIT 1`,
		pgx.Identifier{table}.Sanitize(), pgx.Identifier{keyCol}.Sanitize())

	result, err := r.query(ctx, query, key)
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
	params := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	args = append(args, simple)
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
		params[i] = "$" + strconv.Itoa(i+1)
		args = append(args, internal.Arg(values[c]))
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		pgx.Identifier{table}.Sanitize(), strings.Join(quoted, ", "), strings.Join(params, ", "))

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}

	return nil
}

func (r *schemaRepo) Update(ctx context.Context, table, keyCol, key string, values map[string]grabbieldb.Value) error {
	cols := internal.SortedColumns(values)

	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+2)
	args = append(args, simple)
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", pgx.Identifier{c}.Sanitize(), i+1)
		args = append(args, internal.Arg(values[c]))
	}
	args = append(args, key)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s::text = $%d`,
		pgx.Identifier{table}.Sanitize(), strings.Join(sets, ", "),
		pgx.Identifier{keyCol}.Sanitize(), len(cols)+1)

	return r.execAffecting(ctx, "update "+table, query, args...)
}

func (r *schemaRepo) Delete(ctx context.Context, table, keyCol, key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s::text = $1`,
		pgx.Identifier{table}.Sanitize(), pgx.Identifier{keyCol}.Sanitize())

	return r.execAffecting(ctx, "delete "+table, query, simple, key)
}

func (r *schemaRepo) execAffecting(ctx context.Context, op, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, grabbieldb.ErrNotFound)
	}

	return nil
}

func (r *schemaRepo) query(ctx context.Context, query string, args ...any) ([]grabbieldb.Row, error) {
	rows, err := r.pool.Query(ctx, query, append([]any{simple}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []grabbieldb.Row{}
	for rows.Next() {
		cells, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		result = append(result, internal.FormatRow(cells))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
