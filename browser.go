package grabbieldb

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"
)

// DefaultPageSize is the number of rows shown per table page.
const DefaultPageSize = 100

const exportBatch = 1000

// ExportFormat selects the table export encoding.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportYAML ExportFormat = "yaml"
)

func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(s); f {
	case ExportCSV, ExportYAML:
		return f, nil
	case "":
		return ExportCSV, nil
	default:
		return "", fmt.Errorf("invalid export format: %s (valid formats: csv, yaml): %w", s, ErrInvalidInput)
	}
}

// ContentType returns the MIME type of the export encoding.
func (f ExportFormat) ContentType() string {
	if f == ExportYAML {
		return "application/yaml"
	}
	return "text/csv; charset=utf-8"
}

// TableBrowser exposes any table of the database for viewing and editing.
// Table names are only accepted when they appear in the live table list.
type TableBrowser struct {
	repo     SchemaRepo
	pageSize int
}

func NewTableBrowser(repo SchemaRepo, pageSize int) *TableBrowser {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &TableBrowser{repo: repo, pageSize: pageSize}
}

// Tables lists table names ordered by name.
func (b *TableBrowser) Tables(ctx context.Context) ([]string, error) {
	tables, err := b.repo.Tables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

// Columns returns the columns of table.
func (b *TableBrowser) Columns(ctx context.Context, table string) ([]Column, error) {
	if err := b.resolve(ctx, table); err != nil {
		return nil, fmt.Errorf("columns %s: %w", table, err)
	}

	cols, err := b.repo.Columns(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("columns %s: %w", table, err)
	}
	return cols, nil
}

// Describe returns one page of table. Pages start at 1; lower values are
// treated as 1.
func (b *TableBrowser) Describe(ctx context.Context, table string, page int) (TableView, error) {
	cols, err := b.Columns(ctx, table)
	if err != nil {
		return TableView{}, fmt.Errorf("describe: %w", err)
	}

	page = max(page, 1)
	key := KeyColumn(cols)

	rows, err := b.repo.Rows(ctx, table, key, b.pageSize+1, (page-1)*b.pageSize)
	if err != nil {
		return TableView{}, fmt.Errorf("describe %s: %w", table, err)
	}

	hasNext := len(rows) > b.pageSize
	if hasNext {
		rows = rows[:b.pageSize]
	}

	return TableView{
		Name:      table,
		Columns:   cols,
		Rows:      rows,
		KeyColumn: key,
		Page:      page,
		PageSize:  b.pageSize,
		HasNext:   hasNext,
	}, nil
}

// Row returns the columns of table and the row addressed by key.
func (b *TableBrowser) Row(ctx context.Context, table, key string) ([]Column, Row, error) {
	cols, keyCol, err := b.keyed(ctx, table)
	if err != nil {
		return nil, nil, fmt.Errorf("get row: %w", err)
	}

	row, err := b.repo.Row(ctx, table, keyCol, key)
	if err != nil {
		return nil, nil, fmt.Errorf("get row %s[%s]: %w", table, key, err)
	}

	return cols, row, nil
}

// Insert adds a row. Empty form values are left out so column defaults and
// generated keys apply.
func (b *TableBrowser) Insert(ctx context.Context, table string, form map[string]string) error {
	cols, err := b.Columns(ctx, table)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}

	values := make(map[string]Value, len(form))
	for name, text := range form {
		if findColumn(cols, name) < 0 {
			return fmt.Errorf("insert %s: %w: unknown column %q", table, ErrInvalidInput, name)
		}
		if text == "" {
			continue
		}
		values[name] = Value{Text: text}
	}

	if len(values) == 0 {
		return fmt.Errorf("insert %s: %w: no values", table, ErrInvalidInput)
	}

	if err := b.repo.Insert(ctx, table, values); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}

	return nil
}

// Update overwrites the submitted columns of the row addressed by key. The
// key column itself is never changed. An empty value becomes NULL when the
// column is nullable.
func (b *TableBrowser) Update(ctx context.Context, table, key string, form map[string]string) error {
	cols, keyCol, err := b.keyed(ctx, table)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	values := make(map[string]Value, len(form))
	for name, text := range form {
		i := findColumn(cols, name)
		if i < 0 {
			return fmt.Errorf("update %s: %w: unknown column %q", table, ErrInvalidInput, name)
		}
		if name == keyCol {
			continue
		}
		values[name] = Value{Text: text, Null: text == "" && !cols[i].NotNull}
	}

	if len(values) == 0 {
		return fmt.Errorf("update %s: %w: no values", table, ErrInvalidInput)
	}

	if err := b.repo.Update(ctx, table, keyCol, key, values); err != nil {
		return fmt.Errorf("update %s[%s]: %w", table, key, err)
	}

	return nil
}

// Delete removes the row addressed by key.
func (b *TableBrowser) Delete(ctx context.Context, table, key string) error {
	_, keyCol, err := b.keyed(ctx, table)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if err := b.repo.Delete(ctx, table, keyCol, key); err != nil {
		return fmt.Errorf("delete %s[%s]: %w", table, key, err)
	}

	return nil
}

// Export writes every row of table to w. CSV output starts with a header
// record and renders NULL as an empty field. YAML output is a sequence of
// mappings in column order with NULL as null.
func (b *TableBrowser) Export(ctx context.Context, table string, format ExportFormat, w io.Writer) error {
	cols, err := b.Columns(ctx, table)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	var enc rowEncoder
	switch format {
	case ExportCSV:
		enc = newCSVEncoder(w, cols)
	case ExportYAML:
		enc = newYAMLEncoder(w, cols)
	default:
		return fmt.Errorf("export %s: %w: format %q", table, ErrInvalidInput, format)
	}

	key := KeyColumn(cols)
	for offset := 0; ; offset += exportBatch {
		rows, err := b.repo.Rows(ctx, table, key, exportBatch, offset)
		if err != nil {
			return fmt.Errorf("export %s: %w", table, err)
		}

		for _, row := range rows {
			if err := enc.Encode(row); err != nil {
				return fmt.Errorf("export %s: %w", table, err)
			}
		}

		if len(rows) < exportBatch {
			break
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("export %s: %w", table, err)
	}

	return nil
}

func (b *TableBrowser) resolve(ctx context.Context, table string) error {
	tables, err := b.repo.Tables(ctx)
	if err != nil {
		return err
	}

	if !slices.Contains(tables, table) {
		return fmt.Errorf("table %q: %w", table, ErrNotFound)
	}

	return nil
}

func (b *TableBrowser) keyed(ctx context.Context, table string) ([]Column, string, error) {
	cols, err := b.Columns(ctx, table)
	if err != nil {
		return nil, "", err
	}

	keyCol := KeyColumn(cols)
	if keyCol == "" {
		return nil, "", fmt.Errorf("table %s: %w: no primary key or id column", table, ErrInvalidInput)
	}

	return cols, keyCol, nil
}

func findColumn(cols []Column, name string) int {
	return slices.IndexFunc(cols, func(c Column) bool { return c.Name == name })
}

type rowEncoder interface {
	Encode(Row) error
	Close() error
}

type csvEncoder struct {
	w      *csv.Writer
	cols   []Column
	header bool
}

func newCSVEncoder(w io.Writer, cols []Column) *csvEncoder {
	return &csvEncoder{w: csv.NewWriter(w), cols: cols}
}

func (e *csvEncoder) writeHeader() error {
	if e.header {
		return nil
	}
	e.header = true

	names := make([]string, len(e.cols))
	for i, c := range e.cols {
		names[i] = c.Name
	}
	return e.w.Write(names)
}

func (e *csvEncoder) Encode(row Row) error {
	if err := e.writeHeader(); err != nil {
		return err
	}

	record := make([]string, len(row))
	for i, v := range row {
		record[i] = v.Text
	}
	return e.w.Write(record)
}

func (e *csvEncoder) Close() error {
	if err := e.writeHeader(); err != nil {
		return err
	}
	e.w.Flush()
	return e.w.Error()
}

type yamlEncoder struct {
	enc  *yaml.Encoder
	cols []Column
	doc  *yaml.Node
}

func newYAMLEncoder(w io.Writer, cols []Column) *yamlEncoder {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &yamlEncoder{
		enc:  enc,
		cols: cols,
		doc:  &yaml.Node{Kind: yaml.SequenceNode},
	}
}

func (e *yamlEncoder) Encode(row Row) error {
	m := &yaml.Node{Kind: yaml.MappingNode}
	for i, v := range row {
		if i >= len(e.cols) {
			break
		}

		val := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Text}
		if v.Null {
			val = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		}

		m.Content = append(m.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.cols[i].Name},
			val,
		)
	}

	e.doc.Content = append(e.doc.Content, m)
	return nil
}

func (e *yamlEncoder) Close() error {
	if err := e.enc.Encode(e.doc); err != nil {
		return err
	}
	return e.enc.Close()
}
