// Package render holds the HTML pages of the admin and media servers.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/grabbiel/grabbieldb"
)

//go:embed templates/*.html
var files embed.FS

// Page names.
const (
	AdminIndex = "admin_index.html"
	AdminTable = "admin_table.html"
	AdminForm  = "admin_form.html"
	MediaIndex = "media_index.html"
)

// IndexPage lists the tables of the database.
type IndexPage struct {
	Tables []string
}

// TablePage shows one page of a table.
type TablePage struct {
	Tables []string
	View   grabbieldb.TableView
}

// Field is one input of the insert and edit forms.
type Field struct {
	Column grabbieldb.Column
	Value  grabbieldb.Value
}

// FormPage is the insert form when Key is empty and the edit form otherwise.
type FormPage struct {
	Tables []string
	Table  string
	Key    string
	Fields []Field
}

// Editing reports whether the form updates an existing row.
func (p FormPage) Editing() bool {
	return p.Key != ""
}

// MediaPage is the media dashboard.
type MediaPage struct {
	Images []grabbieldb.Image
	Videos []grabbieldb.Video
}

// Renderer executes the embedded templates.
type Renderer struct {
	t *template.Template
}

var funcs = template.FuncMap{
	"bytes": func(n int64) string {
		if n < 0 {
			n = 0
		}
		return humanize.Bytes(uint64(n))
	},
	"clock": func(seconds int) string {
		return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
	},
	"cell": func(row grabbieldb.Row, i int) grabbieldb.Value {
		if i < 0 || i >= len(row) {
			return grabbieldb.Value{Null: true}
		}
		return row[i]
	},
	"add": func(a, b int) int {
		return a + b
	},
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	t, err := template.New("").Funcs(funcs).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{t: t}, nil
}

// Render executes the named page into w.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	if err := r.t.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}
