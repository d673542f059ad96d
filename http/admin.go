package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/grabbiel/grabbieldb"
	"github.com/grabbiel/grabbieldb/render"
)

type TableBrowser interface {
	Tables(ctx context.Context) ([]string, error)
	Columns(ctx context.Context, table string) ([]grabbieldb.Column, error)
	Describe(ctx context.Context, table string, page int) (grabbieldb.TableView, error)
	Row(ctx context.Context, table, key string) ([]grabbieldb.Column, grabbieldb.Row, error)
	Insert(ctx context.Context, table string, form map[string]string) error
	Update(ctx context.Context, table, key string, form map[string]string) error
	Delete(ctx context.Context, table, key string) error
	Export(ctx context.Context, table string, format grabbieldb.ExportFormat, w io.Writer) error
}

// keyField carries the addressed row's key in the edit form.
const keyField = "_id"

// AdminHandler serves the table browser.
type AdminHandler struct {
	config  HandlerConfig
	browser TableBrowser
	pages   *render.Renderer
}

func NewAdminHandler(config *HandlerConfig, browser TableBrowser, pages *render.Renderer) *AdminHandler {
	return &AdminHandler{
		config:  *config,
		browser: browser,
		pages:   pages,
	}
}

// Router returns the admin routes. Unknown paths answer with the plain text
// 404 page.
func (h *AdminHandler) Router() http.Handler {
	r := h.config.newRouter()
	r.NotFound(notFound)

	r.Get("/", h.handleIndex)
	r.Get("/index", h.handleIndex)
	r.Get("/table", h.handleTable)
	r.Get("/insert", h.handleInsertForm)
	r.Post("/insert", h.handleInsert)
	r.Get("/edit", h.handleEditForm)
	r.Post("/edit", h.handleEdit)
	r.Get("/delete", h.handleDelete)
	r.Get("/export", h.handleExport)
	r.Get("/api/tables/{name}", h.handleAPITable)

	return r
}

func (h *AdminHandler) handleIndex(w http.ResponseWriter, r *http.Request) {
	tables, err := h.browser.Tables(r.Context())
	if err != nil {
		writePageError(w, r, err)
		return
	}

	writeHTML(w, r, h.pages, render.AdminIndex, render.IndexPage{Tables: tables})
}

func (h *AdminHandler) handleTable(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		notFound(w, r)
		return
	}

	view, err := h.browser.Describe(r.Context(), name, pageParam(r))
	if err != nil {
		writePageError(w, r, err)
		return
	}

	tables, err := h.browser.Tables(r.Context())
	if err != nil {
		writePageError(w, r, err)
		return
	}

	writeHTML(w, r, h.pages, render.AdminTable, render.TablePage{Tables: tables, View: view})
}

func (h *AdminHandler) handleInsertForm(w http.ResponseWriter, r *http.Request) {
	table := r.URL.Query().Get("table")

	cols, err := h.browser.Columns(r.Context(), table)
	if err != nil {
		writePageError(w, r, err)
		return
	}

	fields := make([]render.Field, len(cols))
	for i, c := range cols {
		fields[i] = render.Field{Column: c}
	}

	h.renderForm(w, r, render.FormPage{Table: table, Fields: fields})
}

func (h *AdminHandler) handleInsert(w http.ResponseWriter, r *http.Request) {
	fields, err := formFields(r)
	if err != nil {
		writePageError(w, r, err)
		return
	}

	table := fields["table"]
	delete(fields, "table")

	if err := h.browser.Insert(r.Context(), table, fields); err != nil {
		writePageError(w, r, err)
		return
	}

	LoggerFrom(r.Context()).Info("row inserted", "table", table)
	seeOther(w, tableLocation(table))
}

func (h *AdminHandler) handleEditForm(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	table, key := q.Get("table"), q.Get("id")

	cols, row, err := h.browser.Row(r.Context(), table, key)
	if err != nil {
		writePageError(w, r, err)
		return
	}

	fields := make([]render.Field, len(cols))
	for i, c := range cols {
		fields[i] = render.Field{Column: c}
		if i < len(row) {
			fields[i].Value = row[i]
		}
	}

	h.renderForm(w, r, render.FormPage{Table: table, Key: key, Fields: fields})
}

func (h *AdminHandler) handleEdit(w http.ResponseWriter, r *http.Request) {
	fields, err := formFields(r)
	if err != nil {
		writePageError(w, r, err)
		return
	}

	table, key := fields["table"], fields[keyField]
	if key == "" {
		key = fields["id"]
	}
	delete(fields, "table")
	delete(fields, keyField)

	if err := h.browser.Update(r.Context(), table, key, fields); err != nil {
		writePageError(w, r, err)
		return
	}

	LoggerFrom(r.Context()).Info("row updated", "table", table, "key", key)
	seeOther(w, tableLocation(table))
}

func (h *AdminHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	table, key := q.Get("table"), q.Get("id")

	if err := h.browser.Delete(r.Context(), table, key); err != nil {
		writePageError(w, r, err)
		return
	}

	LoggerFrom(r.Context()).Info("row deleted", "table", table, "key", key)
	seeOther(w, tableLocation(table))
}

func (h *AdminHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	table := q.Get("table")

	format, err := grabbieldb.ParseExportFormat(q.Get("format"))
	if err != nil {
		writePageError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.browser.Export(r.Context(), table, format, &buf); err != nil {
		writePageError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+table+"."+string(format)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *AdminHandler) handleAPITable(w http.ResponseWriter, r *http.Request) {
	view, err := h.browser.Describe(r.Context(), chi.URLParam(r, "name"), pageParam(r))
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, view)
}

func (h *AdminHandler) renderForm(w http.ResponseWriter, r *http.Request, page render.FormPage) {
	tables, err := h.browser.Tables(r.Context())
	if err != nil {
		writePageError(w, r, err)
		return
	}
	page.Tables = tables

	writeHTML(w, r, h.pages, render.AdminForm, page)
}

// pageParam reads ?page=, defaulting to 1.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
