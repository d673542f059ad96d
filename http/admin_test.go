package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/grabbiel/grabbieldb"
	grabbielhttp "github.com/grabbiel/grabbieldb/http"
	"github.com/grabbiel/grabbieldb/rawhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var postsColumns = []grabbieldb.Column{
	{Name: "id", Type: "INTEGER", PrimaryKey: true},
	{Name: "title", Type: "TEXT"},
}

func newAdmin(t *testing.T) (*MockBrowser, http.Handler) {
	t.Helper()
	browser := new(MockBrowser)
	h := grabbielhttp.NewAdminHandler(&grabbielhttp.HandlerConfig{}, browser, newPages(t))
	return browser, h.Router()
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAdmin_Index(t *testing.T) {
	browser, h := newAdmin(t)
	browser.On("Tables", mock.Anything).Return([]string{"images", "videos"}, nil)

	for _, path := range []string{"/", "/index"} {
		rec := serve(h, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), `href="/table?name=videos"`)
	}
}

func TestAdmin_Table(t *testing.T) {
	browser, h := newAdmin(t)
	browser.On("Tables", mock.Anything).Return([]string{"posts"}, nil)
	browser.On("Describe", mock.Anything, "posts", 3).Return(grabbieldb.TableView{
		Name:      "posts",
		Columns:   postsColumns,
		Rows:      []grabbieldb.Row{{{Text: "1"}, {Null: true}}},
		KeyColumn: "id",
		Page:      3,
	}, nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/table?name=posts&page=3", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<th>title (TEXT)</th>")
	assert.Contains(t, rec.Body.String(), "NULL")
	browser.AssertExpectations(t)
}

func TestAdmin_Table_Errors(t *testing.T) {
	browser, h := newAdmin(t)
	browser.On("Describe", mock.Anything, "nope", 1).Return(grabbieldb.TableView{}, grabbieldb.ErrNotFound)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/table", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, grabbielhttp.TextNotFound, rec.Body.String())

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/table?name=nope&page=x", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdmin_UnknownPathAndMethod(t *testing.T) {
	_, h := newAdmin(t)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "404 - Page not found", rec.Body.String())

	rec = serve(h, httptest.NewRequest(http.MethodPut, "/table", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "405 - Method Not Allowed", rec.Body.String())
}

func TestAdmin_InsertForm(t *testing.T) {
	browser, h := newAdmin(t)
	browser.On("Tables", mock.Anything).Return([]string{"posts"}, nil)
	browser.On("Columns", mock.Anything, "posts").Return(postsColumns, nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/insert?table=posts", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/insert"`)
	assert.Contains(t, rec.Body.String(), `name="title"`)
}

func TestAdmin_Insert_URLEncoded(t *testing.T) {
	browser, h := newAdmin(t)
	browser.On("Insert", mock.Anything, "posts", map[string]string{"title": "Hello", "id": ""}).Return(nil)

	body := url.Values{"table": {"posts"}, "title": {"Hello"}, "id": {""}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/insert", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := serve(h, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/table?name=posts", rec.Header().Get("Location"))
	browser.AssertExpectations(t)
}

func TestAdmin_Insert_MultipartFromFramedRequest(t *testing.T) {
	browser, h := newAdmin(t)
	browser.On("Insert", mock.Anything, "posts", map[string]string{"title": "From raw"}).Return(nil)

	body := rawhttp.EncodeMultipart("XyZ", []rawhttp.Part{
		{Name: "table", Value: "posts"},
		{Name: "title", Value: "From raw"},
	})
	raw := &rawhttp.RawRequest{
		Method:   http.MethodPost,
		Path:     "/insert",
		Headers:  rawhttp.Headers{{Name: "Content-Type", Value: rawhttp.FormContentType("XyZ")}},
		Body:     body,
		Complete: true,
	}

	// r.Body is empty; the handler must read the framed body
	req := httptest.NewRequest(http.MethodPost, "/insert", nil)
	req = req.WithContext(rawhttp.WithRequest(req.Context(), raw))

	rec := serve(h, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	browser.AssertExpectations(t)
}

func TestAdmin_Insert_InvalidColumn(t *testing.T) {
	browser, h := newAdmin(t)
	browser.On("Insert", mock.Anything, "posts", mock.Anything).Return(grabbieldb.ErrInvalidInput)

	req := httptest.NewRequest(http.MethodPost, "/insert", strings.NewReader("table=posts&bogus=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := serve(h, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, grabbielhttp.TextBadRequest, rec.Body.String())
}

func TestAdmin_EditForm(t *testing.T) {
	browser, h := newAdmin(t)
	browser.On("Tables", mock.Anything).Return([]string{"posts"}, nil)
	browser.On("Row", mock.Anything, "posts", "7").Return(postsColumns, grabbieldb.Row{{Text: "7"}, {Text: "Old"}}, nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/edit?table=posts&id=7", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/edit"`)
	assert.Contains(t, rec.Body.String(), `value="Old"`)
	assert.Contains(t, rec.Body.String(), `name="_id" value="7"`)
}

func TestAdmin_Edit(t *testing.T) {
	browser, h := newAdmin(t)
	browser.On("Update", mock.Anything, "posts", "7", map[string]string{"id": "7", "title": "New"}).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/edit", strings.NewReader("table=posts&_id=7&id=7&title=New"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := serve(h, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/table?name=posts", rec.Header().Get("Location"))
	browser.AssertExpectations(t)
}

func TestAdmin_Delete(t *testing.T) {
	browser, h := newAdmin(t)
	browser.On("Delete", mock.Anything, "posts", "7").Return(nil)
	browser.On("Delete", mock.Anything, "posts", "8").Return(grabbieldb.ErrNotFound)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/delete?table=posts&id=7", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/delete?table=posts&id=8", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdmin_Export(t *testing.T) {
	browser, h := newAdmin(t)
	browser.On("Export", mock.Anything, "posts", grabbieldb.ExportCSV, mock.Anything).Return("id,title\n1,a\n", nil)
	browser.On("Export", mock.Anything, "posts", grabbieldb.ExportYAML, mock.Anything).Return("- id: \"1\"\n", nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/export?table=posts", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="posts.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "id,title\n1,a\n", rec.Body.String())

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/export?table=posts&format=yaml", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="posts.yaml"`, rec.Header().Get("Content-Disposition"))

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/export?table=posts&format=xml", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdmin_APITable(t *testing.T) {
	browser, h := newAdmin(t)
	browser.On("Describe", mock.Anything, "posts", 1).Return(grabbieldb.TableView{
		Name: "posts", Columns: postsColumns, KeyColumn: "id", Page: 1,
		Rows: []grabbieldb.Row{{{Text: "1"}, {Text: "a"}}},
	}, nil)
	browser.On("Describe", mock.Anything, "gone", 1).Return(grabbieldb.TableView{}, grabbieldb.ErrNotFound)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/tables/posts", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var view grabbieldb.TableView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "posts", view.Name)
	assert.Equal(t, "a", view.Rows[0][1].Text)

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/api/tables/gone", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}
