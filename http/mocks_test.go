package http_test

import (
	"context"
	"io"
	"testing"

	"github.com/grabbiel/grabbieldb"
	"github.com/grabbiel/grabbieldb/render"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBrowser struct {
	mock.Mock
}

func (m *MockBrowser) Tables(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBrowser) Columns(ctx context.Context, table string) ([]grabbieldb.Column, error) {
	args := m.Called(ctx, table)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]grabbieldb.Column), args.Error(1)
}

func (m *MockBrowser) Describe(ctx context.Context, table string, page int) (grabbieldb.TableView, error) {
	args := m.Called(ctx, table, page)
	return args.Get(0).(grabbieldb.TableView), args.Error(1)
}

func (m *MockBrowser) Row(ctx context.Context, table, key string) ([]grabbieldb.Column, grabbieldb.Row, error) {
	args := m.Called(ctx, table, key)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]grabbieldb.Column), args.Get(1).(grabbieldb.Row), args.Error(2)
}

func (m *MockBrowser) Insert(ctx context.Context, table string, form map[string]string) error {
	return m.Called(ctx, table, form).Error(0)
}

func (m *MockBrowser) Update(ctx context.Context, table, key string, form map[string]string) error {
	return m.Called(ctx, table, key, form).Error(0)
}

func (m *MockBrowser) Delete(ctx context.Context, table, key string) error {
	return m.Called(ctx, table, key).Error(0)
}

func (m *MockBrowser) Export(ctx context.Context, table string, format grabbieldb.ExportFormat, w io.Writer) error {
	args := m.Called(ctx, table, format, w)
	if s, ok := args.Get(0).(string); ok {
		_, _ = io.WriteString(w, s)
	}
	return args.Error(1)
}

type MockMediaService struct {
	mock.Mock
}

func (m *MockMediaService) Recent(ctx context.Context) (grabbieldb.RecentMedia, error) {
	args := m.Called(ctx)
	return args.Get(0).(grabbieldb.RecentMedia), args.Error(1)
}

func (m *MockMediaService) ListImages(ctx context.Context, limit int) ([]grabbieldb.Image, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]grabbieldb.Image), args.Error(1)
}

func (m *MockMediaService) ListVideos(ctx context.Context, limit int) ([]grabbieldb.Video, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]grabbieldb.Video), args.Error(1)
}

func (m *MockMediaService) UploadImage(ctx context.Context, up grabbieldb.ImageUpload) (grabbieldb.Image, error) {
	args := m.Called(ctx, up)
	return args.Get(0).(grabbieldb.Image), args.Error(1)
}

func (m *MockMediaService) UploadVideo(ctx context.Context, up grabbieldb.VideoUpload) (grabbieldb.Video, error) {
	args := m.Called(ctx, up)
	return args.Get(0).(grabbieldb.Video), args.Error(1)
}

func (m *MockMediaService) DeleteImage(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMediaService) DeleteVideo(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newPages(t *testing.T) *render.Renderer {
	t.Helper()
	pages, err := render.New()
	require.NoError(t, err)
	return pages
}
