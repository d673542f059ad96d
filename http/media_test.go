package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/grabbiel/grabbieldb"
	grabbielhttp "github.com/grabbiel/grabbieldb/http"
	"github.com/grabbiel/grabbieldb/rawhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testBoundary = "----grabbielTestBoundary"

func newMedia(t *testing.T) (*MockMediaService, http.Handler) {
	t.Helper()
	service := new(MockMediaService)
	h := grabbielhttp.NewMediaHandler(&grabbielhttp.HandlerConfig{}, service, newPages(t))
	return service, h.Router()
}

func multipartRequest(path string, parts []rawhttp.Part) *http.Request {
	body := rawhttp.EncodeMultipart(testBoundary, parts)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", rawhttp.FormContentType(testBoundary))
	return req
}

func TestMedia_Index(t *testing.T) {
	service, h := newMedia(t)
	service.On("Recent", mock.Anything).Return(grabbieldb.RecentMedia{
		Images: []grabbieldb.Image{{ID: 1, Filename: "cat.png", Width: 640, Height: 480, Size: 2000}},
		Videos: []grabbieldb.Video{{ID: 2, Title: "Intro", SizeBytes: 5_000_000, DurationSeconds: 75}},
	}, nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cat.png")
	assert.Contains(t, rec.Body.String(), "Intro")
	assert.Contains(t, rec.Body.String(), `/delete-image?id=1`)
}

func TestMedia_UploadImage(t *testing.T) {
	service, h := newMedia(t)
	service.On("UploadImage", mock.Anything, mock.MatchedBy(func(up grabbieldb.ImageUpload) bool {
		return up.Filename == "cat.png" &&
			string(up.Content) == "\x89PNG-data" &&
			up.ContentID == 12 &&
			up.ImageType == grabbieldb.ImageThumbnail &&
			up.Storage == grabbieldb.StoragePrivate
	})).Return(grabbieldb.Image{ID: 5, Filename: "cat.png"}, nil)

	req := multipartRequest("/upload-image", []rawhttp.Part{
		{Name: "content_id", Value: "12"},
		{Name: "image_type", Value: "thumbnail"},
		{Name: "storage_type", Value: "private"},
		{Name: "image", Filename: "cat.png", Data: []byte("\x89PNG-data")},
	})

	rec := serve(h, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	service.AssertExpectations(t)
}

func TestMedia_UploadImage_Defaults(t *testing.T) {
	service, h := newMedia(t)
	service.On("UploadImage", mock.Anything, mock.MatchedBy(func(up grabbieldb.ImageUpload) bool {
		return up.ContentID == 0 &&
			up.ImageType == grabbieldb.ImageContent &&
			up.Storage == grabbieldb.StoragePublic
	})).Return(grabbieldb.Image{ID: 6}, nil)

	rec := serve(h, multipartRequest("/upload-image", []rawhttp.Part{
		{Name: "image", Filename: "a.jpg", Data: []byte("jpg")},
	}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	service.AssertExpectations(t)
}

func TestMedia_UploadImage_Rejected(t *testing.T) {
	tests := []struct {
		name string
		req  *http.Request
	}{
		{
			name: "not multipart",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/upload-image", bytes.NewReader([]byte("image=x")))
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return r
			}(),
		},
		{
			name: "multipart without boundary",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/upload-image", nil)
				r.Header.Set("Content-Type", "multipart/form-data")
				return r
			}(),
		},
		{
			name: "missing file",
			req:  multipartRequest("/upload-image", []rawhttp.Part{{Name: "content_id", Value: "1"}}),
		},
		{
			name: "file sent as text field",
			req:  multipartRequest("/upload-image", []rawhttp.Part{{Name: "image", Value: "raw"}}),
		},
		{
			name: "invalid image type",
			req: multipartRequest("/upload-image", []rawhttp.Part{
				{Name: "image_type", Value: "banner"},
				{Name: "image", Filename: "a.png", Data: []byte("x")},
			}),
		},
		{
			name: "invalid storage type",
			req: multipartRequest("/upload-image", []rawhttp.Part{
				{Name: "storage_type", Value: "shared"},
				{Name: "image", Filename: "a.png", Data: []byte("x")},
			}),
		},
		{
			name: "non-numeric content id",
			req: multipartRequest("/upload-image", []rawhttp.Part{
				{Name: "content_id", Value: "abc"},
				{Name: "image", Filename: "a.png", Data: []byte("x")},
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, h := newMedia(t)

			rec := serve(h, tt.req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, grabbielhttp.TextBadRequest, rec.Body.String())
			service.AssertNotCalled(t, "UploadImage", mock.Anything, mock.Anything)
		})
	}
}

func TestMedia_UploadImage_ServiceErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"object store failure still redirects", fmt.Errorf("upload: %w", grabbieldb.ErrUploadFailed), http.StatusSeeOther},
		{"invalid filename", fmt.Errorf("spool: %w", grabbieldb.ErrInvalidInput), http.StatusBadRequest},
		{"database failure", fmt.Errorf("insert image: boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, h := newMedia(t)
			service.On("UploadImage", mock.Anything, mock.Anything).Return(grabbieldb.Image{}, tt.err)

			rec := serve(h, multipartRequest("/upload-image", []rawhttp.Part{
				{Name: "image", Filename: "a.png", Data: []byte("x")},
			}))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestMedia_UploadVideo(t *testing.T) {
	service, h := newMedia(t)
	service.On("UploadVideo", mock.Anything, mock.MatchedBy(func(up grabbieldb.VideoUpload) bool {
		return up.Filename == "clip.mp4" &&
			up.Title == "Launch" &&
			up.DurationSeconds == 90 &&
			up.ContentID == 3 &&
			up.Storage == grabbieldb.StoragePublic
	})).Return(grabbieldb.Video{ID: 9, Title: "Launch"}, nil)

	rec := serve(h, multipartRequest("/upload-video", []rawhttp.Part{
		{Name: "title", Value: "Launch"},
		{Name: "duration", Value: "90"},
		{Name: "content_id", Value: "3"},
		{Name: "video", Filename: "clip.mp4", Data: []byte("mp4")},
	}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	service.AssertExpectations(t)
}

func TestMedia_UploadVideo_BadDuration(t *testing.T) {
	service, h := newMedia(t)

	rec := serve(h, multipartRequest("/upload-video", []rawhttp.Part{
		{Name: "duration", Value: "-4"},
		{Name: "video", Filename: "clip.mp4", Data: []byte("mp4")},
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	service.AssertNotCalled(t, "UploadVideo", mock.Anything, mock.Anything)
}

func TestMedia_UploadFromFramedRequest(t *testing.T) {
	service, h := newMedia(t)
	service.On("UploadImage", mock.Anything, mock.MatchedBy(func(up grabbieldb.ImageUpload) bool {
		return up.Filename == "raw.png" && string(up.Content) == "bytes"
	})).Return(grabbieldb.Image{ID: 1}, nil)

	raw := &rawhttp.RawRequest{
		Method:   http.MethodPost,
		Path:     "/upload-image",
		Headers:  rawhttp.Headers{{Name: "content-type", Value: rawhttp.FormContentType(testBoundary)}},
		Body:     rawhttp.EncodeMultipart(testBoundary, []rawhttp.Part{{Name: "image", Filename: "raw.png", Data: []byte("bytes")}}),
		Complete: true,
	}
	req := httptest.NewRequest(http.MethodPost, "/upload-image", nil)
	req = req.WithContext(rawhttp.WithRequest(req.Context(), raw))

	rec := serve(h, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	service.AssertExpectations(t)
}

func TestMedia_Delete(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		setup     func(*MockMediaService)
		wantCode  int
		wantCalls int
	}{
		{
			name:     "missing id",
			path:     "/delete-image",
			wantCode: http.StatusSeeOther,
		},
		{
			name:     "non-numeric id",
			path:     "/delete-image?id=abc",
			wantCode: http.StatusBadRequest,
		},
		{
			name: "image deleted",
			path: "/delete-image?id=4",
			setup: func(m *MockMediaService) {
				m.On("DeleteImage", mock.Anything, int64(4)).Return(nil)
			},
			wantCode:  http.StatusSeeOther,
			wantCalls: 1,
		},
		{
			name: "unknown video",
			path: "/delete-video?id=8",
			setup: func(m *MockMediaService) {
				m.On("DeleteVideo", mock.Anything, int64(8)).Return(grabbieldb.ErrNotFound)
			},
			wantCode:  http.StatusSeeOther,
			wantCalls: 1,
		},
		{
			name: "service failure",
			path: "/delete-video?id=8",
			setup: func(m *MockMediaService) {
				m.On("DeleteVideo", mock.Anything, int64(8)).Return(fmt.Errorf("db down"))
			},
			wantCode:  http.StatusInternalServerError,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, h := newMedia(t)
			if tt.setup != nil {
				tt.setup(service)
			}

			rec := serve(h, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusSeeOther {
				assert.Equal(t, "/", rec.Header().Get("Location"))
			}
			assert.Len(t, service.Calls, tt.wantCalls)
		})
	}
}

func TestMedia_ListLimit(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", grabbielhttp.DefaultListLimit},
		{"?limit=5", 5},
		{"?limit=0", 1},
		{"?limit=500", grabbielhttp.MaxListLimit},
		{"?limit=ten", grabbielhttp.DefaultListLimit},
	}

	for _, tt := range tests {
		t.Run("images"+tt.query, func(t *testing.T) {
			service, h := newMedia(t)
			service.On("ListImages", mock.Anything, tt.want).Return([]grabbieldb.Image{{ID: 1, Filename: "a.png"}}, nil)

			rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/images"+tt.query, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			var got grabbielhttp.ImageList
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, "a.png", got.Images[0].Filename)
			service.AssertExpectations(t)
		})
	}
}

func TestMedia_ListVideos(t *testing.T) {
	service, h := newMedia(t)
	service.On("ListVideos", mock.Anything, grabbielhttp.DefaultListLimit).Return([]grabbieldb.Video{{ID: 2, Title: "Intro"}}, nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/videos", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var got grabbielhttp.VideoList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Intro", got.Videos[0].Title)
}

func TestMedia_UnknownRoutes(t *testing.T) {
	_, h := newMedia(t)

	tests := []struct {
		method   string
		path     string
		wantCode int
		wantBody string
	}{
		{http.MethodGet, "/missing", http.StatusNotFound, grabbielhttp.TextNotFound},
		{http.MethodPost, "/missing", http.StatusBadRequest, grabbielhttp.TextBadRequest},
		{http.MethodPut, "/missing", http.StatusMethodNotAllowed, grabbielhttp.TextMethodNotAllowed},
		{http.MethodDelete, "/upload-image", http.StatusMethodNotAllowed, grabbielhttp.TextMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := serve(h, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}
