package http_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/grabbiel/grabbieldb"
	grabbielhttp "github.com/grabbiel/grabbieldb/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"not found", grabbieldb.ErrNotFound, http.StatusNotFound, "not_found"},
		{"wrapped not found", fmt.Errorf("describe: %w", grabbieldb.ErrNotFound), http.StatusNotFound, "not_found"},
		{"invalid input", grabbieldb.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
		{"not multipart", grabbielhttp.ErrNotMultipart, http.StatusBadRequest, "invalid_input"},
		{"upload failed", grabbieldb.ErrUploadFailed, http.StatusBadGateway, "storage_failed"},
		{"internal", errors.New("some unexpected error"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			grabbielhttp.HandleError(rec, tt.err)

			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}

func TestWriteError_Success(t *testing.T) {
	rec := httptest.NewRecorder()

	grabbielhttp.WriteError(rec, http.StatusBadRequest, "bad_request", "Invalid request")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"error":"bad_request"`)
	assert.Contains(t, rec.Body.String(), `"message":"Invalid request"`)
}

func TestWriteJSON_Success(t *testing.T) {
	rec := httptest.NewRecorder()

	err := grabbielhttp.WriteJSON(rec, http.StatusOK, map[string]string{"key": "value"})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"key":"value"`)
}

func TestWriteJSON_EncodingError(t *testing.T) {
	rec := httptest.NewRecorder()

	err := grabbielhttp.WriteJSON(rec, http.StatusOK, make(chan int))

	assert.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
