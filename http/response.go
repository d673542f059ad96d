package http

import (
	"errors"
	"log/slog"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/grabbiel/grabbieldb"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errCode,
		Message: message,
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError writes appropriate error response based on error type
func HandleError(w http.ResponseWriter, err error) {
	slog.Error("request error", "error", err)

	switch {
	case errors.Is(err, grabbieldb.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "Not found")
	case errors.Is(err, grabbieldb.ErrInvalidInput), errors.Is(err, ErrNotMultipart):
		WriteError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, grabbieldb.ErrUploadFailed), errors.Is(err, grabbieldb.ErrDeleteFailed):
		WriteError(w, http.StatusBadGateway, "storage_failed", "Object storage failed")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, err = w.Write(append(body, '\n'))
	return err
}
