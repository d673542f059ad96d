package http

import (
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/grabbiel/grabbieldb"
)

// Plain text bodies of the HTML servers' error pages.
const (
	TextBadRequest       = "400 - Bad Request"
	TextNotFound         = "404 - Page not found"
	TextMethodNotAllowed = "405 - Method Not Allowed"
	TextInternalError    = "500 - Internal Server Error"
)

func writeText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, body)
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusNotFound, TextNotFound)
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusMethodNotAllowed, TextMethodNotAllowed)
}

// writePageError answers an HTML route with the text page matching err.
func writePageError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, grabbieldb.ErrNotFound):
		writeText(w, http.StatusNotFound, TextNotFound)
	case errors.Is(err, grabbieldb.ErrInvalidInput), errors.Is(err, ErrNotMultipart):
		LoggerFrom(r.Context()).Warn("bad request", "error", err)
		writeText(w, http.StatusBadRequest, TextBadRequest)
	default:
		LoggerFrom(r.Context()).Error("request failed", "error", err)
		writeText(w, http.StatusInternalServerError, TextInternalError)
	}
}

func seeOther(w http.ResponseWriter, location string) {
	w.Header().Set("Location", location)
	w.WriteHeader(http.StatusSeeOther)
}

func tableLocation(table string) string {
	return "/table?name=" + url.QueryEscape(table)
}
