package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/grabbiel/grabbieldb"
	"github.com/grabbiel/grabbieldb/rawhttp"
)

const mediaTypeURLEncoded = "application/x-www-form-urlencoded"

// requestBody returns the framed body when the request came through the raw
// server and reads r.Body otherwise.
func requestBody(r *http.Request) ([]byte, error) {
	if raw, ok := rawhttp.FromContext(r.Context()); ok {
		return raw.Body, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func requestContentType(r *http.Request) rawhttp.ContentType {
	if raw, ok := rawhttp.FromContext(r.Context()); ok {
		ct, _ := rawhttp.ExtractContentType(raw.Headers)
		return ct
	}
	return rawhttp.ParseContentType(r.Header.Get("Content-Type"))
}

// multipartForm decodes a multipart/form-data body. Decoder diagnostics go
// to the request logger.
func multipartForm(r *http.Request) (*rawhttp.Form, error) {
	boundary, ok := requestContentType(r).MultipartBoundary()
	if !ok {
		return nil, ErrNotMultipart
	}

	body, err := requestBody(r)
	if err != nil {
		return nil, err
	}

	log := LoggerFrom(r.Context())
	form := rawhttp.Decoder{Logger: log}.Decode(body, boundary)
	if form.Skipped > 0 {
		log.Warn("multipart parts skipped", "skipped", form.Skipped, "parts", len(form.Parts))
	}

	return form, nil
}

// formFields returns the text fields of a multipart or urlencoded body.
// File parts and their filename fields are left out.
func formFields(r *http.Request) (map[string]string, error) {
	ct := requestContentType(r)

	switch ct.MediaType {
	case rawhttp.MediaTypeMultipartForm:
		form, err := multipartForm(r)
		if err != nil {
			return nil, err
		}

		fields := make(map[string]string, len(form.Parts))
		for name, part := range form.Parts {
			if !part.IsFile() {
				fields[name] = part.Value
			}
		}
		for name, part := range form.Parts {
			if part.IsFile() {
				delete(fields, name+rawhttp.FilenameSuffix)
			}
		}
		return fields, nil

	case mediaTypeURLEncoded, "":
		body, err := requestBody(r)
		if err != nil {
			return nil, err
		}

		values, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", grabbieldb.ErrInvalidInput, err)
		}

		fields := make(map[string]string, len(values))
		for name := range values {
			fields[name] = values.Get(name)
		}
		return fields, nil

	default:
		return nil, fmt.Errorf("%w: unsupported content type %q", grabbieldb.ErrInvalidInput, ct.MediaType)
	}
}

// parseInt parses an optional integer field. Empty means def.
func parseInt(field, s string, def int64) (int64, error) {
	if s == "" {
		return def, nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", grabbieldb.ErrInvalidInput, field)
	}
	return n, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func validationError(log *slog.Logger, err error) error {
	log.Debug("form validation failed", "error", err)
	return fmt.Errorf("%w: %w", grabbieldb.ErrInvalidInput, err)
}
