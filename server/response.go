package server

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// responseWriter buffers a handler's output so that Content-Length is
// known when the head is written.
type responseWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newResponseWriter() *responseWriter {
	return &responseWriter{header: make(http.Header)}
}

func (w *responseWriter) Header() http.Header {
	return w.header
}

func (w *responseWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
}

func (w *responseWriter) Write(p []byte) (int, error) {
	w.WriteHeader(http.StatusOK)
	return w.body.Write(p)
}

func (w *responseWriter) reset() {
	w.header = make(http.Header)
	w.status = 0
	w.body.Reset()
}

func (w *responseWriter) writeTo(dst io.Writer, head bool) error {
	status := w.status
	if status == 0 {
		status = http.StatusOK
	}

	body := w.body.Bytes()
	if !bodyAllowed(status) {
		body = nil
	}

	h := w.header.Clone()
	h.Del("Transfer-Encoding")
	h.Set("Content-Length", strconv.Itoa(len(body)))
	h.Set("Connection", "close")
	if h.Get("Date") == "" {
		h.Set("Date", time.Now().UTC().Format(http.TimeFormat))
	}
	if _, ok := h["Content-Type"]; !ok && len(body) > 0 {
		h.Set("Content-Type", http.DetectContentType(body))
	}

	bw := bufio.NewWriter(dst)
	fmt.Fprintf(bw, "HTTP/1.1 %03d %s\r\n", status, http.StatusText(status))
	if err := h.Write(bw); err != nil {
		return err
	}
	_, _ = bw.WriteString("\r\n")
	if !head {
		_, _ = bw.Write(body)
	}

	return bw.Flush()
}

func bodyAllowed(status int) bool {
	switch {
	case status >= 100 && status <= 199:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}

// writeStatusText writes the "<code> - <reason>" page used for errors
// raised before a handler runs.
func writeStatusText(w http.ResponseWriter, code int) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = fmt.Fprintf(w, "%d - %s", code, http.StatusText(code))
}
