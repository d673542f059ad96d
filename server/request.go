package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/grabbiel/grabbieldb/rawhttp"
)

var errMalformedRequestLine = errors.New("malformed request line")

// newRequest adapts a framed request. The body reader and the RawRequest in
// the context share the same bytes.
func newRequest(ctx context.Context, raw *rawhttp.RawRequest, remoteAddr string) (*http.Request, error) {
	if raw.Method == "" || raw.Path == "" {
		return nil, fmt.Errorf("%w: %q", errMalformedRequestLine, raw.Method)
	}

	u, err := url.ParseRequestURI(raw.Path)
	if err != nil {
		return nil, fmt.Errorf("parse request target: %w", err)
	}

	major, minor, ok := http.ParseHTTPVersion(raw.Proto)
	if !ok {
		major, minor = 1, 1
	}

	header := make(http.Header, len(raw.Headers))
	for _, h := range raw.Headers {
		header.Add(h.Name, h.Value)
	}

	req := &http.Request{
		Method:        raw.Method,
		URL:           u,
		Proto:         fmt.Sprintf("HTTP/%d.%d", major, minor),
		ProtoMajor:    major,
		ProtoMinor:    minor,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(raw.Body)),
		ContentLength: int64(len(raw.Body)),
		Host:          raw.Headers.Get("Host"),
		RemoteAddr:    remoteAddr,
		RequestURI:    raw.Path,
		Close:         true,
	}

	return req.WithContext(rawhttp.WithRequest(ctx, raw)), nil
}
