package rawhttp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultBufferSize is the size of a single read from the source.
	DefaultBufferSize = 65536
	// DefaultMaxHeaderBytes bounds the header block when Framer.MaxHeaderBytes is zero.
	DefaultMaxHeaderBytes = 64 << 10
)

var headerTerminator = []byte("\r\n\r\n")

type readDeadliner interface {
	SetReadDeadline(t time.Time) error
}

// Framer reads one request from a byte stream. The zero value is usable:
// no body limit, no read deadline, DefaultMaxHeaderBytes, DefaultBufferSize.
type Framer struct {
	// MaxHeaderBytes bounds the header block including the request line.
	MaxHeaderBytes int
	// MaxBodyBytes rejects larger Content-Length values. Zero means unlimited.
	MaxBodyBytes int64
	// ReadTimeout is armed before every read when the source supports
	// SetReadDeadline (net.Conn does).
	ReadTimeout time.Duration
	// BufferSize is the maximum number of bytes requested per read.
	BufferSize int
}

// ReadRequest reads the header block and then exactly Content-Length body
// bytes from src. Bytes after the body are never consumed.
//
// On ErrTruncatedBody the partially filled request is returned as well, with
// Complete set to false.
func (f Framer) ReadRequest(src io.Reader) (*RawRequest, error) {
	chunk := make([]byte, f.bufferSize())

	var (
		buf       []byte
		scanned   int
		headerEnd = -1
		readErr   error
	)

	for headerEnd < 0 {
		n, err := f.read(src, chunk)
		buf = append(buf, chunk[:n]...)

		// the terminator may straddle two reads
		from := max(scanned-len(headerTerminator)+1, 0)
		if i := bytes.Index(buf[from:], headerTerminator); i >= 0 {
			headerEnd = from + i
			readErr = err
			break
		}
		scanned = len(buf)

		if len(buf) > f.maxHeaderBytes() {
			return nil, ErrHeadersTooLarge
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrIncompleteHeaders
			}
			return nil, fmt.Errorf("%w: %w", ErrIncompleteHeaders, err)
		}
	}

	if headerEnd > f.maxHeaderBytes() {
		return nil, ErrHeadersTooLarge
	}

	req := parseHead(buf[:headerEnd])

	length, err := contentLength(req.Headers)
	if err != nil {
		return nil, err
	}

	if f.MaxBodyBytes > 0 && length > f.MaxBodyBytes {
		return nil, fmt.Errorf("%w: %d > %d", ErrBodyTooLarge, length, f.MaxBodyBytes)
	}

	rest := buf[headerEnd+len(headerTerminator):]
	if int64(len(rest)) > length {
		rest = rest[:length]
	}

	body := make([]byte, 0, min(length, int64(len(rest)+len(chunk))))
	body = append(body, rest...)

	for int64(len(body)) < length && readErr == nil {
		want := min(length-int64(len(body)), int64(len(chunk)))
		n, err := f.read(src, chunk[:want])
		body = append(body, chunk[:n]...)
		readErr = err
	}

	req.Body = body
	req.Complete = int64(len(body)) == length

	if !req.Complete {
		if readErr == nil || errors.Is(readErr, io.EOF) {
			return req, fmt.Errorf("%w: got %d of %d bytes", ErrTruncatedBody, len(body), length)
		}
		return req, fmt.Errorf("%w: got %d of %d bytes: %w", ErrTruncatedBody, len(body), length, readErr)
	}

	return req, nil
}

func (f Framer) read(src io.Reader, p []byte) (int, error) {
	if f.ReadTimeout > 0 {
		if d, ok := src.(readDeadliner); ok {
			if err := d.SetReadDeadline(time.Now().Add(f.ReadTimeout)); err != nil {
				return 0, err
			}
		}
	}

	n, err := src.Read(p)
	if n == 0 && err == nil {
		// a reader that returns nothing without an error would spin forever
		return 0, io.ErrNoProgress
	}

	return n, err
}

func (f Framer) bufferSize() int {
	if f.BufferSize > 0 {
		return f.BufferSize
	}

	return DefaultBufferSize
}

func (f Framer) maxHeaderBytes() int {
	if f.MaxHeaderBytes > 0 {
		return f.MaxHeaderBytes
	}

	return DefaultMaxHeaderBytes
}

// parseHead splits the request line and header lines. It is lenient: a line
// without a colon is ignored and a request line without spaces becomes the
// method.
func parseHead(head []byte) *RawRequest {
	req := &RawRequest{}

	line, rest, _ := bytes.Cut(head, []byte("\r\n"))
	req.Method, req.Path, req.Proto = parseRequestLine(string(line))

	for len(rest) > 0 {
		line, rest, _ = bytes.Cut(rest, []byte("\r\n"))

		name, value, found := bytes.Cut(line, []byte(":"))
		if !found {
			continue
		}

		req.Headers = append(req.Headers, Header{
			Name:  string(name),
			Value: strings.TrimLeft(string(value), " \t"),
		})
	}

	return req
}

func parseRequestLine(line string) (method, path, proto string) {
	method, target, found := strings.Cut(line, " ")
	if !found {
		return method, "", ""
	}

	path, proto, _ = strings.Cut(target, " ")
	return method, path, proto
}

func contentLength(h Headers) (int64, error) {
	raw, ok := h.Lookup("Content-Length")
	if !ok {
		return 0, nil
	}

	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidContentLength, raw)
	}

	return n, nil
}
