package rawhttp

import "errors"

var (
	// ErrIncompleteHeaders is returned when the stream ends before the
	// header block terminator was received.
	ErrIncompleteHeaders = errors.New("incomplete headers")
	// ErrInvalidContentLength is returned when Content-Length is not a
	// non-negative integer.
	ErrInvalidContentLength = errors.New("invalid content length")
	// ErrTruncatedBody is returned together with the partial request when
	// the stream ends before Content-Length body bytes arrived.
	ErrTruncatedBody = errors.New("truncated body")
	// ErrBodyTooLarge is returned when Content-Length exceeds the configured maximum.
	ErrBodyTooLarge = errors.New("body too large")
	// ErrHeadersTooLarge is returned when the header block exceeds the configured maximum.
	ErrHeadersTooLarge = errors.New("headers too large")
)
