package http

import "errors"

// ErrNotMultipart is returned when an upload is not multipart/form-data
// with a boundary.
var ErrNotMultipart = errors.New("not a multipart form")
