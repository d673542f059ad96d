// Package server owns the listening socket of the admin and media
// applications.
//
// Every connection carries exactly one request. The request is framed with
// rawhttp.Framer, adapted to a *http.Request whose context holds the
// *rawhttp.RawRequest, and handed to an http.Handler. The handler output is
// buffered and written back as a single HTTP/1.1 response with
// Connection: close, after which the connection is closed.
//
// Framing failures map to responses as follows:
//
//	incomplete headers        connection closed, nothing written
//	invalid Content-Length    400
//	header block too large    431
//	Content-Length too large  413
//	truncated body            dispatched only with Config.AllowTruncated
package server
