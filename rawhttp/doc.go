// Package rawhttp frames HTTP/1.x requests read directly from a byte stream
// and decodes multipart/form-data bodies.
//
// The package has three pieces:
//
//   - Framer: reads a header block terminated by CRLFCRLF and exactly
//     Content-Length body bytes, one request per stream.
//   - ExtractContentType: pulls the media type and boundary parameter out of
//     the Content-Type header.
//   - Decoder: a lenient multipart decoder that drops malformed parts instead
//     of failing the whole form.
//
// Chunked transfer encoding, pipelining and keep-alive are not supported.
//
// # Example Usage
//
//	req, err := rawhttp.Framer{MaxBodyBytes: 32 << 20}.ReadRequest(conn)
//	if err != nil {
//	    return err
//	}
//
//	ct, ok := rawhttp.ExtractContentType(req.Headers)
//	if boundary, isMultipart := ct.MultipartBoundary(); ok && isMultipart {
//	    form := rawhttp.DecodeMultipart(req.Body, boundary)
//	    title := form.Value("title")
//	}
package rawhttp
