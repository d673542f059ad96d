package rawhttp

import (
	"bytes"
	"fmt"
	"strings"
)

// EncodeMultipart builds a multipart/form-data body from parts, in order.
// File parts are sent as application/octet-stream.
func EncodeMultipart(boundary string, parts []Part) []byte {
	var buf bytes.Buffer

	for _, p := range parts {
		buf.WriteString("--")
		buf.WriteString(boundary)
		buf.WriteString("\r\n")

		if p.IsFile() {
			fmt.Fprintf(&buf, "Content-Disposition: form-data; name=\"%s\"; filename=\"%s\"\r\n",
				escapeQuotes(p.Name), escapeQuotes(p.Filename))
			buf.WriteString("Content-Type: application/octet-stream\r\n\r\n")
			buf.Write(p.Data)
		} else {
			fmt.Fprintf(&buf, "Content-Disposition: form-data; name=\"%s\"\r\n\r\n", escapeQuotes(p.Name))
			buf.WriteString(p.Value)
		}

		buf.WriteString("\r\n")
	}

	buf.WriteString("--")
	buf.WriteString(boundary)
	buf.WriteString("--\r\n")

	return buf.Bytes()
}

// FormContentType returns the Content-Type header value for boundary.
func FormContentType(boundary string) string {
	return MediaTypeMultipartForm + "; boundary=" + boundary
}

// escapeQuotes replaces characters the decoder cannot carry inside a quoted
// attribute value.
func escapeQuotes(s string) string {
	return strings.NewReplacer(`"`, "%22", "\r", "%0D", "\n", "%0A").Replace(s)
}
