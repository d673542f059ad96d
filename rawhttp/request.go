package rawhttp

import (
	"net/url"
	"strings"
)

// Header is a single header line split on its first colon.
type Header struct {
	Name  string
	Value string
}

// Headers keeps header lines in arrival order. Duplicates are preserved;
// lookups are case-insensitive.
type Headers []Header

// Get returns the value of the first header matching name.
func (h Headers) Get(name string) string {
	v, _ := h.Lookup(name)
	return v
}

// Lookup is like Get but also reports whether the header was present.
func (h Headers) Lookup(name string) (string, bool) {
	for _, hdr := range h {
		if strings.EqualFold(hdr.Name, name) {
			return hdr.Value, true
		}
	}

	return "", false
}

// Values returns every value sent for name, in order.
func (h Headers) Values(name string) []string {
	var values []string
	for _, hdr := range h {
		if strings.EqualFold(hdr.Name, name) {
			values = append(values, hdr.Value)
		}
	}

	return values
}

// RawRequest is one framed request. Body holds exactly Content-Length bytes
// when Complete is true. A request returned alongside ErrTruncatedBody has
// Complete set to false and carries whatever body bytes arrived.
type RawRequest struct {
	Method   string
	Path     string
	Proto    string
	Headers  Headers
	Body     []byte
	Complete bool
}

// RequestPath returns Path without its query component.
func (r *RawRequest) RequestPath() string {
	p, _, _ := strings.Cut(r.Path, "?")
	return p
}

// Query decodes the query component of Path. Malformed pairs are dropped.
func (r *RawRequest) Query() url.Values {
	_, raw, found := strings.Cut(r.Path, "?")
	if !found {
		return url.Values{}
	}

	values, _ := url.ParseQuery(raw)
	return values
}
