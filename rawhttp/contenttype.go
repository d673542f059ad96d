package rawhttp

import "strings"

// MediaTypeMultipartForm is the only multipart flavour the decoder accepts.
const MediaTypeMultipartForm = "multipart/form-data"

// ContentType is the parsed Content-Type header.
//
// HasBoundary distinguishes a missing boundary parameter from one that is
// present but empty.
type ContentType struct {
	MediaType   string
	Boundary    string
	HasBoundary bool
}

// ExtractContentType parses the first Content-Type header. It reports false
// when the header is absent.
func ExtractContentType(h Headers) (ContentType, bool) {
	raw, ok := h.Lookup("Content-Type")
	if !ok {
		return ContentType{}, false
	}

	return ParseContentType(raw), true
}

// ParseContentType splits a Content-Type value into its media type and the
// boundary parameter. One pair of surrounding double quotes is stripped from
// the boundary. Other parameters are ignored.
func ParseContentType(value string) ContentType {
	mediaType, params, _ := strings.Cut(value, ";")
	ct := ContentType{MediaType: strings.ToLower(strings.TrimSpace(mediaType))}

	for params != "" {
		var param string
		param, params, _ = strings.Cut(params, ";")

		key, val, found := strings.Cut(strings.TrimSpace(param), "=")
		if !found || !strings.EqualFold(strings.TrimSpace(key), "boundary") {
			continue
		}

		ct.Boundary = unquote(strings.TrimSpace(val))
		ct.HasBoundary = true
		break
	}

	return ct
}

// MultipartBoundary returns the boundary when the content type is
// multipart/form-data and the boundary is non-empty.
func (ct ContentType) MultipartBoundary() (string, bool) {
	if ct.MediaType != MediaTypeMultipartForm || ct.Boundary == "" {
		return "", false
	}

	return ct.Boundary, true
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}

	return s
}
