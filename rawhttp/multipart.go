package rawhttp

import (
	"bytes"
	"io"
	"log/slog"
	"sort"
)

// FilenameSuffix is appended to a file part's name to form the companion
// field holding its filename.
const FilenameSuffix = "_filename"

var (
	crlf      = []byte("\r\n")
	dashDash  = []byte("--")
	nameAttr  = []byte(`name="`)
	fileAttr  = []byte(`filename="`)
	quoteChar = byte('"')
)

// Part is one decoded multipart segment. A part is a file when Filename is
// non-empty; otherwise Value holds the field content.
//
// Data of a file part aliases the decoded body.
type Part struct {
	Name     string
	Value    string
	Filename string
	Data     []byte
}

// IsFile reports whether the part carried a non-empty filename attribute.
func (p Part) IsFile() bool {
	return p.Filename != ""
}

// Form maps part names to parts. A later part overwrites an earlier one with
// the same name. Each file part also records a field named
// name + FilenameSuffix holding the filename.
type Form struct {
	Parts map[string]Part
	// Skipped counts parts dropped because they had no header/body separator
	// or were cut off by a missing closing delimiter.
	Skipped int
}

// Value returns the value of a non-file part, or "".
func (f *Form) Value(name string) string {
	p, ok := f.Parts[name]
	if !ok || p.IsFile() {
		return ""
	}

	return p.Value
}

// Lookup returns the value of a non-file part and whether it exists.
func (f *Form) Lookup(name string) (string, bool) {
	p, ok := f.Parts[name]
	if !ok || p.IsFile() {
		return "", false
	}

	return p.Value, true
}

// File returns the file part stored under name.
func (f *Form) File(name string) (Part, bool) {
	p, ok := f.Parts[name]
	if !ok || !p.IsFile() {
		return Part{}, false
	}

	return p, true
}

// Filename returns the filename recorded for the file part name.
func (f *Form) Filename(name string) string {
	return f.Value(name + FilenameSuffix)
}

// Names returns the part names in sorted order.
func (f *Form) Names() []string {
	names := make([]string, 0, len(f.Parts))
	for name := range f.Parts {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Decoder decodes multipart/form-data bodies. It never fails: malformed parts
// are dropped, counted in Form.Skipped and reported to Logger.
type Decoder struct {
	Logger *slog.Logger
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// DecodeMultipart decodes body with a Decoder that discards diagnostics.
func DecodeMultipart(body []byte, boundary string) *Form {
	return Decoder{Logger: discardLogger}.Decode(body, boundary)
}

// Decode splits body on "--" + boundary and decodes every part up to the
// terminal delimiter. Decoding stops when a part has no closing delimiter.
func (d Decoder) Decode(body []byte, boundary string) *Form {
	log := d.Logger
	if log == nil {
		log = discardLogger
	}

	form := &Form{Parts: make(map[string]Part)}
	delim := append([]byte("--"), boundary...)

	log.Debug("decoding multipart body", "boundary", boundary, "size", len(body))

	s := scanner{data: body}
	if !s.skipTo(delim) {
		log.Debug("no delimiter in multipart body")
		return form
	}

	for {
		s.advance(len(delim))

		if s.consume(dashDash) {
			break
		}
		s.consume(crlf)

		end := s.index(delim)
		if end < 0 {
			form.Skipped++
			log.Warn("multipart part has no closing delimiter, input may be truncated",
				"offset", s.pos)
			break
		}

		segment := s.advance(end)
		part, ok := decodePart(segment)
		if !ok {
			form.Skipped++
			log.Warn("dropping multipart part without header separator", "offset", s.pos-end)
			continue
		}

		if part.IsFile() {
			log.Debug("decoded multipart file", "name", part.Name, "filename", part.Filename,
				"size", len(part.Data))
			form.Parts[part.Name] = part
			form.Parts[part.Name+FilenameSuffix] = Part{
				Name:  part.Name + FilenameSuffix,
				Value: part.Filename,
			}
			continue
		}

		log.Debug("decoded multipart field", "name", part.Name, "size", len(part.Value))
		form.Parts[part.Name] = part
	}

	log.Debug("decoded multipart body", "parts", len(form.Parts), "skipped", form.Skipped)

	return form
}

func decodePart(segment []byte) (Part, bool) {
	headerEnd := bytes.Index(segment, headerTerminator)
	if headerEnd < 0 {
		return Part{}, false
	}

	headers := segment[:headerEnd]
	content := segment[headerEnd+len(headerTerminator):]
	content = bytes.TrimSuffix(content, crlf)

	part := Part{
		Name:     string(attribute(headers, nameAttr)),
		Filename: string(attribute(headers, fileAttr)),
	}

	if part.Filename != "" {
		part.Data = content
		return part, true
	}

	part.Value = string(content)
	return part, true
}

// attribute returns the quoted value following key in headers. The key must
// not be preceded by a letter, so name=" never matches inside filename=".
// A value without a closing quote runs to the end of headers.
func attribute(headers, key []byte) []byte {
	offset := 0
	for {
		i := bytes.Index(headers[offset:], key)
		if i < 0 {
			return nil
		}
		i += offset

		if i > 0 && isLetter(headers[i-1]) {
			offset = i + len(key)
			continue
		}

		value := headers[i+len(key):]
		if end := bytes.IndexByte(value, quoteChar); end >= 0 {
			value = value[:end]
		}

		return value
	}
}

func isLetter(c byte) bool {
	return (c|0x20) >= 'a' && (c|0x20) <= 'z'
}

// scanner is a cursor over a byte slice. It never copies.
type scanner struct {
	data []byte
	pos  int
}

func (s *scanner) rest() []byte {
	return s.data[s.pos:]
}

// index returns the offset of sub relative to the cursor, or -1.
func (s *scanner) index(sub []byte) int {
	return bytes.Index(s.rest(), sub)
}

func (s *scanner) skipTo(sub []byte) bool {
	i := s.index(sub)
	if i < 0 {
		return false
	}
	s.pos += i

	return true
}

func (s *scanner) advance(n int) []byte {
	seg := s.data[s.pos : s.pos+n]
	s.pos += n

	return seg
}

func (s *scanner) consume(prefix []byte) bool {
	if !bytes.HasPrefix(s.rest(), prefix) {
		return false
	}
	s.pos += len(prefix)

	return true
}
