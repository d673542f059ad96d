package grabbieldb

import (
	"strings"
	"unicode/utf8"
)

// IsValidFilename validates an uploaded file name before it is used as a
// spool file name and as the last segment of an object path.
// It checks that the name:
//   - is not empty, "." or ".."
//   - is at most 255 bytes
//   - contains no path separators (/ or \)
//   - does not contain ".." (path traversal)
//   - contains none of # ? * [ ] (URL fragments and bucket CLI wildcards)
//   - is valid UTF-8
//   - contains no null bytes, control characters (< 0x20) or DEL (0x7f)
//   - does not start with "-" (would be read as a CLI flag)
//
// Spaces are allowed.
func IsValidFilename(name string) bool {
	if name == "" || name == "." || name == ".." || len(name) > 255 {
		return false
	}

	if strings.ContainsAny(name, `/\#?*[]`) {
		return false
	}

	if strings.Contains(name, "..") {
		return false
	}

	if name[0] == '-' {
		return false
	}

	if !utf8.ValidString(name) {
		return false
	}

	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}

	return true
}

// hasGCSScheme reports whether a stored location points at a bucket object
// rather than at a public URL.
func hasGCSScheme(location string) bool {
	return strings.HasPrefix(location, "gs://")
}
