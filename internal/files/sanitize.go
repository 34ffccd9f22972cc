package files

import (
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
var repeatedUnderscores = regexp.MustCompile(`_+`)

// SanitizeName reduces an applicant name to a filesystem-safe directory
// component: alphanumerics, spaces, hyphens, and underscores survive;
// trailing whitespace is stripped.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), " \t")
}

// SecureFilename reduces an uploaded filename to a safe basename: path
// separators and parent references are dropped, anything outside
// [A-Za-z0-9_.-] becomes an underscore.
func SecureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = repeatedUnderscores.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "file"
	}
	return name
}
