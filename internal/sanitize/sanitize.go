// Package sanitize cleans strings before they are stored in extraction
// results or written into PDF form fields.
package sanitize

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxFieldLength is the maximum length of any sanitized value,
	// counted in characters.
	MaxFieldLength = 1000

	// MaxFilenameLength is the maximum length of a sanitized filename.
	MaxFilenameLength = 255
)

// String sanitizes a value for storage or PDF form injection.
// Null bytes are removed, the value is truncated to MaxFieldLength,
// and control characters other than newline and tab are stripped.
// Printable ASCII and all codepoints >= 128 pass through unchanged.
func String(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")

	// Truncation counts characters, not bytes; a byte slice could split
	// a multibyte rune at the cap.
	if len(s) > MaxFieldLength && utf8.RuneCountInString(s) > MaxFieldLength {
		s = string([]rune(s)[:MaxFieldLength])
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' || (r >= 32 && r <= 126) || r >= 128 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var unsafeFilenameChars = regexp.MustCompile(`[<>:"|?*]`)

// Filename sanitizes a filename for safe filesystem use. Path separators
// and null bytes are removed, problematic characters replaced, and the
// result is capped at MaxFilenameLength while preserving the extension.
func Filename(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "\x00", "")
	name = unsafeFilenameChars.ReplaceAllString(name, "_")

	if len(name) > MaxFilenameLength {
		ext := filepath.Ext(name)
		if ext != "" && len(ext) < MaxFilenameLength {
			name = name[:MaxFilenameLength-len(ext)] + ext
		} else {
			name = name[:MaxFilenameLength]
		}
	}

	if strings.TrimSpace(name) == "" {
		name = "unnamed_file"
	}

	return name
}

var absPathPattern = regexp.MustCompile(`(/[^\s"]+|[A-Z]:\\[^\s"]+)`)

// ErrorMessage redacts absolute paths from an error message so that log
// output and user-facing errors do not leak filesystem layout.
func ErrorMessage(msg string) string {
	return absPathPattern.ReplaceAllStringFunc(msg, func(p string) string {
		base := p[strings.LastIndex(p, "/")+1:]
		if strings.Contains(base, ".") {
			return "<file:" + base + ">"
		}
		return "<path>"
	})
}
