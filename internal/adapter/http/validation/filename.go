package validation

import (
	"path"
	"strings"
	"unicode/utf8"
)

const maxFilenameLength = 255

// SanitizeFilename turns a client supplied name into a safe display name.
// Directory components are dropped, control characters and separators
// become underscores, and the result is capped at 255 bytes with the
// extension kept.
func SanitizeFilename(name string) string {
	// Browsers on Windows may send a full path.
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))

	name = strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == 0x7F, r == utf8.RuneError:
			return '_'
		case r == '"', r == '/', r == '\\', r == ':':
			return '_'
		}
		return r
	}, name)

	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.Trim(name, "_") == "" {
		return "file"
	}
	if len(name) > maxFilenameLength {
		name = truncateKeepingExt(name)
	}
	return name
}

func truncateKeepingExt(name string) string {
	ext := path.Ext(name)
	if ext == "" || len(ext) >= maxFilenameLength/2 {
		return truncateUTF8(name, maxFilenameLength)
	}
	return truncateUTF8(strings.TrimSuffix(name, ext), maxFilenameLength-len(ext)) + ext
}

// truncateUTF8 cuts s to at most n bytes on a rune boundary.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
