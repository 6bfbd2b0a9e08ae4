package logger

import (
	"fmt"
	"strings"
)

// maxLogValue bounds one sanitized value. Encoder stderr can run to megabytes.
const maxLogValue = 2048

// SanitizeForLog makes an untrusted string safe to embed in a log line.
// C0 and C1 control characters and the Unicode line separators are escaped,
// printable Unicode passes through, and long values are cut.
func SanitizeForLog(s string) string {
	var b strings.Builder
	b.Grow(min(len(s), maxLogValue))

	for _, r := range s {
		if b.Len() >= maxLogValue {
			b.WriteString("...(truncated)")
			break
		}
		switch {
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20, r == 0x7f, r >= 0x80 && r < 0xa0:
			fmt.Fprintf(&b, `\x%02x`, r)
		case r == '\u2028', r == '\u2029':
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
