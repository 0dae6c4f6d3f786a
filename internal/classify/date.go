package classify

import (
	"net/mail"
	"strings"
	"time"
)

// dateHeaderPrefix identifies the header line the message date is taken from.
// Only the first such line in a file is consulted.
const dateHeaderPrefix = "date:"

// IsDateHeader reports whether the line is a Date header, case-insensitively.
func IsDateHeader(line string) bool {
	return strings.HasPrefix(strings.ToLower(line), dateHeaderPrefix)
}

// DateHeaderValue strips the header name from a Date header line.
func DateHeaderValue(line string) string {
	return strings.TrimSpace(line[len(dateHeaderPrefix):])
}

// fallback layouts for headers net/mail rejects; parsed as UTC since they
// carry no zone.
var bareLayouts = []string{
	"Mon, 2 Jan 2006 15:04:05",
	"2 Jan 2006 15:04:05",
	"Mon, 2 Jan 2006 15:04",
	"2 Jan 2006 15:04",
}

// ParseDate parses an RFC 2822 style date string into a UTC instant.
// Malformed input yields ok=false rather than an error: a bad date must
// never sink the rest of a file's verification.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := mail.ParseDate(s); err == nil {
		return t.UTC(), true
	}
	for _, layout := range bareLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// HasAttachmentEvidence reports whether the line suggests the message carries
// an attachment: an explicit attachment disposition, or a content type with a
// name parameter. Heuristic only; one hit marks the whole file.
func HasAttachmentEvidence(line string) bool {
	lower := strings.ToLower(line)
	if strings.Contains(lower, "content-disposition:") && strings.Contains(lower, "attachment") {
		return true
	}
	return strings.Contains(lower, "content-type:") && strings.Contains(lower, "name=")
}
