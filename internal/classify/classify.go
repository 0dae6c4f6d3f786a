// Package classify implements the per-line content region classifier used by
// the verifier. It is pure: no I/O, no clocks, no shared state.
package classify

import "strings"

// Region markers. Matching is line-oriented and deliberately crude; parsing
// MIME or HTML for real would change which lines count as searchable text.
const (
	encodedStartMarker = "content-transfer-encoding: base64"
	boundaryPrefix     = "--"
	markupOpenToken    = "<html"
	markupCloseToken   = "</html"
)

// State tracks which region of a message the current line falls in. A fresh
// zero value is the Plain state; one State serves exactly one file and is
// never shared.
type State struct {
	InEncoded bool
	InMarkup  bool
}

// Step advances the state with the next raw line and reports whether the line
// is suppressed: excluded from term matching and from date/attachment
// extraction. Rules apply in strict precedence order; at most one fires per
// line.
func (s *State) Step(line string) (suppressed bool) {
	lower := strings.ToLower(line)

	switch {
	case strings.HasPrefix(lower, encodedStartMarker):
		s.InEncoded = true
		return true
	case s.InEncoded && strings.HasPrefix(line, boundaryPrefix):
		// The boundary line closes the encoded block but is not content.
		s.InEncoded = false
		return true
	case strings.Contains(lower, markupOpenToken):
		s.InMarkup = true
		return true
	case strings.Contains(lower, markupCloseToken):
		s.InMarkup = false
		return true
	case s.InEncoded || s.InMarkup:
		return true
	}
	return false
}
