// Package verify implements the precise per-file verification pass that
// confirms or rejects prefilter candidates.
package verify

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/HectorTTL/mailsift/internal/classify"
	"github.com/HectorTTL/mailsift/internal/model"
)

// tickEvery is the line cadence at which the liveness callback fires, so a
// single huge file does not starve the spinner.
const tickEvery = 800

// Verifier scans candidate files line by line, classifying regions and
// extracting the date and attachment evidence along the way.
type Verifier struct {
	// Tick, when non-nil, is invoked every tickEvery lines as a pure
	// liveness signal. It must not block.
	Tick func()
}

// fileScan holds the transient state of one file's verification. Created per
// call, never shared.
type fileScan struct {
	state     classify.State
	dateTried bool
	res       model.VerificationResult
}

// Verify scans one file for the term. It never returns an error: any I/O
// failure degrades to a non-matching result, since a vanished or unreadable
// candidate should not abort the batch.
func (v *Verifier) Verify(path string, term model.SearchTerm) model.VerificationResult {
	f, err := os.Open(path)
	if err != nil {
		return model.VerificationResult{Path: path}
	}
	defer func() { _ = f.Close() }()

	needle := term.Text
	if !term.CaseSensitive {
		needle = strings.ToLower(needle)
	}

	scan := fileScan{res: model.VerificationResult{Path: path}}
	r := bufio.NewReader(f)
	lines := 0

	for {
		line, err := r.ReadString('\n')
		if line != "" {
			lines++
			if v.Tick != nil && lines%tickEvery == 0 {
				v.Tick()
			}
			scan.line(line, needle, term.CaseSensitive)
		}
		if err != nil {
			if err != io.EOF {
				// Mid-file read failure: treat the candidate as
				// non-matching, same as an open failure.
				return model.VerificationResult{Path: path}
			}
			break
		}
	}
	return scan.res
}

// line runs one raw line through the classifier and, when not suppressed,
// through date extraction, attachment detection, and the term test. Matching
// never short-circuits the scan: classifier state and the sticky flags must
// see every line.
func (s *fileScan) line(raw, needle string, caseSensitive bool) {
	if s.state.Step(raw) {
		return
	}

	// Only the first Date header is ever parsed; a malformed one leaves
	// the file dateless rather than deferring to later headers.
	if !s.dateTried && classify.IsDateHeader(raw) {
		s.dateTried = true
		if t, ok := classify.ParseDate(classify.DateHeaderValue(raw)); ok {
			s.res.Date = t
			s.res.HasDate = true
		}
	}

	if classify.HasAttachmentEvidence(raw) {
		s.res.HasAttachment = true
	}

	hay := raw
	if !caseSensitive {
		hay = strings.ToLower(raw)
	}
	if strings.Contains(hay, needle) {
		s.res.Matched = true
	}
}
