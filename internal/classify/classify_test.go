package classify

import (
	"testing"
	"time"
)

func TestStateStep(t *testing.T) {
	tests := []struct {
		name       string
		start      State
		line       string
		suppressed bool
		want       State
	}{
		{"plain text", State{}, "hello world", false, State{}},
		{"encoding start", State{}, "Content-Transfer-Encoding: base64\n", true, State{InEncoded: true}},
		{"encoding start mixed case", State{}, "CONTENT-TRANSFER-ENCODING: BASE64", true, State{InEncoded: true}},
		{"inside encoded block", State{InEncoded: true}, "SGVsbG8gd29ybGQ=", true, State{InEncoded: true}},
		{"boundary ends encoded block", State{InEncoded: true}, "--boundary42", true, State{}},
		{"boundary outside encoded block is plain", State{}, "--boundary42", false, State{}},
		{"markup open", State{}, "<html><body>", true, State{InMarkup: true}},
		{"markup open mid-line", State{}, "text before <HTML>", true, State{InMarkup: true}},
		{"inside markup block", State{InMarkup: true}, "<p>some body</p>", true, State{InMarkup: true}},
		{"markup close", State{InMarkup: true}, "</html>", true, State{}},
		{"markup close without open", State{}, "</html>", true, State{}},
		{"open takes precedence over close on one line", State{}, "<html></html>", true, State{InMarkup: true}},
		{"encoding start wins inside markup", State{InMarkup: true}, "content-transfer-encoding: base64", true, State{InEncoded: true, InMarkup: true}},
		{"markup open inside encoded block", State{InEncoded: true}, "<html>", true, State{InEncoded: true, InMarkup: true}},
		{"header line is plain", State{}, "Subject: invoice 42", false, State{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := tt.start
			got := state.Step(tt.line)
			if got != tt.suppressed {
				t.Errorf("Step() suppressed = %v, want %v", got, tt.suppressed)
			}
			if state != tt.want {
				t.Errorf("Step() state = %+v, want %+v", state, tt.want)
			}
		})
	}
}

func TestStateSequence(t *testing.T) {
	// A typical multipart message: the term inside the base64 body must be
	// suppressed, the plain text after the boundary must not.
	lines := []struct {
		line       string
		suppressed bool
	}{
		{"Date: Tue, 01 Jan 2019 00:00:00 +0000", false},
		{"Content-Transfer-Encoding: base64", true},
		{"aW52b2ljZQ==", true},
		{"--b1", true},
		{"plain text after boundary", false},
	}
	var state State
	for i, step := range lines {
		if got := state.Step(step.line); got != step.suppressed {
			t.Errorf("line %d %q: suppressed = %v, want %v", i, step.line, got, step.suppressed)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"rfc2822 with zone", "Tue, 01 Jan 2019 00:00:00 +0000", time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"positive offset normalized", "Tue, 01 Jan 2019 02:00:00 +0200", time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"no zone assumes utc", "Mon, 2 Mar 2020 13:37:00", time.Date(2020, 3, 2, 13, 37, 0, 0, time.UTC), true},
		{"no weekday", "2 Mar 2020 13:37:00", time.Date(2020, 3, 2, 13, 37, 0, 0, time.UTC), true},
		{"surrounding whitespace", "  Tue, 01 Jan 2019 00:00:00 +0000  ", time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"garbage", "not a date", time.Time{}, false},
		{"empty", "", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsDateHeader(t *testing.T) {
	if !IsDateHeader("Date: Tue, 01 Jan 2019 00:00:00 +0000") {
		t.Error("expected Date header to be recognized")
	}
	if !IsDateHeader("DATE: whenever") {
		t.Error("expected case-insensitive match")
	}
	if IsDateHeader("X-Date: Tue, 01 Jan 2019 00:00:00 +0000") {
		t.Error("X-Date must not be treated as a Date header")
	}
}

func TestHasAttachmentEvidence(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"disposition attachment", `Content-Disposition: attachment; filename="x.pdf"`, true},
		{"disposition inline", "Content-Disposition: inline", false},
		{"content type with name", `Content-Type: application/pdf; name="x.pdf"`, true},
		{"content type without name", "Content-Type: text/plain; charset=utf-8", false},
		{"mixed case", `CONTENT-DISPOSITION: ATTACHMENT`, true},
		{"plain text mentioning attachment", "see the attachment below", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasAttachmentEvidence(tt.line); got != tt.want {
				t.Errorf("HasAttachmentEvidence(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestAgeBucket(t *testing.T) {
	now := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		date    time.Time
		hasDate bool
		want    Bucket
	}{
		{"no date", time.Time{}, false, BucketUnknown},
		{"yesterday", now.AddDate(0, 0, -1), true, BucketRecent},
		{"just under a year", now.AddDate(0, 0, -364), true, BucketRecent},
		{"exactly a year", now.AddDate(0, 0, -365), true, BucketAging},
		{"eighteen months", now.AddDate(0, -18, 0), true, BucketAging},
		{"two years", now.AddDate(0, 0, -730), true, BucketOld},
		{"ancient", now.AddDate(-10, 0, 0), true, BucketOld},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AgeBucket(tt.date, tt.hasDate, now); got != tt.want {
				t.Errorf("AgeBucket() = %v, want %v", got, tt.want)
			}
		})
	}
}
