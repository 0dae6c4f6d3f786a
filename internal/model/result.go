package model

import "time"

// SearchTerm is the literal substring being searched for
type SearchTerm struct {
	Text          string `json:"text"`
	CaseSensitive bool   `json:"case_sensitive"`
}

// VerificationResult is the outcome of precisely scanning one candidate file.
// Produced exactly once per candidate and immutable afterwards.
type VerificationResult struct {
	Path          string    `json:"path"`
	Matched       bool      `json:"matched"`
	Date          time.Time `json:"date,omitempty"`           // valid only when HasDate
	HasDate       bool      `json:"has_date"`
	HasAttachment bool      `json:"has_attachment"`
}

// Summary aggregates a finished run
type Summary struct {
	Total       int           `json:"total"`       // prefilter candidate count (fixed denominator)
	Done        int           `json:"done"`        // candidates actually verified
	Matches     int           `json:"matches"`     // files confirmed by the verifier
	Attachments int           `json:"attachments"` // matched files carrying attachment evidence
	Elapsed     time.Duration `json:"elapsed"`
}
