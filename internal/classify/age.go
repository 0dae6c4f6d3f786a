package classify

import "time"

// Bucket is an age tier derived from a message date
type Bucket int

const (
	BucketUnknown Bucket = iota // no parseable date
	BucketRecent                // younger than one year
	BucketAging                 // one to two years
	BucketOld                   // two years or older
)

// AgeBucket classifies a message date against a reference instant. The
// reference is injected rather than read from a live clock so callers and
// tests agree on what "now" means.
func AgeBucket(date time.Time, hasDate bool, now time.Time) Bucket {
	if !hasDate {
		return BucketUnknown
	}
	days := int(now.Sub(date).Hours() / 24)
	switch {
	case days < 365:
		return BucketRecent
	case days < 730:
		return BucketAging
	default:
		return BucketOld
	}
}
