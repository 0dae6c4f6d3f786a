// Package cache provides an optional in-process cache of verification
// results, so repeated searches in one session skip re-scanning files that
// have not changed.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"time"

	"github.com/HectorTTL/mailsift/internal/model"
)

// Cache defines the interface for verification-result caching
type Cache interface {
	Get(key string) (model.VerificationResult, bool)
	Set(key string, value model.VerificationResult, ttl time.Duration)
	Clear()
}

// Key derives a cache key from a candidate's identity and the term being
// searched. Size and mtime are part of the key so a rewritten file misses.
func Key(path string, info fs.FileInfo, term model.SearchTerm) string {
	raw := fmt.Sprintf("%s|%d|%d|%s|%t",
		path, info.Size(), info.ModTime().UnixNano(), term.Text, term.CaseSensitive)
	hash := sha256.Sum256([]byte(raw))
	return "mailsift:v1:" + hex.EncodeToString(hash[:])
}
