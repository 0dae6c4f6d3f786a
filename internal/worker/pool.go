// Package worker schedules candidate verification across a fixed worker
// count and funnels every result through a single aggregation sink.
package worker

import (
	"sync"

	"github.com/HectorTTL/mailsift/internal/model"
)

// Verifier verifies a single candidate file. Implementations must be safe
// for concurrent use.
type Verifier interface {
	Verify(path string, term model.SearchTerm) model.VerificationResult
}

// Sink receives each verification result exactly once. Implementations must
// serialize commits internally.
type Sink interface {
	Commit(res model.VerificationResult)
}

// Pool dispatches candidates to a verifier with a fixed worker count
type Pool struct {
	workers  int
	verifier Verifier
	sink     Sink
}

// NewPool creates a pool with the specified number of workers
func NewPool(workers int, verifier Verifier, sink Sink) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers, verifier: verifier, sink: sink}
}

// Workers returns the configured worker count
func (p *Pool) Workers() int {
	return p.workers
}

// Run drains the candidate stream, verifying every path exactly once.
// With one worker the stream is consumed directly and sequentially. With
// more, the stream is materialized, partitioned into contiguous chunks, and
// each chunk is owned by one goroutine; chunk slices are never shared.
func (p *Pool) Run(paths <-chan string, term model.SearchTerm) {
	if p.workers == 1 {
		for path := range paths {
			p.sink.Commit(p.verifier.Verify(path, term))
		}
		return
	}

	var candidates []string
	for path := range paths {
		candidates = append(candidates, path)
	}

	var wg sync.WaitGroup
	for _, chunk := range Partition(candidates, p.workers) {
		wg.Add(1)
		go func(chunk []string) {
			defer wg.Done()
			for _, path := range chunk {
				p.sink.Commit(p.verifier.Verify(path, term))
			}
		}(chunk)
	}
	wg.Wait()
}

// Partition splits items into at most n contiguous near-equal chunks; the
// last chunk absorbs any remainder. Order is preserved and no item appears
// in more than one chunk.
func Partition(items []string, n int) [][]string {
	if len(items) == 0 {
		return nil
	}
	if n <= 1 {
		return [][]string{items}
	}

	size := len(items) / n
	if size == 0 {
		size = 1
	}

	var chunks [][]string
	for i := 0; i < len(items); i += size {
		if len(chunks) == n-1 {
			chunks = append(chunks, items[i:])
			break
		}
		chunks = append(chunks, items[i:i+size])
	}
	return chunks
}
