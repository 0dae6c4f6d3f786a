// Package pipeline orchestrates a complete search run: prefilter count,
// candidate streaming, concurrent verification, and reporting.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/HectorTTL/mailsift/internal/cache"
	"github.com/HectorTTL/mailsift/internal/model"
	"github.com/HectorTTL/mailsift/internal/prefilter"
	"github.com/HectorTTL/mailsift/internal/report"
	"github.com/HectorTTL/mailsift/internal/verify"
	"github.com/HectorTTL/mailsift/internal/worker"
)

const (
	prefilterSpinInterval = 80 * time.Millisecond
	scanSpinInterval      = 100 * time.Millisecond
)

// CandidateSource produces prefilter candidates. Count and Stream each own
// an independent tool invocation; the count is the fixed progress
// denominator and is never reconciled with what the stream yields.
type CandidateSource interface {
	Count(term model.SearchTerm) (int, error)
	Stream(term model.SearchTerm) (<-chan string, func() error, error)
}

// Pipeline wires the candidate source, verifier, result cache, and reporter
// together for one run.
type Pipeline struct {
	source   CandidateSource
	reporter *report.Reporter
	cfg      *model.Config
	results  cache.Cache
	stdout   io.Writer
	stderr   io.Writer
	degraded bool
}

// New creates a pipeline with the given configuration
func New(cfg *model.Config, source CandidateSource, reporter *report.Reporter) *Pipeline {
	p := &Pipeline{
		source:   source,
		reporter: reporter,
		cfg:      cfg,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	if cfg.Cache.Enabled {
		p.results = cache.NewMemoryCache(cfg.Cache.TTL, 2*cfg.Cache.TTL)
	}
	return p
}

// Run executes a full search. It always completes and always produces a
// summary: prefilter failure degrades to zero candidates with a warning,
// never an abort.
func (p *Pipeline) Run(term model.SearchTerm) (model.Summary, error) {
	report.Banner(p.stdout, "prefiltering")
	spin := report.StartSpinner(p.stdout, "prefiltering", prefilterSpinInterval)
	total, err := p.source.Count(term)
	spin.Stop()

	if err != nil {
		if !errors.Is(err, prefilter.ErrUnavailable) {
			return model.Summary{}, fmt.Errorf("count candidates: %w", err)
		}
		p.degraded = true
		fmt.Fprintf(p.stderr, "warning: %v; reporting zero candidates\n", err)
		total = 0
	}

	p.reporter.SetTotal(total)

	if p.degraded || total == 0 {
		p.reporter.Progress()
		return p.reporter.Finish(), nil
	}

	paths, wait, err := p.source.Stream(term)
	if err != nil {
		p.degraded = true
		fmt.Fprintf(p.stderr, "warning: %v; reporting zero candidates\n", err)
		p.reporter.Progress()
		return p.reporter.Finish(), nil
	}

	verifier := &verify.Verifier{}
	var scanSpin *report.Spinner
	if p.cfg.Search.Workers == 1 {
		// Sequential runs keep a spinner alive, nudged from inside
		// long files. Concurrent runs skip it: interleaved spinner
		// frames and match blocks are just noise.
		scanSpin = report.StartSpinner(p.stdout, "scanning", scanSpinInterval)
		verifier.Tick = scanSpin.Tick
	}

	pool := worker.NewPool(p.cfg.Search.Workers, p.wrapVerifier(verifier), p.reporter)
	pool.Run(paths, term)
	_ = wait()

	if scanSpin != nil {
		scanSpin.Stop()
	}
	return p.reporter.Finish(), nil
}

// Degraded reports whether the prefilter was unavailable and the run fell
// back to zero candidates.
func (p *Pipeline) Degraded() bool {
	return p.degraded
}

// wrapVerifier layers the result cache over the verifier when enabled.
func (p *Pipeline) wrapVerifier(inner worker.Verifier) worker.Verifier {
	if p.results == nil {
		return inner
	}
	return &cachedVerifier{inner: inner, results: p.results, ttl: p.cfg.Cache.TTL}
}

// cachedVerifier memoizes verification results keyed by path identity, size,
// and mtime, so unchanged files verified earlier in the process are not
// re-scanned.
type cachedVerifier struct {
	inner   worker.Verifier
	results cache.Cache
	ttl     time.Duration
}

func (c *cachedVerifier) Verify(path string, term model.SearchTerm) model.VerificationResult {
	info, err := os.Stat(path)
	if err != nil {
		return c.inner.Verify(path, term)
	}
	key := cache.Key(path, info, term)
	if res, ok := c.results.Get(key); ok {
		return res
	}
	res := c.inner.Verify(path, term)
	c.results.Set(key, res, c.ttl)
	return res
}
