// Package report renders match results, the live progress line, and the run
// summary, and mirrors records to an optional log sink.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/time/rate"

	"github.com/HectorTTL/mailsift/internal/classify"
	"github.com/HectorTTL/mailsift/internal/model"
)

// Scheme selects how dates are tinted by age
type Scheme int

const (
	SchemeObvious Scheme = iota // white / yellow / magenta
	SchemeFade                  // white / grey / faint
)

const (
	dateLayout  = "Mon, 02 Jan 2006 15:04:05 -0700"
	noDateLabel = "(Date not found)"
)

var (
	inboxPathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	outboxPathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	recentStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	agingStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	oldStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	agingFadeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	oldFadeStyle    = lipgloss.NewStyle().Faint(true)
	noDateStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	attachmentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	progressStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

// Options configures a Reporter.
type Options struct {
	Out         io.Writer // defaults to os.Stdout
	Scheme      Scheme
	OutboxToken string           // path segment that marks outbox-area files
	LogPath     string           // empty disables the log sink
	Now         func() time.Time // reference instant for age buckets; defaults to time.Now
}

// Reporter is the single aggregation point for a run. One mutex guards both
// the progress counters and every write, so a committed result is atomic
// relative to other workers' output.
type Reporter struct {
	mu          sync.Mutex
	out         io.Writer
	sink        io.WriteCloser
	scheme      Scheme
	outboxToken string
	now         func() time.Time
	redraw      *rate.Limiter

	total       int
	done        int
	matches     int
	attachments int
	start       time.Time
}

// NewReporter creates a Reporter, opening the log sink when configured.
// A sink that cannot be opened is an error; the caller decides whether to
// continue without logging. Match data is never sent to a half-open handle.
func NewReporter(opts Options) (*Reporter, error) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	var sink io.WriteCloser
	if opts.LogPath != "" {
		f, err := os.Create(opts.LogPath)
		if err != nil {
			return nil, fmt.Errorf("open log sink: %w", err)
		}
		sink = f
	}

	return &Reporter{
		out:         out,
		sink:        sink,
		scheme:      opts.Scheme,
		outboxToken: opts.OutboxToken,
		now:         now,
		// Progress redraws are throttled so a burst of fast results
		// does not saturate the terminal.
		redraw: rate.NewLimiter(rate.Limit(30), 1),
		start:  now(),
	}, nil
}

// SetTotal fixes the progress denominator. It is never revised mid-run, even
// if the candidate stream yields a different count.
func (r *Reporter) SetTotal(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = n
}

// Commit records one verification result: counter updates, match rendering,
// sink mirroring, and the progress redraw happen as one atomic unit.
func (r *Reporter) Commit(res model.VerificationResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.done++
	if res.Matched {
		r.matches++
		if res.HasAttachment {
			r.attachments++
		}
		r.printMatch(res)
	}
	r.progressLocked(res.Matched)
}

// Progress redraws the progress line without committing a result. Used for
// the zero-candidate case so the line still appears.
func (r *Reporter) Progress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progressLocked(true)
}

// Finish terminates the progress line, prints the run summary, mirrors it to
// the sink, and closes the sink. It returns the final counters.
func (r *Reporter) Finish() model.Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.progressLocked(true)
	elapsed := r.now().Sub(r.start)
	line := fmt.Sprintf("%d items found, %d with attachments, time elapsed %ds",
		r.matches, r.attachments, int(elapsed.Seconds()))
	fmt.Fprintf(r.out, "\n%s\n", line)

	if r.sink != nil {
		fmt.Fprintf(r.sink, "%s\n", line)
		_ = r.sink.Close()
		r.sink = nil
	}

	return model.Summary{
		Total:       r.total,
		Done:        r.done,
		Matches:     r.matches,
		Attachments: r.attachments,
		Elapsed:     elapsed,
	}
}

func (r *Reporter) printMatch(res model.VerificationResult) {
	abs, err := filepath.Abs(res.Path)
	if err != nil {
		abs = res.Path
	}

	// Overwrite the progress line before the match block scrolls.
	fmt.Fprint(r.out, "\r")
	fmt.Fprintf(r.out, "%s\n", r.pathStyle(abs).Render(abs))
	fmt.Fprintf(r.out, "%s\n", r.renderDate(res))
	if res.HasAttachment {
		fmt.Fprintf(r.out, "%s\n", attachmentStyle.Render("BIJLAGE"))
	}

	if r.sink != nil {
		fmt.Fprintf(r.sink, "%s\n", abs)
		if res.HasDate {
			fmt.Fprintf(r.sink, "%s\n", res.Date.Format(dateLayout))
		} else {
			fmt.Fprintf(r.sink, "%s\n", noDateLabel)
		}
		if res.HasAttachment {
			fmt.Fprintf(r.sink, "BIJLAGE\n")
		}
	}
}

// progressLocked redraws the in-place progress line. Redraws ride a rate
// limiter except when forced (match commits and the final draw).
func (r *Reporter) progressLocked(force bool) {
	if !force && !r.redraw.Allow() {
		return
	}
	elapsed := int(r.now().Sub(r.start).Seconds())
	bar := fmt.Sprintf("[%d/%d] | Elapsed: %ds", r.done, r.total, elapsed)
	fmt.Fprintf(r.out, "\r%s", progressStyle.Render(bar))
}

func (r *Reporter) pathStyle(abs string) lipgloss.Style {
	if r.outboxToken != "" && pathHasSegment(abs, r.outboxToken) {
		return outboxPathStyle
	}
	return inboxPathStyle
}

// pathHasSegment reports whether token appears as a whole path segment.
func pathHasSegment(path, token string) bool {
	for _, seg := range strings.Split(path, string(filepath.Separator)) {
		if seg == token {
			return true
		}
	}
	return false
}

func (r *Reporter) renderDate(res model.VerificationResult) string {
	if !res.HasDate {
		return noDateStyle.Render(noDateLabel)
	}
	txt := res.Date.Format(dateLayout)
	switch classify.AgeBucket(res.Date, res.HasDate, r.now()) {
	case classify.BucketRecent:
		return recentStyle.Render(txt)
	case classify.BucketAging:
		if r.scheme == SchemeFade {
			return agingFadeStyle.Render(txt)
		}
		return agingStyle.Render(txt)
	default:
		if r.scheme == SchemeFade {
			return oldFadeStyle.Render(txt)
		}
		return oldStyle.Render(txt)
	}
}
