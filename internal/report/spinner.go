package report

import (
	"fmt"
	"io"
	"strings"
	"time"
)

var spinFrames = []string{"-", "\\", "|", "/"}

// Spinner is a background liveness indicator for phases with no progress
// fraction (prefilter counting, single-thread scanning). Stop always clears
// the display line, on every exit path.
type Spinner struct {
	out      io.Writer
	msg      string
	interval time.Duration
	kick     chan struct{}
	stop     chan struct{}
	done     chan struct{}
}

// StartSpinner starts a spinner printing "[msg] <frame>" on one overwritten
// line until Stop is called.
func StartSpinner(out io.Writer, msg string, interval time.Duration) *Spinner {
	s := &Spinner{
		out:      out,
		msg:      msg,
		interval: interval,
		kick:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Spinner) run() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	frame := 0
	draw := func() {
		ch := spinFrames[frame%len(spinFrames)]
		frame++
		fmt.Fprintf(s.out, "\r%s", progressStyle.Render(fmt.Sprintf("[%s] %s", s.msg, ch)))
	}
	draw()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			draw()
		case <-s.kick:
			draw()
		}
	}
}

// Tick nudges the spinner to redraw immediately. Non-blocking; safe to call
// from verification hot loops as a pure liveness signal.
func (s *Spinner) Tick() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Stop terminates the spinner goroutine, waits for it, and clears the line.
func (s *Spinner) Stop() {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	<-s.done
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", 80))
}

// Banner prints an immediate one-line phase marker, for phases so short the
// spinner may never get a frame out.
func Banner(out io.Writer, msg string) {
	fmt.Fprintf(out, "%s\r", progressStyle.Render(fmt.Sprintf("[%s…]", msg)))
}
