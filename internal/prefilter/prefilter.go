// Package prefilter wraps an external substring search tool (ripgrep, with
// grep as fallback) that narrows the candidate set before precise
// verification. The tool is a superset filter: it may return files the
// verifier rejects, but must never drop a file the verifier would match.
package prefilter

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/HectorTTL/mailsift/internal/model"
)

const (
	binRipgrep = "rg"
	binGrep    = "grep"
)

// ErrUnavailable is returned when neither ripgrep nor grep can be found.
// Callers degrade to zero candidates and keep going; the condition is
// recoverable but must stay distinguishable from a genuinely empty result.
var ErrUnavailable = errors.New("no prefilter tool available (tried rg, grep)")

// executor abstracts tool lookup and execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	// StreamOutput starts the command and hands back its stdout pipe plus
	// a wait function that reaps the process. Stderr is discarded.
	StreamOutput(name string, args ...string) (io.ReadCloser, func() error, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) StreamOutput(name string, args ...string) (io.ReadCloser, func() error, error) {
	cmd := exec.Command(name, args...)
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("start %s: %w", name, err)
	}
	return out, cmd.Wait, nil
}

// Source produces prefilter candidates over a fixed set of root directories.
// Each Count or Stream call owns exactly one subprocess lifecycle.
type Source struct {
	roots []string
	exec  executor
}

// NewSource creates a candidate source over the given roots.
func NewSource(roots ...string) *Source {
	return &Source{roots: roots, exec: osExecutor{}}
}

// command builds the tool invocation. Fixed-string and case flags must mirror
// how the verifier interprets the term, or the superset guarantee breaks.
// nulSep selects NUL-delimited output so paths with unusual bytes survive.
func (s *Source) command(term model.SearchTerm, nulSep bool) (string, []string, error) {
	if _, err := s.exec.LookPath(binRipgrep); err == nil {
		args := []string{"-IlF"}
		if !term.CaseSensitive {
			args = append(args, "-i")
		}
		if nulSep {
			args = append(args, "-0")
		}
		args = append(args, term.Text)
		args = append(args, s.roots...)
		return binRipgrep, args, nil
	}
	if _, err := s.exec.LookPath(binGrep); err == nil {
		args := []string{"-r", "-I", "-l", "-F"}
		if nulSep {
			args = append(args, "-Z")
		}
		if !term.CaseSensitive {
			args = append(args, "-i")
		}
		args = append(args, term.Text)
		args = append(args, s.roots...)
		return binGrep, args, nil
	}
	return "", nil, ErrUnavailable
}

// Count runs the prefilter in line mode and counts candidate paths. The run
// is discarded; Stream re-invokes the tool. A nonzero tool exit with no
// output means no candidates, not a failure.
func (s *Source) Count(term model.SearchTerm) (int, error) {
	name, args, err := s.command(term, false)
	if err != nil {
		return 0, err
	}

	out, wait, err := s.exec.StreamOutput(name, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s failed to start", ErrUnavailable, name)
	}

	total := 0
	buf := make([]byte, 64*1024)
	for {
		n, rerr := out.Read(buf)
		total += bytes.Count(buf[:n], []byte{'\n'})
		if rerr != nil {
			break
		}
	}
	_ = out.Close()
	_ = wait() // exit 1 just means no matches

	return total, nil
}

// Stream runs the prefilter in NUL-delimited mode and yields candidate paths
// as they arrive, without buffering the whole output. The channel closes at
// end of stream; the returned wait function reaps the subprocess and must be
// called once the channel is drained. The sequence is forward-only; a fresh
// call starts a fresh process.
func (s *Source) Stream(term model.SearchTerm) (<-chan string, func() error, error) {
	name, args, err := s.command(term, true)
	if err != nil {
		return nil, nil, err
	}

	out, wait, err := s.exec.StreamOutput(name, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s failed to start", ErrUnavailable, name)
	}

	paths := make(chan string)
	go func() {
		defer close(paths)
		r := bufio.NewReader(out)
		for {
			rec, rerr := r.ReadBytes(0)
			// Only the NUL delimiter may be stripped: any other
			// byte, newlines included, is part of the path.
			rec = bytes.TrimSuffix(rec, []byte{0})
			if len(rec) > 0 {
				paths <- string(rec)
			}
			if rerr != nil {
				_ = out.Close()
				return
			}
		}
	}()

	return paths, wait, nil
}
