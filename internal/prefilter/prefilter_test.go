package prefilter

import (
	"bytes"
	"errors"
	"io"
	"os/exec"
	"reflect"
	"testing"

	"github.com/HectorTTL/mailsift/internal/model"
)

// fakeExecutor simulates tool availability and output without running
// anything.
type fakeExecutor struct {
	available map[string]bool
	output    []byte
	startErr  error

	lastName string
	lastArgs []string
	waited   bool
}

func (f *fakeExecutor) LookPath(file string) (string, error) {
	if f.available[file] {
		return "/usr/bin/" + file, nil
	}
	return "", exec.ErrNotFound
}

func (f *fakeExecutor) StreamOutput(name string, args ...string) (io.ReadCloser, func() error, error) {
	f.lastName = name
	f.lastArgs = args
	if f.startErr != nil {
		return nil, nil, f.startErr
	}
	wait := func() error {
		f.waited = true
		return nil
	}
	return io.NopCloser(bytes.NewReader(f.output)), wait, nil
}

func newTestSource(exec *fakeExecutor, roots ...string) *Source {
	if len(roots) == 0 {
		roots = []string{"/mail/inbox", "/mail/outbox"}
	}
	return &Source{roots: roots, exec: exec}
}

func TestCommandPrefersRipgrep(t *testing.T) {
	fake := &fakeExecutor{available: map[string]bool{"rg": true, "grep": true}}
	src := newTestSource(fake)

	name, args, err := src.command(model.SearchTerm{Text: "invoice"}, false)
	if err != nil {
		t.Fatalf("command: %v", err)
	}
	if name != "rg" {
		t.Errorf("tool = %q, want rg when available", name)
	}
	want := []string{"-IlF", "-i", "invoice", "/mail/inbox", "/mail/outbox"}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}
}

func TestCommandCaseSensitiveDropsIgnoreFlag(t *testing.T) {
	fake := &fakeExecutor{available: map[string]bool{"rg": true}}
	src := newTestSource(fake)

	_, args, err := src.command(model.SearchTerm{Text: "Invoice", CaseSensitive: true}, false)
	if err != nil {
		t.Fatalf("command: %v", err)
	}
	for _, a := range args {
		if a == "-i" {
			t.Errorf("case-sensitive invocation must not pass -i: %v", args)
		}
	}
}

func TestCommandStreamModeAddsNulFlag(t *testing.T) {
	fake := &fakeExecutor{available: map[string]bool{"rg": true}}
	src := newTestSource(fake)

	_, args, err := src.command(model.SearchTerm{Text: "x"}, true)
	if err != nil {
		t.Fatalf("command: %v", err)
	}
	want := []string{"-IlF", "-i", "-0", "x", "/mail/inbox", "/mail/outbox"}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}
}

func TestCommandFallsBackToGrep(t *testing.T) {
	fake := &fakeExecutor{available: map[string]bool{"grep": true}}
	src := newTestSource(fake)

	name, args, err := src.command(model.SearchTerm{Text: "invoice"}, true)
	if err != nil {
		t.Fatalf("command: %v", err)
	}
	if name != "grep" {
		t.Errorf("tool = %q, want grep fallback", name)
	}
	want := []string{"-r", "-I", "-l", "-F", "-Z", "-i", "invoice", "/mail/inbox", "/mail/outbox"}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}
}

func TestCountUnavailable(t *testing.T) {
	fake := &fakeExecutor{available: map[string]bool{}}
	src := newTestSource(fake)

	n, err := src.Count(model.SearchTerm{Text: "x"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if n != 0 {
		t.Errorf("count = %d, want 0 on unavailable tool", n)
	}
}

func TestCountCountsCandidateLines(t *testing.T) {
	fake := &fakeExecutor{
		available: map[string]bool{"rg": true},
		output:    []byte("/mail/inbox/a.eml\n/mail/inbox/b.eml\n/mail/outbox/c.eml\n"),
	}
	src := newTestSource(fake)

	n, err := src.Count(model.SearchTerm{Text: "invoice"})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
	if !fake.waited {
		t.Error("subprocess must be reaped after counting")
	}
}

func TestCountEmptyOutput(t *testing.T) {
	fake := &fakeExecutor{available: map[string]bool{"rg": true}}
	src := newTestSource(fake)

	n, err := src.Count(model.SearchTerm{Text: "nothing-matches"})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("count = %d, want 0 for no output", n)
	}
}

func TestStreamDecodesNulDelimitedPaths(t *testing.T) {
	// One path contains a newline: only the NUL delimiter is trusted.
	fake := &fakeExecutor{
		available: map[string]bool{"rg": true},
		output:    []byte("/mail/inbox/a.eml\x00/mail/inbox/odd\nname.eml\x00/mail/outbox/c.eml\x00"),
	}
	src := newTestSource(fake)

	paths, wait, err := src.Stream(model.SearchTerm{Text: "invoice"})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	var got []string
	for p := range paths {
		got = append(got, p)
	}
	if err := wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}

	want := []string{"/mail/inbox/a.eml", "/mail/inbox/odd\nname.eml", "/mail/outbox/c.eml"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("paths = %q, want %q", got, want)
	}
}

func TestStreamPreservesNewlineEdgedPaths(t *testing.T) {
	// Filenames may genuinely begin or end with a newline byte; the NUL
	// delimiter is the only byte the decoder may consume. A stripped
	// newline would yield a nonexistent path that verification then
	// silently reports as non-matching.
	fake := &fakeExecutor{
		available: map[string]bool{"rg": true},
		output:    []byte("/mail/inbox/weird\n\x00/mail/inbox/\nleading.eml\x00"),
	}
	src := newTestSource(fake)

	paths, wait, err := src.Stream(model.SearchTerm{Text: "invoice"})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	var got []string
	for p := range paths {
		got = append(got, p)
	}
	_ = wait()

	want := []string{"/mail/inbox/weird\n", "/mail/inbox/\nleading.eml"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("paths = %q, want %q", got, want)
	}
}

func TestStreamGrepRecordShape(t *testing.T) {
	// grep -lZ terminates each path with NUL and no newline.
	fake := &fakeExecutor{
		available: map[string]bool{"grep": true},
		output:    []byte("/mail/inbox/a.eml\x00/mail/inbox/b.eml\x00"),
	}
	src := newTestSource(fake)

	paths, wait, err := src.Stream(model.SearchTerm{Text: "x"})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	var got []string
	for p := range paths {
		got = append(got, p)
	}
	_ = wait()

	want := []string{"/mail/inbox/a.eml", "/mail/inbox/b.eml"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("paths = %q, want %q", got, want)
	}
}

func TestStreamUnavailable(t *testing.T) {
	fake := &fakeExecutor{available: map[string]bool{}}
	src := newTestSource(fake)

	_, _, err := src.Stream(model.SearchTerm{Text: "x"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestStreamStartFailureWrapsUnavailable(t *testing.T) {
	fake := &fakeExecutor{
		available: map[string]bool{"rg": true},
		startErr:  errors.New("fork failed"),
	}
	src := newTestSource(fake)

	_, _, err := src.Stream(model.SearchTerm{Text: "x"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}
