package app

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestPrinter_HeaderOnSourceChangeOnly(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf, true, false)

	for _, step := range []struct{ source, line string }{
		{"a.log", "a1"},
		{"a.log", "a2"},
		{"b.log", "b1"},
		{"a.log", "a3"},
	} {
		if err := p.print(step.source, step.line); err != nil {
			t.Fatalf("print(%s, %s): %v", step.source, step.line, err)
		}
	}

	want := "==> a.log <==\na1\na2\n\n==> b.log <==\nb1\n\n==> a.log <==\na3\n"
	if got := buf.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestPrinter_NoHeadersWhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf, false, false)

	if err := p.print("a.log", "a1"); err != nil {
		t.Fatalf("print: %v", err)
	}
	if err := p.print("b.log", "b1"); err != nil {
		t.Fatalf("print: %v", err)
	}

	if got := buf.String(); got != "a1\nb1\n" {
		t.Fatalf("output = %q, want bare lines", got)
	}
}

func TestPrinter_NoLeadingBlankLine(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf, true, false)

	if err := p.print("a.log", "a1"); err != nil {
		t.Fatalf("print: %v", err)
	}
	if strings.HasPrefix(buf.String(), "\n") {
		t.Fatalf("output %q starts with a blank line before the first header", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("sink closed")
}

func TestPrinter_ReportsWriteFailure(t *testing.T) {
	p := newPrinter(failingWriter{}, false, false)
	if err := p.print("a.log", strings.Repeat("x", 1<<16)); err == nil {
		t.Fatalf("print returned nil error, want the sink failure")
	}
}

// flakyWriter rejects the first n writes, then accepts everything.
type flakyWriter struct {
	rejects int
	buf     bytes.Buffer
}

func (w *flakyWriter) Write(p []byte) (int, error) {
	if w.rejects > 0 {
		w.rejects--
		return 0, errors.New("sink unavailable")
	}
	return w.buf.Write(p)
}

func TestPrinter_ResetFollowsQueuedBytes(t *testing.T) {
	sink := &flakyWriter{rejects: 1}
	p := newPrinter(sink, false, true)

	if err := p.print("a.log", "half a line"); err == nil {
		t.Fatalf("print returned nil error, want the sink failure")
	}

	// The failed flush left the line queued. The reset must drain the
	// queue first so the escape cannot land mid-line on a recovered sink.
	p.reset()
	want := "half a line\n\x1b[0m"
	if got := sink.buf.String(); got != want {
		t.Fatalf("sink received %q, want %q", got, want)
	}
}

func TestColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	if !colorEnabled("always", &buf) {
		t.Errorf("colorEnabled(always) = false, want true")
	}
	if colorEnabled("never", &buf) {
		t.Errorf("colorEnabled(never) = true, want false")
	}
	// A plain buffer is not a terminal.
	if colorEnabled("auto", &buf) {
		t.Errorf("colorEnabled(auto, buffer) = true, want false")
	}
}
