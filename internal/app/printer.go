package app

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// printer serializes output from all workers. It is the only state shared
// across sources: a mutex, the buffered sink, and the name of the source
// whose line was printed last. The lock covers exactly one header+line
// write, so lines from different sources never interleave mid-line.
type printer struct {
	mu      sync.Mutex
	w       *bufio.Writer
	headers bool
	color   bool
	style   lipgloss.Style
	last    string
}

func newPrinter(w io.Writer, headers, color bool) *printer {
	return &printer{
		w:       bufio.NewWriter(w),
		headers: headers,
		color:   color,
		style:   lipgloss.NewStyle().Bold(true),
	}
}

// print writes one line attributed to source, preceded by a blank line and
// a header whenever the previously printed line came from a different
// source.
func (p *printer) print(source, line string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.headers && source != p.last {
		if p.last != "" {
			if err := p.w.WriteByte('\n'); err != nil {
				return err
			}
		}
		header := fmt.Sprintf("==> %s <==", source)
		if p.color {
			header = p.style.Render(header)
		}
		if _, err := p.w.WriteString(header); err != nil {
			return err
		}
		if err := p.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	p.last = source

	if _, err := p.w.WriteString(line); err != nil {
		return err
	}
	if err := p.w.WriteByte('\n'); err != nil {
		return err
	}
	return p.w.Flush()
}

// reset restores default terminal attributes after a failed write may
// have abandoned the stream mid-span. It goes through the shared buffer
// so the escape lands after any bytes still queued there.
func (p *printer) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = p.w.WriteString("\x1b[0m")
	_ = p.w.Flush()
}

// diag writes advisory messages to the error channel, kept apart from the
// colorized data stream. Messages are styled only when stderr is a
// terminal and dropped entirely in silent mode.
type diag struct {
	w      io.Writer
	silent bool
	styled bool
	style  lipgloss.Style
}

func newDiag(w io.Writer, silent bool) *diag {
	d := &diag{
		w:      w,
		silent: silent,
		style:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	}
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		d.styled = true
	}
	return d
}

func (d *diag) printf(format string, args ...any) {
	if d.silent {
		return
	}
	msg := fmt.Sprintf("huetail: "+format, args...)
	if d.styled {
		msg = d.style.Render(msg)
	}
	fmt.Fprintln(d.w, msg)
}

// colorEnabled decides whether painted output is appropriate for the sink.
func colorEnabled(mode string, stdout io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := stdout.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
