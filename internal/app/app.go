package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/huetail/internal/filter"
	"github.com/five82/huetail/internal/paint"
	"github.com/five82/huetail/internal/prefs"
	"github.com/five82/huetail/internal/rules"
	"github.com/five82/huetail/internal/tail"
)

// stdinName is how the standard-input source announces itself in headers.
const stdinName = "standard input"

// Options configure one huetail invocation. Zero values defer to the
// user's preference file, except Lines, where zero is meaningful (start at
// end of file): a negative Lines means "use the preferred count".
type Options struct {
	Paths     []string // files to tail; empty or "-" entries mean standard input
	Follow    bool
	Lines     int
	Verbose   bool // always print source headers
	Silent    bool // never print headers or advisory messages
	RulesPath string
	ColorMode string // auto, always, or never
	Interval  time.Duration
	PrefsPath string

	Stdout io.Writer // defaults to os.Stdout
	Stderr io.Writer // defaults to os.Stderr
	Stdin  io.Reader // defaults to os.Stdin
}

// binding ties one source to the configuration resolved for it.
type binding struct {
	src *tail.Source
	res rules.Resolved
}

// Run tails every configured source until all are exhausted or ctx is
// cancelled. Inputs that cannot be opened are reported and skipped; Run
// fails only when no source opens at all, or when writing to the output
// sink fails.
func Run(ctx context.Context, opts Options) error {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	userPrefs := prefs.Load(opts.PrefsPath)
	lines := opts.Lines
	if lines < 0 {
		lines = userPrefs.Lines
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = time.Duration(userPrefs.IntervalMS) * time.Millisecond
	}
	rulesPath := opts.RulesPath
	if rulesPath == "" {
		rulesPath = userPrefs.Rules
	}
	colorMode := opts.ColorMode
	if colorMode == "" {
		colorMode = userPrefs.Color
	}

	diag := newDiag(stderr, opts.Silent)

	store, err := rules.Load(rulesPath)
	if err != nil {
		diag.printf("%v", err)
		diag.printf("no rules are in effect")
	}

	color := colorEnabled(colorMode, stdout)

	paths := opts.Paths
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	var bindings []binding
	var openErr error
	for _, path := range paths {
		if path == "-" {
			bindings = append(bindings, binding{
				src: tail.OpenStream(stdinName, stdin),
				res: store.ResolveStdin(),
			})
			continue
		}
		src, err := tail.Open(path, tail.Options{
			Lines:    lines,
			Follow:   opts.Follow,
			Interval: interval,
		})
		if err != nil {
			diag.printf("%v", err)
			openErr = err
			continue
		}
		bindings = append(bindings, binding{src: src, res: store.Resolve(filepath.Base(path))})
	}
	if len(bindings) == 0 {
		if openErr != nil {
			return openErr
		}
		return errors.New("no sources to tail")
	}

	headers := (len(bindings) > 1 || opts.Verbose) && !opts.Silent
	out := newPrinter(stdout, headers, color)

	g, ctx := errgroup.WithContext(ctx)
	for _, b := range bindings {
		b := b
		g.Go(func() error {
			return runWorker(ctx, b, out, color)
		})
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		if color {
			// Best effort: a failed write may have left the terminal
			// inside a colored span.
			out.reset()
		}
		return err
	}
	return nil
}

// runWorker drains one source through its filter chain and color rules.
// Read failures end the worker quietly so sibling sources keep flowing;
// write failures are fatal because the shared output can no longer be
// trusted.
func runWorker(ctx context.Context, b binding, out *printer, color bool) error {
	defer func() { _ = b.src.Close() }()

	for {
		line, err := b.src.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		}

		text, keep := filter.Apply(b.res.Filters, line)
		if !keep {
			continue
		}
		if color {
			text = paint.Paint(b.res.Table, b.res.Colors, text)
		}
		if err := out.print(b.src.Name(), text); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
}
