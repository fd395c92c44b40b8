// Command huetail tails files (or standard input) through per-source
// filter chains and regex color rules.
//
//	huetail -f -k ~/.config/huetail/rules.conf /var/log/syslog /var/log/auth.log
//	journalctl -o cat | huetail
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/huetail/internal/app"
	"github.com/five82/huetail/internal/prefs"
)

func main() {
	os.Exit(run())
}

func run() int {
	lines := flag.Int("n", -1, "number of trailing lines to print (default from prefs, 10)")
	follow := flag.Bool("f", false, "keep watching the files for appended data")
	rulesPath := flag.String("k", "", "rule file path (default from prefs)")
	verbose := flag.Bool("v", false, "always print source headers")
	silent := flag.Bool("q", false, "never print headers or advisory messages")
	colorMode := flag.String("color", "", "colorize output: auto, always, or never (default from prefs)")
	interval := flag.Duration("interval", 0, "follow-mode poll interval (default from prefs, 1s)")
	prefsPath := flag.String("prefs", "", "preferences file path (default "+prefs.DefaultPath()+")")
	writePrefs := flag.Bool("write-prefs", false, "persist the effective defaults to the preferences file and exit")
	flag.Parse()

	if *writePrefs {
		p := prefs.Load(*prefsPath)
		if *lines >= 0 {
			p.Lines = *lines
		}
		if *interval > 0 {
			p.IntervalMS = int(interval.Milliseconds())
		}
		if *rulesPath != "" {
			p.Rules = *rulesPath
		}
		if *colorMode != "" {
			p.Color = *colorMode
		}
		if err := prefs.Save(*prefsPath, p); err != nil {
			fmt.Fprintf(os.Stderr, "huetail: %v\n", err)
			return 1
		}
		return 0
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		Paths:     flag.Args(),
		Follow:    *follow,
		Lines:     *lines,
		Verbose:   *verbose,
		Silent:    *silent,
		RulesPath: *rulesPath,
		ColorMode: *colorMode,
		PrefsPath: *prefsPath,
	}
	if *interval > 0 {
		opts.Interval = *interval
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "huetail: %v\n", err)
		return 1
	}
	return 0
}
