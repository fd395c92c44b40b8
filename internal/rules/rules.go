package rules

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/five82/huetail/internal/filter"
)

// Reset is the distinguished color-table entry restoring default attributes.
const Reset = "reset"

// ColorTable maps symbolic color names to terminal escape sequences. It is
// populated during rule loading and read-only afterwards.
type ColorTable map[string]string

// Escape returns the escape sequence for name.
func (t ColorTable) Escape(name string) (string, bool) {
	seq, ok := t[name]
	return seq, ok
}

// ColorRule paints the span matched by Pattern (the sole capture group's
// span when the pattern has one) with the named color.
type ColorRule struct {
	Pattern *regexp.Regexp
	Color   string
}

// Config holds the filter chain and color rules for one kind of source.
type Config struct {
	Match   *regexp.Regexp // nil for the default and stdin configs
	Filters []filter.Rule
	Colors  []ColorRule
	Default bool
	Stdin   bool
}

// Resolved bundles everything a worker needs to process lines from one
// source.
type Resolved struct {
	Table   ColorTable
	Colors  []ColorRule
	Filters []filter.Rule
}

// Store is the immutable result of loading a rule file: a color table, the
// ordered per-pattern configs, one default config, and an optional stdin
// config. Concurrent reads require no locking.
type Store struct {
	table   ColorTable
	configs []Config
	def     Config
	stdin   *Config
}

// Empty returns a store with no filters, no color rules, and a reset-only
// color table. It is the fallback for a missing or malformed rule file.
func Empty() *Store {
	return &Store{table: ColorTable{Reset: "\x1b[0m"}}
}

// seededTable returns the color table every successfully parsed rule file
// starts from: reset plus the sixteen standard ANSI color names. ansi:
// declarations override these seeds.
func seededTable() ColorTable {
	table := ColorTable{Reset: "\x1b[0m"}
	base := []string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}
	for i, name := range base {
		table[name] = fmt.Sprintf("\x1b[0;%dm", 30+i)
		table["bright"+name] = fmt.Sprintf("\x1b[1;%dm", 30+i)
	}
	return table
}

// Load reads and parses the rule file at path. A missing or unreadable file
// is not an error: the empty store is returned silently. A malformed file
// returns the empty store together with the parse error so the caller can
// report it; loading is all-or-nothing.
func Load(path string) (*Store, error) {
	resolved, err := expandPath(path)
	if err != nil {
		return Empty(), nil
	}
	file, err := os.Open(resolved)
	if err != nil {
		return Empty(), nil
	}
	defer func() { _ = file.Close() }()

	store, err := Parse(file)
	if err != nil {
		return Empty(), fmt.Errorf("parse %s: %w", resolved, err)
	}
	return store, nil
}

// Table exposes the store's color table.
func (s *Store) Table() ColorTable {
	return s.table
}

// Resolve returns the configuration for a file source, scanning the
// per-pattern configs in declaration order and selecting the first whose
// pattern matches basename, falling back to the default config.
func (s *Store) Resolve(basename string) Resolved {
	for _, cfg := range s.configs {
		if cfg.Match.MatchString(basename) {
			return s.resolved(cfg)
		}
	}
	return s.resolved(s.def)
}

// ResolveStdin returns the configuration for the standard-input source: the
// dedicated stdin config when one was declared, else the default config.
func (s *Store) ResolveStdin() Resolved {
	if s.stdin != nil {
		return s.resolved(*s.stdin)
	}
	return s.resolved(s.def)
}

func (s *Store) resolved(cfg Config) Resolved {
	return Resolved{Table: s.table, Colors: cfg.Colors, Filters: cfg.Filters}
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
