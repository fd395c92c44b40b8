package rules

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/five82/huetail/internal/filter"
)

// ParseError reports a structural problem in a rule file. Any ParseError
// aborts the entire load; partially applied rule files never take effect.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

type parseState int

const (
	stateTop parseState = iota
	stateAnsi
	stateMatch
)

// rawColor keeps a color rule before the table lookup. Rules naming colors
// absent from the fully merged table are dropped when the store is built,
// so a later ansi: declaration always counts regardless of file order.
type rawColor struct {
	pattern *regexp.Regexp
	name    string
}

type block struct {
	line      int
	patterns  []string
	isDefault bool
	isStdin   bool
	filters   []filter.Rule
	colors    []rawColor
}

// Parse reads a rule description and builds a Store. The description is
// line oriented:
//
//	ansi: {
//	  brightred = 1;31
//	}
//	match /app\.log$/, default {
//	  sub   /secret=[^ ]+/secret=***/
//	  deny  /debug:/
//	  color brightred /error/
//	}
//
// See the package documentation for the full grammar.
func Parse(r io.Reader) (*Store, error) {
	table := seededTable()
	var blocks []*block
	var cur *block

	state := stateTop
	lineno := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch state {
		case stateTop:
			word := firstWord(line)
			switch {
			case strings.HasPrefix(line, "ansi:"):
				if rest := strings.TrimSpace(line[len("ansi:"):]); rest != "{" {
					return nil, &ParseError{lineno, `expected "{" after ansi:`}
				}
				state = stateAnsi
			case word == "match":
				rest := strings.TrimSpace(line[len("match"):])
				if !strings.HasSuffix(rest, "{") {
					return nil, &ParseError{lineno, `match header missing "{"`}
				}
				header := strings.TrimSpace(strings.TrimSuffix(rest, "{"))
				b, err := parseMatchHeader(header, lineno)
				if err != nil {
					return nil, err
				}
				cur = b
				state = stateMatch
			case word == "color" || word == "sub" || word == "allow" || word == "deny":
				return nil, &ParseError{lineno, fmt.Sprintf("%s directive outside a match block", word)}
			default:
				return nil, &ParseError{lineno, fmt.Sprintf("unknown directive %q", word)}
			}

		case stateAnsi:
			if line == "}" {
				state = stateTop
				continue
			}
			name, value, ok := strings.Cut(line, "=")
			if !ok {
				return nil, &ParseError{lineno, "expected name = value in ansi: block"}
			}
			name = strings.TrimSpace(name)
			value = strings.TrimSpace(value)
			if !isColorName(name) {
				return nil, &ParseError{lineno, fmt.Sprintf("bad color name %q", name)}
			}
			if value == "" {
				return nil, &ParseError{lineno, fmt.Sprintf("color %q has no value", name)}
			}
			table[name] = "\x1b[" + value + "m"

		case stateMatch:
			if line == "}" {
				blocks = append(blocks, cur)
				cur = nil
				state = stateTop
				continue
			}
			word := firstWord(line)
			rest := strings.TrimSpace(line[len(word):])
			switch word {
			case "color":
				name := firstWord(rest)
				if name == "" {
					return nil, &ParseError{lineno, "color directive needs a color name"}
				}
				fields, err := splitDelimited(strings.TrimSpace(rest[len(name):]), 1, lineno)
				if err != nil {
					return nil, err
				}
				re, err := compilePattern(fields[0], lineno)
				if err != nil {
					return nil, err
				}
				if re.NumSubexp() > 1 {
					return nil, &ParseError{lineno, "color pattern has more than one capture group"}
				}
				cur.colors = append(cur.colors, rawColor{pattern: re, name: name})
			case "sub":
				fields, err := splitDelimited(rest, 2, lineno)
				if err != nil {
					return nil, err
				}
				re, err := compilePattern(fields[0], lineno)
				if err != nil {
					return nil, err
				}
				cur.filters = append(cur.filters, filter.Rule{
					Action:      filter.Substitute,
					Pattern:     re,
					Replacement: substReplacement(fields[1]),
				})
			case "allow", "deny":
				fields, err := splitDelimited(rest, 1, lineno)
				if err != nil {
					return nil, err
				}
				re, err := compilePattern(fields[0], lineno)
				if err != nil {
					return nil, err
				}
				action := filter.Allow
				if word == "deny" {
					action = filter.Deny
				}
				cur.filters = append(cur.filters, filter.Rule{Action: action, Pattern: re})
			case "match":
				return nil, &ParseError{lineno, "match block inside a match block"}
			default:
				if strings.HasPrefix(line, "ansi:") {
					return nil, &ParseError{lineno, "ansi: block inside a match block"}
				}
				return nil, &ParseError{lineno, fmt.Sprintf("unknown directive %q", word)}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	if state != stateTop {
		return nil, &ParseError{lineno, "unclosed block at end of file"}
	}

	return buildStore(table, blocks)
}

// buildStore assembles the immutable store from parsed blocks. Color rules
// are checked against the merged table here, after the full file has been
// read.
func buildStore(table ColorTable, blocks []*block) (*Store, error) {
	store := &Store{table: table}
	for _, b := range blocks {
		cfg := Config{
			Filters: b.filters,
			Colors:  knownColors(b.colors, table),
		}
		if len(b.patterns) > 0 {
			re, err := compileAlternation(b.patterns)
			if err != nil {
				return nil, &ParseError{b.line, fmt.Sprintf("bad match pattern: %v", err)}
			}
			matched := cfg
			matched.Match = re
			store.configs = append(store.configs, matched)
		}
		if b.isDefault {
			def := cfg
			def.Default = true
			store.def = def
		}
		if b.isStdin {
			std := cfg
			std.Stdin = true
			store.stdin = &std
		}
	}
	return store, nil
}

func knownColors(raw []rawColor, table ColorTable) []ColorRule {
	var colors []ColorRule
	for _, rc := range raw {
		if _, ok := table.Escape(rc.name); !ok {
			continue
		}
		colors = append(colors, ColorRule{Pattern: rc.pattern, Color: rc.name})
	}
	return colors
}

// parseMatchHeader splits the text between "match" and "{" into groups: the
// keywords default and stdin, or delimited regexes. Groups are separated by
// commas.
func parseMatchHeader(header string, lineno int) (*block, error) {
	b := &block{line: lineno}
	rest := strings.TrimSpace(header)
	if rest == "" {
		return nil, &ParseError{lineno, "match header names no sources"}
	}
	for rest != "" {
		r, size := utf8.DecodeRuneInString(rest)
		if unicode.IsLetter(r) {
			word := leadingLetters(rest)
			switch word {
			case "default":
				b.isDefault = true
			case "stdin":
				b.isStdin = true
			default:
				return nil, &ParseError{lineno, fmt.Sprintf("unknown match keyword %q", word)}
			}
			rest = rest[len(word):]
		} else {
			if !isDelimiter(r) {
				return nil, &ParseError{lineno, fmt.Sprintf("bad delimiter %q", r)}
			}
			end := strings.IndexRune(rest[size:], r)
			if end < 0 {
				return nil, &ParseError{lineno, "missing closing delimiter"}
			}
			pattern := rest[size : size+end]
			if _, err := compilePattern(pattern, lineno); err != nil {
				return nil, err
			}
			b.patterns = append(b.patterns, pattern)
			rest = rest[size+end+size:]
		}
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" {
			break
		}
		if rest[0] != ',' {
			return nil, &ParseError{lineno, "expected ',' between match groups"}
		}
		rest = strings.TrimLeft(rest[1:], " \t")
		if rest == "" {
			return nil, &ParseError{lineno, "trailing ',' in match header"}
		}
	}
	return b, nil
}

// splitDelimited parses "<d>field<d>[field<d>...]" where <d> is the first
// rune of body and must be punctuation. Exactly nfields fields and a
// closing delimiter are required.
func splitDelimited(body string, nfields, lineno int) ([]string, error) {
	if body == "" {
		return nil, &ParseError{lineno, "missing pattern"}
	}
	d, size := utf8.DecodeRuneInString(body)
	if !isDelimiter(d) {
		return nil, &ParseError{lineno, fmt.Sprintf("bad delimiter %q", d)}
	}
	parts := strings.Split(body[size:], string(d))
	if len(parts) < nfields+1 {
		return nil, &ParseError{lineno, "missing closing delimiter"}
	}
	if len(parts) > nfields+1 || strings.TrimSpace(parts[nfields]) != "" {
		return nil, &ParseError{lineno, "unexpected text after closing delimiter"}
	}
	return parts[:nfields], nil
}

func compilePattern(pattern string, lineno int) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &ParseError{lineno, fmt.Sprintf("bad pattern %q: %v", pattern, err)}
	}
	return re, nil
}

func compileAlternation(patterns []string) (*regexp.Regexp, error) {
	if len(patterns) == 1 {
		return regexp.Compile(patterns[0])
	}
	wrapped := make([]string, len(patterns))
	for i, p := range patterns {
		wrapped[i] = "(?:" + p + ")"
	}
	return regexp.Compile(strings.Join(wrapped, "|"))
}

var backref = regexp.MustCompile(`\\([0-9])`)

// substReplacement converts the rule-file replacement syntax (backslash
// group references, literal dollar signs) into regexp.ReplaceAllString
// syntax.
func substReplacement(raw string) string {
	escaped := strings.ReplaceAll(raw, "$", "$$")
	return backref.ReplaceAllStringFunc(escaped, func(m string) string {
		return "${" + m[len(`\`):] + "}"
	})
}

func isDelimiter(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) && r != utf8.RuneError
}

func isColorName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

func leadingLetters(s string) string {
	for i, r := range s {
		if !unicode.IsLetter(r) {
			return s[:i]
		}
	}
	return s
}

func firstWord(s string) string {
	for i, r := range s {
		if unicode.IsSpace(r) {
			return s[:i]
		}
	}
	return s
}
