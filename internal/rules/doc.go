// Package rules loads and resolves huetail rule files.
//
// # Overview
//
// A rule file tells huetail how to treat lines from each source: which
// filter rules to run, which regex spans to color, and what the symbolic
// color names mean. This package parses that file once at startup into an
// immutable Store that workers read concurrently without locking.
//
// # Rule File Grammar
//
// The file is line oriented. Blank lines and lines starting with # are
// ignored. Two block kinds exist at the top level:
//
//	ansi: {
//	  green     = 0;32
//	  brightred = 1;31
//	  urgent    = 1;37;41
//	}
//
//	match /app\.log$/, /sys.*\.log$/ {
//	  sub   /secret=[^ ]+/secret=***/
//	  deny  /debug:/
//	  color green     /info:.*/
//	  color brightred /(error)/
//	}
//
//	match default { ... }
//	match stdin { ... }
//
// An ansi: block maps color names to SGR parameter strings; the escape
// sequence emitted for a name is ESC [ value m. Multiple ansi: blocks merge
// with last-value-wins per name. Every parsed file starts from a seeded
// table holding reset and the sixteen standard color names (black..white
// and their bright variants), so simple rule files need no ansi: block.
//
// A match header lists one or more groups separated by commas: a regex
// between a pair of identical punctuation delimiters, or the literal
// keyword stdin or default. All regexes of one header combine into a single
// alternation matched against a source's base filename. When several
// default (or stdin) blocks appear, the last one wins.
//
// Body directives keep their declaration order:
//
//	sub   <d>pattern<d>replacement<d>   rewrite matches; \1..\9 reference groups
//	allow <d>pattern<d>                 re-keep a previously denied line
//	deny  <d>pattern<d>                 drop a matching line
//	color <name> <d>pattern<d>          paint the match (or its sole capture group)
//
// The delimiter <d> is whatever punctuation rune follows the keyword, so
// patterns containing slashes can pick another character.
//
// # Loading Is All-or-Nothing
//
// Any structural error (unknown directive, bad or missing delimiter,
// unclosed block, invalid regex) aborts the entire load with a *ParseError
// carrying the offending line number. The caller falls back to Empty() — a
// store with no rules and a reset-only table — so a broken rule file
// degrades to plain uncolored tailing rather than to half a configuration.
// A missing rule file is not an error at all.
//
// # Resolution
//
// Resolve scans the per-pattern configs in declaration order and returns
// the first whose pattern matches the basename; first match wins. Sources
// matching nothing get the default config, and standard input gets the
// dedicated stdin config when one was declared.
//
// Color rules that name a color absent from the table are dropped during
// load, not reported. The check runs after the whole file has merged, so an
// ansi: declaration anywhere in the file keeps a rule alive even when it
// appears after the match block using it.
package rules
