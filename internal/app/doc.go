// Package app provides the orchestration layer for huetail.
//
// # Overview
//
// This package wires together preferences, the rule store, tail sources,
// the filter chain, and the colorizer, and runs one worker per input until
// every source is exhausted. It is the composition root: everything below
// it is a leaf package that knows nothing about the others.
//
// # Data Flow
//
//	Run()
//	 ├─> prefs.Load()        defaults for flags left unset
//	 ├─> rules.Load()        rule store (empty store on config errors)
//	 ├─> tail.Open()         one source per path (or stdin)
//	 └─> errgroup            one worker per source
//
//	Worker loop, per source:
//	  tail.Source.Next ──> filter.Apply ──> paint.Paint ──> printer.print
//	                          │(dropped)
//	                          └──> next line
//
// # Concurrency
//
// Workers run independently; the only shared state is the printer (mutex,
// buffered writer, last-printed-source marker). Cross-source line ordering
// reflects lock acquisition order and is deliberately unspecified; within a
// source, order is preserved, and no line is ever interleaved with another
// at sub-line granularity. The process-level context from cmd/huetail
// cancels every worker on an interrupt.
//
// Headers are printed only when the active source changes, and only when
// more than one source is present or verbose mode asks for them; silent
// mode suppresses headers and advisory messages both.
//
// # Error Handling
//
// Fatal (returned from Run):
//   - no input could be opened at all
//   - a write to the output sink failed; buffered output cannot be
//     trusted afterwards, so the whole process stops non-zero
//
// Recoverable (reported to stderr, execution continues):
//   - a malformed rule file: the run proceeds with no rules in effect
//   - one of several inputs failing to open
//
// Silent (worker just ends):
//   - read errors after streaming has begun; sibling sources keep flowing
//
// Diagnostics go to stderr so that redirected stdout stays pure data.
package app
