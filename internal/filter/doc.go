// Package filter implements the per-source line filter chain.
//
// # Overview
//
// Every line read from a source passes through an ordered chain of filter
// rules before it is colorized or printed. A rule either rewrites the line
// (Substitute) or votes on whether it should be printed at all (Allow/Deny).
//
// # Chain Semantics
//
// The chain carries a (text, keep) pair through the rules in declaration
// order. keep starts true:
//
//   - Substitute replaces all non-overlapping matches of its pattern in the
//     current text. The keep decision is untouched.
//   - Deny flips keep to false when the line is currently kept and the
//     pattern matches.
//   - Allow flips keep back to true when the line is currently dropped and
//     the pattern matches.
//
// Allow and Deny are deliberately asymmetric no-ops when the decision
// already has their polarity: an allow rule followed by a matching deny
// still drops the line, but two deny rules in a row cannot "double drop" it
// and a later allow can always rescue it. This mirrors the order-sensitive
// allow/deny semantics of classic log colorizers.
//
// A line whose final keep is false is discarded and never reaches the
// colorizer or the output sink.
//
// # Design Rationale
//
// Rules are a closed tagged variant (Action enum plus shared fields) rather
// than an interface. There are exactly three behaviors, they are dispatched
// in exactly one place (Apply), and a closed set keeps the chain trivially
// serializable from the rule file.
package filter
