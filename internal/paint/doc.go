// Package paint turns color rules into terminal escape sequences.
//
// # Overview
//
// Given a line and the ordered color rules resolved for its source, Paint
// produces the string actually written to the terminal. Conceptually it
// builds a color assignment covering every byte of the line, applies the
// rules onto it in order with last-write-wins on overlap, and then walks
// the line once, emitting an escape sequence only where the assigned color
// changes.
//
// # Minimal Escape Transitions
//
// The transition walk is the point of this package. A naive colorizer wraps
// every matched character in its own start/reset pair, which balloons the
// output and makes terminals repaint attributes per character. Paint emits:
//
//   - reset + color sequence when entering a span of a new color,
//   - reset when falling back to uncolored text,
//   - one final reset when the line ends inside a colored span.
//
// A ten-character match therefore costs two or three escape sequences, not
// twenty. Lines no rule touches (and empty lines) are returned unchanged,
// byte for byte.
//
// # Spans
//
// A rule's pattern may carry one capture group; the group's span is colored
// instead of the whole match. This lets a rule anchor on context without
// painting it, e.g. color red /level=(error)/ colors only the word error.
//
// Assignments are byte-indexed. Regex match boundaries always fall on rune
// boundaries, so a multi-byte rune is either fully inside or fully outside
// a span and never split by an escape sequence.
package paint
