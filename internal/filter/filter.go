package filter

import "regexp"

// Action identifies what a rule does to a line passing through the chain.
type Action int

const (
	// Substitute rewrites every non-overlapping match of Pattern using
	// Replacement, which may reference capture groups.
	Substitute Action = iota
	// Allow marks a previously denied line as kept when Pattern matches.
	Allow
	// Deny marks a previously kept line as dropped when Pattern matches.
	Deny
)

// Rule is one link of a per-source filter chain.
type Rule struct {
	Action      Action
	Pattern     *regexp.Regexp
	Replacement string // Substitute only
}

// Apply runs line through the chain in order and reports the resulting text
// and whether the line should be kept. A line starts kept; Allow and Deny
// only flip the decision when it currently differs from their polarity and
// their pattern matches the current text. Substitutions never change the
// keep decision.
func Apply(chain []Rule, line string) (string, bool) {
	keep := true
	text := line
	for _, rule := range chain {
		switch rule.Action {
		case Substitute:
			text = rule.Pattern.ReplaceAllString(text, rule.Replacement)
		case Allow:
			if !keep && rule.Pattern.MatchString(text) {
				keep = true
			}
		case Deny:
			if keep && rule.Pattern.MatchString(text) {
				keep = false
			}
		}
	}
	return text, keep
}
