package paint

import (
	"strings"

	"github.com/five82/huetail/internal/rules"
)

// Paint applies the ordered color rules to line and returns it with escape
// sequences woven in. Rules are applied in declaration order onto a per-byte
// color assignment, so later rules overwrite earlier ones where their spans
// overlap. A rule with a capture group colors only the group's span,
// otherwise the whole match; matches of one rule are non-overlapping, each
// search continuing from the previous match's end.
//
// Escape sequences appear only where the assigned color changes: a reset
// followed by the new color's sequence on entering a colored span, a bare
// reset on leaving one, and a final reset when the line ends colored. A
// line no rule touches comes back unchanged.
func Paint(table rules.ColorTable, ruleList []rules.ColorRule, line string) string {
	if line == "" || len(ruleList) == 0 {
		return line
	}

	assign := make([]string, len(line))
	painted := false
	for _, rule := range ruleList {
		if _, ok := table.Escape(rule.Color); !ok {
			continue
		}
		for _, m := range rule.Pattern.FindAllStringSubmatchIndex(line, -1) {
			start, end := m[0], m[1]
			if rule.Pattern.NumSubexp() > 0 && m[2] >= 0 {
				start, end = m[2], m[3]
			}
			for i := start; i < end; i++ {
				assign[i] = rule.Color
				painted = true
			}
		}
	}
	if !painted {
		return line
	}

	reset, _ := table.Escape(rules.Reset)
	var b strings.Builder
	b.Grow(len(line) + 16)
	current := ""
	for i := 0; i < len(line); i++ {
		if assign[i] != current {
			b.WriteString(reset)
			if assign[i] != "" {
				seq, _ := table.Escape(assign[i])
				b.WriteString(seq)
			}
			current = assign[i]
		}
		b.WriteByte(line[i])
	}
	if current != "" {
		b.WriteString(reset)
	}
	return b.String()
}
