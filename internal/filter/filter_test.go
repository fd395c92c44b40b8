package filter

import (
	"regexp"
	"testing"
)

func mustRule(action Action, pattern, replacement string) Rule {
	return Rule{Action: action, Pattern: regexp.MustCompile(pattern), Replacement: replacement}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		chain    []Rule
		line     string
		wantText string
		wantKeep bool
	}{
		{
			name:     "empty chain keeps line",
			chain:    nil,
			line:     "hello",
			wantText: "hello",
			wantKeep: true,
		},
		{
			name:     "substitute all matches",
			chain:    []Rule{mustRule(Substitute, "o", "0")},
			line:     "foo bok",
			wantText: "f00 b0k",
			wantKeep: true,
		},
		{
			name:     "substitute with capture reference",
			chain:    []Rule{mustRule(Substitute, `user=(\w+)`, "user=<${1}>")},
			line:     "login user=alice ok",
			wantText: "login user=<alice> ok",
			wantKeep: true,
		},
		{
			name:     "deny drops matching line",
			chain:    []Rule{mustRule(Deny, "debug:", "")},
			line:     "debug: noisy",
			wantText: "debug: noisy",
			wantKeep: false,
		},
		{
			name:     "deny ignores non-matching line",
			chain:    []Rule{mustRule(Deny, "debug:", "")},
			line:     "info: fine",
			wantText: "info: fine",
			wantKeep: true,
		},
		{
			name: "allow rescues denied line",
			chain: []Rule{
				mustRule(Deny, ".*", ""),
				mustRule(Allow, "important", ""),
			},
			line:     "important notice",
			wantText: "important notice",
			wantKeep: true,
		},
		{
			name: "allow before deny does not shield the line",
			chain: []Rule{
				mustRule(Allow, "important", ""),
				mustRule(Deny, "important", ""),
			},
			line:     "important notice",
			wantText: "important notice",
			wantKeep: false,
		},
		{
			name: "substitution can defeat a later deny",
			chain: []Rule{
				mustRule(Substitute, "debug", "trace"),
				mustRule(Deny, "debug", ""),
			},
			line:     "debug: rewritten",
			wantText: "trace: rewritten",
			wantKeep: true,
		},
		{
			name: "deny then matching deny stays dropped",
			chain: []Rule{
				mustRule(Deny, "x", ""),
				mustRule(Deny, "x", ""),
			},
			line:     "x marks the spot",
			wantText: "x marks the spot",
			wantKeep: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotText, gotKeep := Apply(tt.chain, tt.line)
			if gotText != tt.wantText || gotKeep != tt.wantKeep {
				t.Errorf("Apply() = (%q, %v), want (%q, %v)", gotText, gotKeep, tt.wantText, tt.wantKeep)
			}
		})
	}
}

func TestApplyIsDeterministic(t *testing.T) {
	chain := []Rule{
		mustRule(Substitute, `(\d+)ms`, "${1} ms"),
		mustRule(Deny, "slow", ""),
		mustRule(Allow, "timeout", ""),
	}
	line := "slow request timeout after 1500ms"

	firstText, firstKeep := Apply(chain, line)
	for i := 0; i < 10; i++ {
		text, keep := Apply(chain, line)
		if text != firstText || keep != firstKeep {
			t.Fatalf("run %d: Apply() = (%q, %v), want stable (%q, %v)", i, text, keep, firstText, firstKeep)
		}
	}
}
