package service

import "testing"

func TestCleanInsightText(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "  Sleep is steady.  ", "Sleep is steady."},
		{"bom", "\uFEFFDiet improved.", "Diet improved."},
		{"fenced", "```\nFitness dips on Mondays.\n```", "Fitness dips on Mondays."},
		{"fenced with language", "```markdown\nTry an earlier bedtime.\n```", "Try an earlier bedtime."},
		{"collapses blank runs", "First.\n\n\n\nSecond.", "First.\n\nSecond."},
		{"windows newlines", "First.\r\n\r\n\r\nSecond.", "First.\n\nSecond."},
		{"inner backticks kept", "Use `sleep` notes.", "Use `sleep` notes."},
		{"empty", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cleanInsightText(tc.raw); got != tc.want {
				t.Fatalf("cleanInsightText(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}
