package catalog

import (
	"testing"

	"mood-tracker/internal/domain"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	for i, theme := range c.Themes {
		if theme.Label != domain.Themes[i].Label() {
			t.Fatalf("theme %d label %q, expected %q", i, theme.Label, domain.Themes[i].Label())
		}
	}
	if c.Answers.Neutral == "" {
		t.Fatalf("expected answer labels")
	}
}

func TestParseRejectsWrongQuestionCount(t *testing.T) {
	data := []byte(`
themes:
  - key: sleep
    label: Sleep
    questions: [a, b]
`)
	if _, err := Parse(data); err == nil {
		t.Fatalf("expected error for incomplete catalog")
	}
}
