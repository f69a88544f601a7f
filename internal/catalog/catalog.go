package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"mood-tracker/internal/domain"
)

//go:embed questions.yaml
var questionsYAML []byte

// AnswerLabels son los textos de las tres respuestas posibles.
type AnswerLabels struct {
	Negative string `yaml:"negative" json:"negative"`
	Neutral  string `yaml:"neutral" json:"neutral"`
	Positive string `yaml:"positive" json:"positive"`
}

type ThemeQuestions struct {
	Key       domain.Theme `yaml:"key" json:"key"`
	Label     string       `yaml:"label" json:"label"`
	Questions []string     `yaml:"questions" json:"questions"`
}

// Catalog es la configuracion estatica que consume la UI.
type Catalog struct {
	Answers AnswerLabels     `yaml:"answers" json:"answers"`
	Themes  []ThemeQuestions `yaml:"themes" json:"themes"`
}

// Load parsea el catalogo embebido y valida que coincida con la enumeracion de temas.
func Load() (*Catalog, error) {
	return Parse(questionsYAML)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Themes) != len(domain.Themes) {
		return nil, fmt.Errorf("catalog has %d themes, expected %d", len(c.Themes), len(domain.Themes))
	}
	for i, t := range c.Themes {
		if t.Key != domain.Themes[i] {
			return nil, fmt.Errorf("catalog theme %d is %q, expected %q", i, t.Key, domain.Themes[i])
		}
		if len(t.Questions) != domain.SlotsPerTheme {
			return nil, fmt.Errorf("theme %s has %d questions, expected %d", t.Key, len(t.Questions), domain.SlotsPerTheme)
		}
	}
	return &c, nil
}
