package service

import (
	"errors"
	"fmt"
	"math"

	"mood-tracker/internal/domain"
)

const (
	maxThemeTotal = 2.0
	minThemeTotal = -2.0
)

// MoodThresholds define los cortes del promedio por tema. Ambos limites son inclusivos.
type MoodThresholds struct {
	Bad  float64
	Good float64
}

// DefaultMoodThresholds mantiene los cortes historicos (-0.75 / +0.75).
var DefaultMoodThresholds = MoodThresholds{Bad: -0.75, Good: 0.75}

var (
	ErrInvalidTheme  = errors.New("invalid theme")
	ErrInvalidSlot   = errors.New("invalid question slot")
	ErrInvalidAnswer = errors.New("invalid answer")
	ErrInvalidDate   = errors.New("invalid date")
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DeriveThemeTotal suma las 8 respuestas del tema (faltantes = 0), recorta a [-2, 2] y redondea a 2 decimales.
func DeriveThemeTotal(detailed domain.DetailedScores, theme domain.Theme) float64 {
	answers := detailed[theme]
	sum := 0.0
	for slot := 0; slot < domain.SlotsPerTheme; slot++ {
		v := float64(answers[slot])
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sum += v
	}
	if sum > maxThemeTotal {
		sum = maxThemeTotal
	}
	if sum < minThemeTotal {
		sum = minThemeTotal
	}
	return round2(sum)
}

// DeriveAllThemeTotals aplica DeriveThemeTotal a todos los temas.
func DeriveAllThemeTotals(detailed domain.DetailedScores) domain.ThemeScores {
	scores := make(domain.ThemeScores, len(domain.Themes))
	for _, theme := range domain.Themes {
		scores[theme] = DeriveThemeTotal(detailed, theme)
	}
	return scores
}

// DeriveOverallMood clasifica el promedio de los totales por tema.
// Con scores nil devuelve MoodCalculating para que la UI decida como mostrarlo.
func DeriveOverallMood(scores domain.ThemeScores, th MoodThresholds) domain.CalculatedMood {
	if scores == nil {
		return domain.CalculatedMood{Category: domain.MoodCalculating}
	}
	sum := 0.0
	for _, theme := range domain.Themes {
		sum += scores[theme]
	}
	avg := sum / float64(len(domain.Themes))

	category := domain.MoodNormal
	switch {
	case avg <= th.Bad:
		category = domain.MoodBad
	case avg >= th.Good:
		category = domain.MoodGood
	}
	return domain.CalculatedMood{
		Category: category,
		Total:    round2(sum),
		Average:  round2(avg),
	}
}

// NewDailyEntry crea una entrada con todas las respuestas en Neutral.
func NewDailyEntry(date string) domain.DailyEntry {
	return CompleteEntry(domain.DailyEntry{Date: date})
}

// CompleteEntry normaliza una entrada leida de cualquier backend: completa temas y
// slots faltantes con Neutral, descarta valores ilegales y recalcula Scores.
func CompleteEntry(raw domain.DailyEntry) domain.DailyEntry {
	detailed := make(domain.DetailedScores, len(domain.Themes))
	for _, theme := range domain.Themes {
		src := raw.DetailedScores[theme]
		answers := make(domain.ThemeAnswers, domain.SlotsPerTheme)
		for slot := 0; slot < domain.SlotsPerTheme; slot++ {
			v, ok := src[slot]
			if !ok || !v.Valid() {
				v = domain.AnswerNeutral
			}
			answers[slot] = v
		}
		detailed[theme] = answers
	}

	out := domain.DailyEntry{
		Date:           raw.Date,
		DetailedScores: detailed,
		Scores:         DeriveAllThemeTotals(detailed),
	}
	if raw.Mood != nil {
		mood := *raw.Mood
		out.Mood = &mood
	}
	return out
}

// SetAnswer escribe un slot y recalcula el total del tema. La entrada debe venir completa.
func SetAnswer(entry domain.DailyEntry, theme domain.Theme, slot int, answer domain.Answer) (domain.DailyEntry, error) {
	if !theme.Valid() {
		return entry, fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
	if slot < 0 || slot >= domain.SlotsPerTheme {
		return entry, fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	if !answer.Valid() {
		return entry, fmt.Errorf("%w: %v", ErrInvalidAnswer, float64(answer))
	}

	out := CompleteEntry(entry)
	out.DetailedScores[theme][slot] = answer
	out.Scores[theme] = DeriveThemeTotal(out.DetailedScores, theme)
	return out, nil
}
