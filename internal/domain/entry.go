package domain

import (
	"sort"
	"time"
)

// DateLayout es el formato de la clave de cada entrada diaria.
const DateLayout = "2006-01-02"

// Answer es la respuesta a una pregunta: -0.25, 0 o +0.25.
type Answer float64

const (
	AnswerNegative Answer = -0.25
	AnswerNeutral  Answer = 0
	AnswerPositive Answer = 0.25
)

// Valid indica si la respuesta es uno de los tres valores legales.
func (a Answer) Valid() bool {
	return a == AnswerNegative || a == AnswerNeutral || a == AnswerPositive
}

// ThemeAnswers mapea indice de pregunta (0-7) a respuesta.
type ThemeAnswers map[int]Answer

// DetailedScores es la fuente de verdad de una entrada.
type DetailedScores map[Theme]ThemeAnswers

// ThemeScores es el cache derivado de DetailedScores: total por tema en [-2, 2].
type ThemeScores map[Theme]float64

// DailyEntry es la unidad de persistencia, una por fecha y scope.
type DailyEntry struct {
	Date           string         `json:"date"`
	Mood           *string        `json:"mood"`
	Scores         ThemeScores    `json:"scores,omitempty"`
	DetailedScores DetailedScores `json:"detailedScores,omitempty"`
}

// EntryCollection agrupa las entradas de un scope por fecha.
type EntryCollection map[string]DailyEntry

// SortedDates devuelve las fechas en orden ascendente.
func (c EntryCollection) SortedDates() []string {
	dates := make([]string, 0, len(c))
	for d := range c {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Sorted devuelve las entradas ordenadas por fecha ascendente.
func (c EntryCollection) Sorted() []DailyEntry {
	out := make([]DailyEntry, 0, len(c))
	for _, d := range c.SortedDates() {
		out = append(out, c[d])
	}
	return out
}

// ValidDate valida una clave YYYY-MM-DD.
func ValidDate(date string) bool {
	if len(date) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

type MoodCategory string

const (
	MoodBad    MoodCategory = "bad"
	MoodNormal MoodCategory = "normal"
	MoodGood   MoodCategory = "good"
	// MoodCalculating se devuelve cuando todavia no hay scores disponibles.
	MoodCalculating MoodCategory = "calculating"
)

// CalculatedMood es derivado, nunca se persiste.
type CalculatedMood struct {
	Category MoodCategory `json:"category"`
	Total    float64      `json:"total"`
	Average  float64      `json:"average"`
}
