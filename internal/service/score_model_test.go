package service

import (
	"errors"
	"math"
	"testing"

	"mood-tracker/internal/domain"
)

func uniformScores(v float64) domain.ThemeScores {
	scores := domain.ThemeScores{}
	for _, theme := range domain.Themes {
		scores[theme] = v
	}
	return scores
}

func TestDeriveThemeTotal_SumsAndRounds(t *testing.T) {
	detailed := domain.DetailedScores{
		domain.ThemeSleep: {0: domain.AnswerPositive, 1: domain.AnswerPositive, 2: domain.AnswerNegative},
	}
	if got := DeriveThemeTotal(detailed, domain.ThemeSleep); got != 0.25 {
		t.Fatalf("expected 0.25, got %v", got)
	}
	if got := DeriveThemeTotal(detailed, domain.ThemeDiet); got != 0 {
		t.Fatalf("expected missing theme to total 0, got %v", got)
	}
}

func TestDeriveThemeTotal_ClampsCorruptedValues(t *testing.T) {
	detailed := domain.DetailedScores{
		domain.ThemeFitness: {0: 5, 1: 0.25},
		domain.ThemeDiet:    {0: -9},
		domain.ThemeSleep:   {0: domain.Answer(math.NaN()), 1: domain.AnswerPositive},
	}
	if got := DeriveThemeTotal(detailed, domain.ThemeFitness); got != 2 {
		t.Fatalf("expected clamp to 2, got %v", got)
	}
	if got := DeriveThemeTotal(detailed, domain.ThemeDiet); got != -2 {
		t.Fatalf("expected clamp to -2, got %v", got)
	}
	if got := DeriveThemeTotal(detailed, domain.ThemeSleep); got != 0.25 {
		t.Fatalf("expected NaN to be ignored, got %v", got)
	}
}

func TestDeriveThemeTotal_RangeForAllAnswerCombinations(t *testing.T) {
	answers := []domain.Answer{domain.AnswerNegative, domain.AnswerNeutral, domain.AnswerPositive}
	for _, a := range answers {
		for _, b := range answers {
			slots := domain.ThemeAnswers{}
			for i := 0; i < domain.SlotsPerTheme; i++ {
				if i%2 == 0 {
					slots[i] = a
				} else {
					slots[i] = b
				}
			}
			got := DeriveThemeTotal(domain.DetailedScores{domain.ThemeDiet: slots}, domain.ThemeDiet)
			if got < -2 || got > 2 {
				t.Fatalf("total out of range for %v/%v: %v", a, b, got)
			}
		}
	}
}

func TestDeriveOverallMood_Boundaries(t *testing.T) {
	cases := []struct {
		name string
		v    float64
		want domain.MoodCategory
	}{
		{"bad boundary inclusive", -0.75, domain.MoodBad},
		{"just above bad", -0.5, domain.MoodNormal},
		{"neutral", 0, domain.MoodNormal},
		{"just below good", 0.5, domain.MoodNormal},
		{"good boundary inclusive", 0.75, domain.MoodGood},
		{"max", 2, domain.MoodGood},
		{"min", -2, domain.MoodBad},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveOverallMood(uniformScores(tc.v), DefaultMoodThresholds)
			if got.Category != tc.want {
				t.Fatalf("expected %s, got %s (avg=%v)", tc.want, got.Category, got.Average)
			}
			if got.Average != tc.v {
				t.Fatalf("expected average %v, got %v", tc.v, got.Average)
			}
		})
	}
}

func TestDeriveOverallMood_NilScoresIsCalculating(t *testing.T) {
	got := DeriveOverallMood(nil, DefaultMoodThresholds)
	if got.Category != domain.MoodCalculating {
		t.Fatalf("expected calculating, got %s", got.Category)
	}
}

func TestDeriveOverallMood_CustomThresholds(t *testing.T) {
	got := DeriveOverallMood(uniformScores(0.5), MoodThresholds{Bad: -0.5, Good: 0.5})
	if got.Category != domain.MoodGood {
		t.Fatalf("expected good with custom thresholds, got %s", got.Category)
	}
}

func TestNewDailyEntry_AllNeutral(t *testing.T) {
	entry := NewDailyEntry("2030-01-01")
	if entry.Mood != nil {
		t.Fatalf("expected nil mood")
	}
	count := 0
	for _, theme := range domain.Themes {
		if entry.Scores[theme] != 0 {
			t.Fatalf("expected zero total for %s, got %v", theme, entry.Scores[theme])
		}
		for slot := 0; slot < domain.SlotsPerTheme; slot++ {
			v, ok := entry.DetailedScores[theme][slot]
			if !ok || v != domain.AnswerNeutral {
				t.Fatalf("expected neutral at %s[%d]", theme, slot)
			}
			count++
		}
	}
	if count != 56 {
		t.Fatalf("expected 56 slots, got %d", count)
	}
}

func TestCompleteEntry_RepairsAndRecomputes(t *testing.T) {
	mood := "tired"
	raw := domain.DailyEntry{
		Date: "2024-03-10",
		Mood: &mood,
		// cache viejo que no coincide con las respuestas
		Scores: domain.ThemeScores{domain.ThemeSleep: 1.75},
		DetailedScores: domain.DetailedScores{
			domain.ThemeSleep: {0: domain.AnswerPositive, 3: 0.4},
		},
	}
	got := CompleteEntry(raw)

	if got.Scores[domain.ThemeSleep] != 0.25 {
		t.Fatalf("expected recomputed sleep total 0.25, got %v", got.Scores[domain.ThemeSleep])
	}
	if got.DetailedScores[domain.ThemeSleep][3] != domain.AnswerNeutral {
		t.Fatalf("expected illegal answer replaced by neutral")
	}
	if len(got.DetailedScores) != len(domain.Themes) {
		t.Fatalf("expected all themes present, got %d", len(got.DetailedScores))
	}
	if got.Mood == nil || *got.Mood != "tired" {
		t.Fatalf("expected mood preserved")
	}
	mood = "changed"
	if *got.Mood != "tired" {
		t.Fatalf("expected mood to be copied, not aliased")
	}
}

func TestSetAnswer_UpdatesThemeTotal(t *testing.T) {
	entry := NewDailyEntry("2024-03-10")
	var err error
	for slot := 0; slot < 3; slot++ {
		entry, err = SetAnswer(entry, domain.ThemeDiet, slot, domain.AnswerNegative)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if entry.Scores[domain.ThemeDiet] != -0.75 {
		t.Fatalf("expected -0.75, got %v", entry.Scores[domain.ThemeDiet])
	}
	if entry.Scores[domain.ThemeSleep] != 0 {
		t.Fatalf("expected other themes untouched")
	}
}

func TestSetAnswer_RejectsInvalidInput(t *testing.T) {
	entry := NewDailyEntry("2024-03-10")
	if _, err := SetAnswer(entry, domain.Theme("work"), 0, domain.AnswerPositive); !errors.Is(err, ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}
	if _, err := SetAnswer(entry, domain.ThemeSleep, 8, domain.AnswerPositive); !errors.Is(err, ErrInvalidSlot) {
		t.Fatalf("expected ErrInvalidSlot, got %v", err)
	}
	if _, err := SetAnswer(entry, domain.ThemeSleep, -1, domain.AnswerPositive); !errors.Is(err, ErrInvalidSlot) {
		t.Fatalf("expected ErrInvalidSlot for negative slot, got %v", err)
	}
	if _, err := SetAnswer(entry, domain.ThemeSleep, 0, 0.5); !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("expected ErrInvalidAnswer, got %v", err)
	}
}
