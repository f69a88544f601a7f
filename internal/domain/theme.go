package domain

import "strings"

// Theme identifica uno de los dominios de vida evaluados cada dia.
type Theme string

const (
	ThemeSleep           Theme = "sleep"
	ThemeMoodQuality     Theme = "moodQuality"
	ThemeFitness         Theme = "fitness"
	ThemeDiet            Theme = "diet"
	ThemeSocialRelations Theme = "socialRelations"
	ThemeFamilyRelations Theme = "familyRelations"
	ThemeSelfEducation   Theme = "selfEducation"
)

// SlotsPerTheme es la cantidad fija de preguntas por tema (indices 0-7).
const SlotsPerTheme = 8

// Themes es el orden canonico: columnas de export, payloads y promedios lo respetan.
var Themes = []Theme{
	ThemeSleep,
	ThemeMoodQuality,
	ThemeFitness,
	ThemeDiet,
	ThemeSocialRelations,
	ThemeFamilyRelations,
	ThemeSelfEducation,
}

var themeLabels = map[Theme]string{
	ThemeSleep:           "Sleep",
	ThemeMoodQuality:     "MoodQuality",
	ThemeFitness:         "Fitness",
	ThemeDiet:            "Diet",
	ThemeSocialRelations: "SocialRelations",
	ThemeFamilyRelations: "FamilyRelations",
	ThemeSelfEducation:   "SelfEducation",
}

// Label devuelve el nombre usado en la cabecera de la hoja exportada.
func (t Theme) Label() string {
	if l, ok := themeLabels[t]; ok {
		return l
	}
	return string(t)
}

func (t Theme) Valid() bool {
	_, ok := themeLabels[t]
	return ok
}

// ParseTheme acepta la clave JSON ("moodQuality") o la etiqueta ("MoodQuality"), sin distinguir mayusculas.
func ParseTheme(raw string) (Theme, bool) {
	s := strings.TrimSpace(raw)
	for _, t := range Themes {
		if strings.EqualFold(s, string(t)) || strings.EqualFold(s, t.Label()) {
			return t, true
		}
	}
	return "", false
}
