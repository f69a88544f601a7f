package domain

// InsightPayload es el cuerpo enviado al servicio de insights.
// Ambos campos son strings con JSON serializado, ordenados por fecha.
type InsightPayload struct {
	MoodData    string `json:"moodData"`
	ThemeScores string `json:"themeScores"`
}

// MoodPoint es un elemento de MoodData.
type MoodPoint struct {
	Date string  `json:"date"`
	Mood *string `json:"mood"`
}
