package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"mood-tracker/internal/domain"
	"mood-tracker/internal/llm"
)

// MinInsightDays es la cantidad minima de fechas distintas para pedir insights.
const MinInsightDays = 3

var ErrInsufficientData = errors.New("insufficient data for insights")

// InsightRequester es el colaborador externo que devuelve texto libre.
type InsightRequester interface {
	RequestInsights(ctx context.Context, payload domain.InsightPayload) (string, error)
}

// BuildInsightPayload serializa el historial ordenado por fecha en los dos arrays esperados.
func BuildInsightPayload(entries domain.EntryCollection) (domain.InsightPayload, error) {
	sorted := entries.Sorted()
	moods := make([]domain.MoodPoint, 0, len(sorted))
	scores := make([]map[string]any, 0, len(sorted))
	for _, entry := range sorted {
		moods = append(moods, domain.MoodPoint{Date: entry.Date, Mood: entry.Mood})

		themeScores := entry.Scores
		if themeScores == nil {
			themeScores = DeriveAllThemeTotals(entry.DetailedScores)
		}
		row := make(map[string]any, len(domain.Themes)+1)
		row["date"] = entry.Date
		for _, theme := range domain.Themes {
			row[string(theme)] = themeScores[theme]
		}
		scores = append(scores, row)
	}

	moodJSON, err := json.Marshal(moods)
	if err != nil {
		return domain.InsightPayload{}, fmt.Errorf("marshal mood data: %w", err)
	}
	scoresJSON, err := json.Marshal(scores)
	if err != nil {
		return domain.InsightPayload{}, fmt.Errorf("marshal theme scores: %w", err)
	}
	return domain.InsightPayload{MoodData: string(moodJSON), ThemeScores: string(scoresJSON)}, nil
}

// LLMInsightRequester pide los insights directamente a un LLM compatible con OpenAI.
type LLMInsightRequester struct {
	llmClient llm.LLMClient
}

func NewLLMInsightRequester(llmClient llm.LLMClient) *LLMInsightRequester {
	return &LLMInsightRequester{llmClient: llmClient}
}

const insightPrompt = `You are a supportive wellbeing coach reviewing a personal daily self-assessment log.
Each day has a total per theme between -2 (bad) and +2 (good): sleep, moodQuality, fitness, diet,
socialRelations, familyRelations, selfEducation. Some days also carry a free mood label.

Write a short plain-text summary (max 8 sentences) with:
- the clearest trends over time,
- which themes seem to move together,
- one or two concrete, gentle suggestions.
Do not invent data that is not in the log.`

func (r *LLMInsightRequester) RequestInsights(ctx context.Context, payload domain.InsightPayload) (string, error) {
	prompt := "Mood data:\n" + payload.MoodData +
		"\n\nTheme scores:\n" + payload.ThemeScores

	raw, err := r.llmClient.GenerateWithSystem(ctx, insightPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("llm generate: %w", err)
	}
	text := cleanInsightText(raw)
	if text == "" {
		return "", fmt.Errorf("llm returned empty insights")
	}
	return text, nil
}

// InsightService aplica la precondicion de datos minimos y delega en el InsightRequester.
type InsightService struct {
	store     *EntryStore
	requester InsightRequester
	logger    *zap.Logger
}

func NewInsightService(store *EntryStore, requester InsightRequester, logger *zap.Logger) *InsightService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InsightService{store: store, requester: requester, logger: logger}
}

// Generate carga el historial del scope y pide insights si hay suficientes dias.
func (s *InsightService) Generate(ctx context.Context, scope string) (string, error) {
	return s.GenerateFor(ctx, s.store.GetAllEntries(ctx, scope))
}

// GenerateFor no llama al servicio externo con menos de MinInsightDays fechas.
func (s *InsightService) GenerateFor(ctx context.Context, entries domain.EntryCollection) (string, error) {
	if len(entries) < MinInsightDays {
		return "", fmt.Errorf("%w: need %d days, have %d", ErrInsufficientData, MinInsightDays, len(entries))
	}
	if s.requester == nil {
		return "", fmt.Errorf("insights requester not configured")
	}
	payload, err := BuildInsightPayload(entries)
	if err != nil {
		return "", err
	}
	text, err := s.requester.RequestInsights(ctx, payload)
	if err != nil {
		s.logger.Warn("insights request failed", zap.Error(err), zap.Int("days", len(entries)))
		return "", err
	}
	return strings.TrimSpace(text), nil
}
