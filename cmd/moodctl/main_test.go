package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"mood-tracker/internal/app"
	"mood-tracker/internal/domain"
	"mood-tracker/internal/repository"
	"mood-tracker/internal/service"
)

type staticRequester struct{}

func (staticRequester) RequestInsights(_ context.Context, _ domain.InsightPayload) (string, error) {
	return "more sleep", nil
}

func newTestApp(t *testing.T, dates ...string) *app.App {
	t.Helper()
	local := repository.NewLocalEntryRepository(repository.NewMemoryBlobStore())
	store := service.NewEntryStore(local, nil, service.DefaultMoodThresholds, nil)
	for _, d := range dates {
		if err := store.SaveEntry(context.Background(), service.NewDailyEntry(d), ""); err != nil {
			t.Fatalf("seed %s: %v", d, err)
		}
	}
	return &app.App{
		Store:    store,
		Insights: service.NewInsightService(store, staticRequester{}, nil),
		JWT:      service.NewJWTService("secret", time.Hour, 24*time.Hour),
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"frobnicate"}, newTestApp(t), &out); err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(out.String(), "usage") {
		t.Fatalf("expected usage output")
	}
}

func TestRun_ShowListsEntries(t *testing.T) {
	var out bytes.Buffer
	a := newTestApp(t, "2024-03-02", "2024-03-01")
	if err := run(context.Background(), []string{"show"}, a, &out); err != nil {
		t.Fatalf("show: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "2024-03-01") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestRun_InsightsRequiresThreeDays(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"insights"}, newTestApp(t, "2024-03-01"), &out)
	if !errors.Is(err, service.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestRun_ExportWithoutTarget(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"export"}, newTestApp(t, "2024-03-01"), &out); err == nil {
		t.Fatalf("expected error without export target")
	}
}

func TestRun_TokenIssuesPair(t *testing.T) {
	var out bytes.Buffer
	a := newTestApp(t)
	if err := run(context.Background(), []string{"token", "-id", "u1"}, a, &out); err != nil {
		t.Fatalf("token: %v", err)
	}
	var resp struct {
		Scope  string            `json:"scope"`
		Tokens service.TokenPair `json:"tokens"`
	}
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	claims, err := a.JWT.ParseAccessToken(resp.Tokens.AccessToken)
	if err != nil || claims.UserID != "u1" || resp.Scope != "u1" {
		t.Fatalf("unexpected token output %+v err=%v", resp, err)
	}
}
