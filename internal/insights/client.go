package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mood-tracker/internal/domain"
)

// ErrEmptyInsights se devuelve cuando el servicio responde sin texto.
var ErrEmptyInsights = errors.New("insights service returned empty text")

// HTTPClient llama a un servicio externo de insights: POST {moodData, themeScores} -> {insights}.
type HTTPClient struct {
	url    string
	client *http.Client
}

func NewHTTPClient(url string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 90 * time.Second}
	}
	return &HTTPClient{url: strings.TrimSpace(url), client: httpClient}
}

type insightsResponse struct {
	Insights string `json:"insights"`
	Error    string `json:"error,omitempty"`
}

func (c *HTTPClient) RequestInsights(ctx context.Context, payload domain.InsightPayload) (string, error) {
	if c.url == "" {
		return "", fmt.Errorf("insights url not configured")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed insightsResponse
	decodeErr := json.Unmarshal(respBody, &parsed)
	if resp.StatusCode >= 400 {
		if parsed.Error != "" {
			return "", fmt.Errorf("insights http error: status=%d: %s", resp.StatusCode, parsed.Error)
		}
		return "", fmt.Errorf("insights http error: status=%d", resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode insights response: %w", decodeErr)
	}
	if strings.TrimSpace(parsed.Insights) == "" {
		return "", ErrEmptyInsights
	}
	return parsed.Insights, nil
}
