package service

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

	"github.com/kidmood/kidmood-api/internal/config"
)

const (
	defaultInsightModel       = "gpt-4o-mini"
	defaultInsightMaxTokens   = 160
	defaultInsightTemperature = 0.2

	insightSystemPrompt = "You write one short, warm sentence for teachers and parents " +
		"summarizing a classroom's emotional check-ins. Never mention individual children."
)

var ErrInsightDisabled = errors.New("insight generator not configured")

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// InsightClient talks to an OpenAI-compatible chat-completion endpoint.
// It implements TextGenerator; callers fall back to the built-in
// template on any error it returns.
type InsightClient struct {
	conf *config.InsightConfig
	http httpDoer
}

func NewInsightClient(conf *config.InsightConfig) *InsightClient {
	return &InsightClient{
		conf: conf,
		http: &http.Client{Timeout: 20 * time.Second},
	}
}

// SetHTTPClient overrides the default HTTP client, mainly for tests.
func (c *InsightClient) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{Timeout: 20 * time.Second}
		return
	}
	c.http = client
}

func (c *InsightClient) GenerateSummary(ctx context.Context, stats SummaryStats) (string, error) {
	if c.conf == nil || strings.TrimSpace(c.conf.APIKey) == "" {
		return "", ErrInsightDisabled
	}

	model := strings.TrimSpace(c.conf.Model)
	if model == "" {
		model = defaultInsightModel
	}

	payload, err := json.Marshal(chatCompletionRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: insightSystemPrompt},
			{Role: "user", Content: buildInsightPrompt(stats)},
		},
		MaxTokens:   defaultInsightMaxTokens,
		Temperature: defaultInsightTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("json.Marshal -> %w", err)
	}

	url := strings.TrimRight(c.conf.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.conf.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("c.http.Do -> %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("io.ReadAll -> %w", err)
	}

	var parsed chatCompletionResponse
	if err = json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("json.Unmarshal -> %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("insight API returned %d: %s", resp.StatusCode, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("insight API returned no choices")
	}

	summary := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if summary == "" {
		return "", errors.New("insight API returned an empty summary")
	}

	return summary, nil
}

func buildInsightPrompt(stats SummaryStats) string {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Sprintf("Total check-ins: %d over %d days.", stats.Total, stats.TimeSeriesLength)
	}

	return "Emotion check-in aggregates for one classroom: " + string(raw)
}
