package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds connection details for the answer suggestion service.
type Config struct {
	URL     string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client talks to an OpenAI-compatible chat completions endpoint to produce
// short answer text for the AI opponent. Correctness is decided upstream; the
// client only phrases an answer consistent with that outcome.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

func NewClient(cfg Config, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 6 * time.Second
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	cfg.URL = strings.TrimSuffix(cfg.URL, "/")

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		config: cfg,
		logger: logger.With().Str("component", "answer_suggester").Logger(),
	}
}

// SuggestAnswer asks the model for a plausible answer to the prompt. When
// wantCorrect is false the model is asked for a believable but wrong answer
// and the request runs at a higher temperature.
func (c *Client) SuggestAnswer(ctx context.Context, prompt string, wantCorrect bool) (string, error) {
	if c.config.URL == "" {
		return "", fmt.Errorf("suggester endpoint not configured")
	}

	instruction := "Answer the following flashcard question with only the answer, no explanation."
	temperature := 0.2
	if !wantCorrect {
		instruction = "Give a plausible but incorrect answer to the following flashcard question. Reply with only the answer, no explanation."
		temperature = 1.0
	}

	payload := chatRequest{
		Model:       c.config.Model,
		Temperature: temperature,
		MaxTokens:   32,
		Messages: []chatMessage{
			{Role: "system", Content: instruction},
			{Role: "user", Content: prompt},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("suggester returned status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode suggester payload: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("suggester returned no choices")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}
