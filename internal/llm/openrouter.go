package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/healthcase/symptom-checker/internal/metrics"
)

const (
	openRouterBaseURL      = "https://openrouter.ai/api/v1"
	openRouterDefaultModel = "deepseek/deepseek-chat-v3.1:free"
)

// OpenRouterClient talks to an OpenRouter-hosted model via the
// OpenAI-compatible chat completions endpoint.
type OpenRouterClient struct {
	BaseURL string
	APIKey  string
	Model   string
	HTTP    *http.Client
	Timeout time.Duration
}

// Compile-time interface conformance
var _ Client = (*OpenRouterClient)(nil)

func NewOpenRouterClient(baseURL, apiKey, model string, timeout time.Duration) *OpenRouterClient {
	if baseURL == "" {
		baseURL = openRouterBaseURL
	}
	if model == "" {
		model = openRouterDefaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenRouterClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		HTTP:    &http.Client{Timeout: timeout},
		Timeout: timeout,
	}
}

func (c *OpenRouterClient) Ping(ctx context.Context) error {
	if c.APIKey == "" {
		return fmt.Errorf("openrouter api key is empty")
	}

	to := c.Timeout
	if to <= 0 {
		to = 2 * time.Second
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, to)
	defer cancel()

	url := strings.TrimRight(c.BaseURL, "/") + "/models"
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: to}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		metrics.LLMPings.Inc(map[string]string{"provider": "openrouter", "outcome": "error"})
		return unavailable("openrouter", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		metrics.LLMPings.Inc(map[string]string{"provider": "openrouter", "outcome": "error"})
		return &RejectedError{Provider: "openrouter", Status: resp.StatusCode, Detail: sanitizeDetail(b, c.APIKey)}
	}

	metrics.LLMPings.Inc(map[string]string{"provider": "openrouter", "outcome": "ok"})
	return nil
}

// Complete sends the prompt in non-stream mode. A single bounded wait, no
// retries: failures surface to the caller as-is.
func (c *OpenRouterClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("openrouter api key is empty")
	}

	payload := map[string]any{
		"model": c.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemMessage},
			{"role": "user", "content": prompt},
		},
		"temperature": 0.7,
		"max_tokens":  2000,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	to := c.Timeout
	if to <= 0 {
		to = 30 * time.Second
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, to)
	defer cancel()

	url := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: to}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", "http://localhost")
	req.Header.Set("X-Title", "Healthcare Symptom Checker")

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		metrics.LLMChats.Inc(map[string]string{"provider": "openrouter", "outcome": "error"})
		return "", unavailable("openrouter", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		metrics.LLMChats.Inc(map[string]string{"provider": "openrouter", "outcome": "error"})
		return "", &RejectedError{Provider: "openrouter", Status: resp.StatusCode, Detail: sanitizeDetail(b, c.APIKey)}
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		metrics.LLMChats.Inc(map[string]string{"provider": "openrouter", "outcome": "error"})
		return "", fmt.Errorf("openrouter: %w: %v", ErrMalformed, err)
	}

	if len(result.Choices) == 0 {
		metrics.LLMChats.Inc(map[string]string{"provider": "openrouter", "outcome": "error"})
		return "", fmt.Errorf("openrouter: %w: empty choices", ErrMalformed)
	}

	metrics.LLMChats.Inc(map[string]string{"provider": "openrouter", "outcome": "ok"})
	metrics.LLMChatDur.Observe(map[string]string{"provider": "openrouter", "outcome": "ok"}, time.Since(start).Seconds())
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}
