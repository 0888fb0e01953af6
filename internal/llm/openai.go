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
	openAIBaseURL      = "https://api.openai.com/v1"
	openAIDefaultModel = "gpt-4o-mini"
)

// OpenAIClient talks directly to the OpenAI API. Same wire shape as
// OpenRouter minus the attribution headers.
type OpenAIClient struct {
	BaseURL string
	APIKey  string
	Model   string
	HTTP    *http.Client
	Timeout time.Duration
}

// Compile-time interface conformance
var _ Client = (*OpenAIClient)(nil)

func NewOpenAIClient(baseURL, apiKey, model string, timeout time.Duration) *OpenAIClient {
	if baseURL == "" {
		baseURL = openAIBaseURL
	}
	if model == "" {
		model = openAIDefaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAIClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		HTTP:    &http.Client{Timeout: timeout},
		Timeout: timeout,
	}
}

func (c *OpenAIClient) Ping(ctx context.Context) error {
	if c.APIKey == "" {
		return fmt.Errorf("openai api key is empty")
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
		metrics.LLMPings.Inc(map[string]string{"provider": "openai", "outcome": "error"})
		return unavailable("openai", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		metrics.LLMPings.Inc(map[string]string{"provider": "openai", "outcome": "error"})
		return &RejectedError{Provider: "openai", Status: resp.StatusCode, Detail: sanitizeDetail(b, c.APIKey)}
	}

	metrics.LLMPings.Inc(map[string]string{"provider": "openai", "outcome": "ok"})
	return nil
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("openai api key is empty")
	}

	payload := map[string]any{
		"model": c.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemMessage},
			{"role": "user", "content": prompt},
		},
		"temperature": 0.5,
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

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		metrics.LLMChats.Inc(map[string]string{"provider": "openai", "outcome": "error"})
		return "", unavailable("openai", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		metrics.LLMChats.Inc(map[string]string{"provider": "openai", "outcome": "error"})
		return "", &RejectedError{Provider: "openai", Status: resp.StatusCode, Detail: sanitizeDetail(b, c.APIKey)}
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		metrics.LLMChats.Inc(map[string]string{"provider": "openai", "outcome": "error"})
		return "", fmt.Errorf("openai: %w: %v", ErrMalformed, err)
	}

	if len(result.Choices) == 0 {
		metrics.LLMChats.Inc(map[string]string{"provider": "openai", "outcome": "error"})
		return "", fmt.Errorf("openai: %w: empty choices", ErrMalformed)
	}

	metrics.LLMChats.Inc(map[string]string{"provider": "openai", "outcome": "ok"})
	metrics.LLMChatDur.Observe(map[string]string{"provider": "openai", "outcome": "ok"}, time.Since(start).Seconds())
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}
