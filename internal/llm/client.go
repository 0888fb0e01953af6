package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Client is the single capability every backend provides: given a prompt,
// return a text completion. Backends are swappable via configuration
// without touching caller code.
type Client interface {
	Ping(ctx context.Context) error
	Complete(ctx context.Context, prompt string) (string, error)
}

// systemMessage is sent with every completion request.
const systemMessage = "You are a helpful assistant for educational symptom checking. " +
	"Always include a disclaimer that this is not medical advice."

// Failure taxonomy. None of these are retried: they propagate unchanged
// to the orchestrator and from there to the front-end.
var (
	// ErrUnavailable covers transport failures and timeouts.
	ErrUnavailable = errors.New("llm backend unavailable")

	// ErrMalformed covers 2xx responses missing the completion field.
	ErrMalformed = errors.New("malformed llm backend response")
)

// RejectedError is a non-2xx answer from the backend (auth failure, rate
// limit, provider error). Detail is sanitized before it reaches callers.
type RejectedError struct {
	Provider string
	Status   int
	Detail   string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s backend rejected request: status %d: %s", e.Provider, e.Status, e.Detail)
}

// unavailable wraps a transport error into the taxonomy.
func unavailable(provider string, err error) error {
	return fmt.Errorf("%s: %w: %v", provider, ErrUnavailable, err)
}

// sanitizeDetail trims a response body excerpt for error reporting and
// strips the API key should the provider ever echo it back.
func sanitizeDetail(body []byte, apiKey string) string {
	s := strings.TrimSpace(string(body))
	if apiKey != "" {
		s = strings.ReplaceAll(s, apiKey, "[redacted]")
	}
	const max = 200
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
