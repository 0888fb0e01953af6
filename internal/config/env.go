package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Backend providers selectable via LLM_PROVIDER.
const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderStub       = "stub"
)

// Service identity reported by GET /health.
const (
	AppName = "Healthcare Symptom Checker"
	Version = "1.0.0"
)

// ErrMissingAPIKey is returned when a real backend is selected without KEY set.
// It is fatal at startup: no request is served without a usable backend.
var ErrMissingAPIKey = errors.New("missing api key (set KEY)")

type EnvVars struct {
	Port         int           `envconfig:"PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"60s"`

	// KEY is the backend API key (OpenRouter or OpenAI, depending on provider).
	APIKey string `envconfig:"KEY"`

	LLMProvider string        `envconfig:"LLM_PROVIDER" default:"openrouter"`
	LLMBaseURL  string        `envconfig:"LLM_BASE_URL"`
	LLMModel    string        `envconfig:"LLM_MODEL"`
	LLMTimeout  time.Duration `envconfig:"LLM_TIMEOUT" default:"30s"`

	Debug    bool   `envconfig:"DEBUG" default:"false"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"60s"`
}

// LoadEnv reads configuration from the environment, after loading an
// optional .env file. The result is read once at startup and treated as
// immutable afterwards.
func LoadEnv() (*EnvVars, error) {
	_ = godotenv.Load() // .env is optional

	var v EnvVars
	if err := envconfig.Process("", &v); err != nil {
		return nil, err
	}
	if err := v.validate(); err != nil {
		return nil, err
	}
	return &v, nil
}

func (v *EnvVars) validate() error {
	switch v.LLMProvider {
	case ProviderOpenRouter, ProviderOpenAI:
		if v.APIKey == "" {
			return fmt.Errorf("provider %s: %w", v.LLMProvider, ErrMissingAPIKey)
		}
	case ProviderStub:
		// no key needed
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER: %s", v.LLMProvider)
	}
	return nil
}
