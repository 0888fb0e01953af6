package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/healthcase/symptom-checker/internal/analyzer"
	"github.com/healthcase/symptom-checker/internal/config"
	"github.com/healthcase/symptom-checker/internal/llm"
	"github.com/healthcase/symptom-checker/internal/logx"
	"github.com/healthcase/symptom-checker/internal/metrics"
	"github.com/healthcase/symptom-checker/internal/validate"
)

// Max request size for analysis posts (1MB)
const maxBodyBytes int64 = 1 << 20

// API exposes the symptom-analysis pipeline over HTTP. Handlers share
// only the analyzer, the rate limiter and immutable config: every
// request is independent.
type API struct {
	analyzer *analyzer.Analyzer
	rl       *rateLimiter
}

func New(a *analyzer.Analyzer, env *config.EnvVars) *API {
	return &API{
		analyzer: a,
		rl:       newRateLimiter(env.RateLimitRequests, env.RateLimitWindow),
	}
}

// RegisterHTTP registers the public endpoints.
func (a *API) RegisterHTTP(mux *http.ServeMux) {
	mux.HandleFunc("/health", a.handleHealth)
	mux.HandleFunc("/analyze", a.handleAnalyze)
	mux.HandleFunc("/check_symptoms", a.handleCheckSymptoms) // legacy free-text endpoint
}

// envelope is the response shape of POST /analyze.
type envelope struct {
	Success   bool     `json:"success"`
	Data      any      `json:"data,omitempty"`
	Error     string   `json:"error,omitempty"`
	Message   string   `json:"message,omitempty"`
	Emergency bool     `json:"emergency,omitempty"`
	Reasons   []string `json:"reasons,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": config.AppName,
		"version": config.Version,
	})
}

func (a *API) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := a.rl.acquire(clientKey(r)); err != nil {
		logx.Warn("Api", "rate limit exceeded for %s", clientKey(r))
		writeJSON(w, http.StatusTooManyRequests, envelope{
			Success: false,
			Error:   "Rate limit exceeded. Please try again later.",
			Message: "Too many requests",
		})
		return
	}

	if ct := r.Header.Get("Content-Type"); ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSON(w, http.StatusUnsupportedMediaType, envelope{
			Success: false,
			Error:   "Unsupported media type",
			Message: "Content-Type must be application/json",
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		status := http.StatusBadRequest
		if err.Error() == "http: request body too large" {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, envelope{
			Success: false,
			Error:   "No data provided",
			Message: "Request body is required",
		})
		return
	}

	id := uuid.NewString()
	logx.Info("Api", "analysis request id=%s", id)

	result, err := a.analyzer.Analyze(r.Context(), raw)
	if err != nil {
		a.writeAnalyzeError(w, id, err)
		return
	}

	logx.Info("Api", "analysis completed id=%s", id)
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    result,
		Message: "Analysis completed successfully",
	})
}

func (a *API) writeAnalyzeError(w http.ResponseWriter, id string, err error) {
	var fieldErr *validate.FieldError
	var alert *analyzer.EmergencyAlert
	var rejected *llm.RejectedError

	switch {
	case errors.As(err, &fieldErr):
		logx.Warn("Api", "validation error id=%s: %v", id, err)
		metrics.ValidationFailures.Inc(map[string]string{"field": fieldErr.Field})
		writeJSON(w, http.StatusBadRequest, envelope{
			Success: false,
			Error:   "Invalid input data",
			Message: err.Error(),
		})

	case errors.As(err, &alert):
		// the original service signals emergencies with a 200 and an
		// error flag, not an HTTP error status
		metrics.Emergencies.Inc(nil)
		writeJSON(w, http.StatusOK, envelope{
			Success:   false,
			Error:     "Emergency symptoms detected",
			Message:   alert.Message() + ". Reasons: " + strings.Join(alert.Reasons, ", "),
			Emergency: true,
			Reasons:   alert.Reasons,
		})

	case errors.Is(err, llm.ErrUnavailable):
		logx.Error("Api", "backend unavailable id=%s: %v", id, err)
		writeJSON(w, http.StatusGatewayTimeout, envelope{
			Success: false,
			Error:   "Service temporarily unavailable",
			Message: "Please try again later",
		})

	case errors.As(err, &rejected), errors.Is(err, llm.ErrMalformed):
		logx.Error("Api", "backend failure id=%s: %v", id, err)
		writeJSON(w, http.StatusBadGateway, envelope{
			Success: false,
			Error:   "Service temporarily unavailable",
			Message: "Please try again later",
		})

	default:
		logx.Error("Api", "unexpected error id=%s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, envelope{
			Success: false,
			Error:   "Internal server error",
			Message: "An unexpected error occurred",
		})
	}
}

func (a *API) handleCheckSymptoms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := a.rl.acquire(clientKey(r)); err != nil {
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "Rate limit exceeded"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req struct {
		Symptoms string `json:"symptoms"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Symptoms) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Symptoms are required"})
		return
	}

	analysis, err := a.analyzer.AnalyzeText(r.Context(), req.Symptoms)
	if err != nil {
		var fieldErr *validate.FieldError
		switch {
		case errors.As(err, &fieldErr):
			metrics.ValidationFailures.Inc(map[string]string{"field": fieldErr.Field})
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, llm.ErrUnavailable):
			writeJSON(w, http.StatusGatewayTimeout, map[string]string{"error": "Service temporarily unavailable"})
		default:
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "Service temporarily unavailable"})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"analysis": analysis})
}
