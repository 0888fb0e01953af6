package analyzer

import (
	"context"
	"fmt"

	"github.com/healthcase/symptom-checker/internal/config"
	"github.com/healthcase/symptom-checker/internal/llm"
	"github.com/healthcase/symptom-checker/internal/logx"
	"github.com/healthcase/symptom-checker/internal/prompt"
	"github.com/healthcase/symptom-checker/internal/validate"
)

// Analyzer composes validation, prompt building, the backend call and
// response formatting into one linear pipeline. No state survives a call.
type Analyzer struct {
	llm  llm.Client
	defs *config.Definitions
}

func New(client llm.Client, defs *config.Definitions) *Analyzer {
	return &Analyzer{llm: client, defs: defs}
}

// Analyze runs one request/response cycle over raw decoded JSON.
// Stage failures abort the pipeline and surface unchanged: a
// *validate.FieldError, an *EmergencyAlert, or a backend error.
func (a *Analyzer) Analyze(ctx context.Context, raw map[string]any) (*Result, error) {
	req, err := validate.Validate(raw, a.defs)
	if err != nil {
		return nil, err
	}

	if alert := CheckEmergency(req); alert != nil {
		logx.Warn("Analyzer", "emergency detected: %v", alert.Reasons)
		return nil, alert
	}

	p, err := prompt.Build(req, a.defs)
	if err != nil {
		return nil, err
	}

	analysis, err := a.llm.Complete(ctx, p)
	if err != nil {
		return nil, err
	}

	return Format(analysis), nil
}

// AnalyzeText runs the legacy free-text flow. The returned string
// already carries the disclaimer inline.
func (a *Analyzer) AnalyzeText(ctx context.Context, symptoms string) (string, error) {
	s, err := validate.SanitizeText(symptoms, a.defs.Bounds.MaxInputLength)
	if err != nil {
		return "", &validate.FieldError{Field: "symptoms", Constraint: "contains invalid characters"}
	}
	if s == "" {
		return "", &validate.FieldError{Field: "symptoms", Constraint: "required"}
	}

	analysis, err := a.llm.Complete(ctx, prompt.BuildFreeText(s))
	if err != nil {
		return "", err
	}

	return FormatLegacy(analysis), nil
}

// Fallback returns the deterministic rule-based analysis for already
// validated input, wrapped with the disclaimer.
func (a *Analyzer) Fallback(raw map[string]any) (*Result, error) {
	req, err := validate.Validate(raw, a.defs)
	if err != nil {
		return nil, err
	}
	if alert := CheckEmergency(req); alert != nil {
		return nil, alert
	}
	return Format(RuleBased(req)), nil
}

// Ping checks the configured backend, used by readiness.
func (a *Analyzer) Ping(ctx context.Context) error {
	if err := a.llm.Ping(ctx); err != nil {
		return fmt.Errorf("llm ping: %w", err)
	}
	return nil
}
