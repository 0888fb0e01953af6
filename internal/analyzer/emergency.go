package analyzer

import (
	"strings"

	"github.com/healthcase/symptom-checker/internal/validate"
)

// EmergencyAlert aborts the pipeline before the backend is called:
// symptom combinations that need immediate attention get a fixed local
// answer, never an LLM guess.
type EmergencyAlert struct {
	Reasons []string
}

func (e *EmergencyAlert) Error() string {
	return "emergency symptoms detected: " + strings.Join(e.Reasons, ", ")
}

// Message is the fixed user-facing instruction.
func (e *EmergencyAlert) Message() string {
	return "Seek immediate medical attention"
}

// CheckEmergency evaluates the emergency rules against a validated
// request. Returns nil when none match.
func CheckEmergency(req *validate.Request) *EmergencyAlert {
	var reasons []string

	if t := req.Basic.Temperature; t != nil && *t > 40 {
		reasons = append(reasons, "High fever (>40 degrees C)")
	}
	if req.Symptoms["fever"] && req.Symptoms["confusion"] {
		reasons = append(reasons, "Fever with confusion")
	}
	if req.Symptoms["shortness_of_breath"] && req.Symptoms["chest_pain"] {
		reasons = append(reasons, "Shortness of breath with chest pain")
	}

	if len(reasons) == 0 {
		return nil
	}
	return &EmergencyAlert{Reasons: reasons}
}
