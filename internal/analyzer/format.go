package analyzer

// Disclaimer is the fixed educational-use notice attached to every
// result. Not user-configurable.
const Disclaimer = "This is for educational purposes only. Consult a healthcare professional for medical advice."

// Result is the formatted output of one symptom-check cycle.
type Result struct {
	Analysis   string `json:"analysis"`
	Disclaimer string `json:"disclaimer"`
}

// Format shapes a raw completion into the response schema. Pure.
func Format(analysis string) *Result {
	return &Result{Analysis: analysis, Disclaimer: Disclaimer}
}

// FormatLegacy appends the disclaimer inline, the shape returned by the
// legacy free-text endpoint.
func FormatLegacy(analysis string) string {
	return analysis + "\n\nDisclaimer: " + Disclaimer
}
