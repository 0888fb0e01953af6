package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/healthcase/symptom-checker/internal/validate"
)

type prediction struct {
	disease    string
	confidence int
	reasoning  string
}

// RuleBased produces a deterministic offline analysis from a small rule
// table. The CLI falls back to it when the backend fails; it never
// replaces the backend for the HTTP API.
func RuleBased(req *validate.Request) string {
	preds := rulePredictions(req)

	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].confidence > preds[j].confidence
	})
	if len(preds) > 3 {
		preds = preds[:3]
	}

	var b strings.Builder
	b.WriteString("Top Possible Conditions:\n")
	for i, p := range preds {
		fmt.Fprintf(&b, "%d. %s - %d%%\n", i+1, p.disease, p.confidence)
		fmt.Fprintf(&b, "   Reasoning: %s\n", p.reasoning)
	}

	b.WriteString("\nSuggested Actions:\n")
	if t := req.Basic.Temperature; t != nil && *t > 39 {
		b.WriteString("- Monitor temperature closely\n")
	}
	if req.Symptoms["fever"] {
		b.WriteString("- Stay hydrated and rest\n")
	}
	b.WriteString("- Consult a healthcare professional for proper diagnosis\n")
	if len(req.Labs) > 0 {
		b.WriteString("- Follow up with additional tests if recommended\n")
	}

	return b.String()
}

func rulePredictions(req *validate.Request) []prediction {
	var preds []prediction

	positive := func(name string) bool {
		r, ok := req.Labs[name]
		return ok && r.Positive
	}
	platelets, hasPlatelets := req.Labs["Platelets"]

	if req.Symptoms["fever"] && req.Symptoms["rash"] && req.Symptoms["recent_travel"] &&
		positive("Dengue") && hasPlatelets && platelets.Value < 100000 {
		preds = append(preds, prediction{"Dengue", 75, "High fever, rash, low platelets, positive dengue test"})
	}

	if req.Symptoms["fever"] && req.Symptoms["fatigue"] && req.Symptoms["headache"] &&
		!positive("Dengue") && !positive("Malaria") {
		preds = append(preds, prediction{"Viral Fever", 60, "Common flu-like symptoms with normal test results"})
	}

	if req.Symptoms["fever"] && req.Symptoms["recent_travel"] && positive("Malaria") {
		preds = append(preds, prediction{"Malaria", 70, "Fever with travel history and positive malaria test"})
	}

	if req.Symptoms["fever"] && req.Symptoms["nausea"] && req.Symptoms["diarrhea"] && positive("Typhoid") {
		preds = append(preds, prediction{"Typhoid", 65, "Fever with gastrointestinal symptoms and positive test"})
	}

	if len(preds) == 0 {
		preds = append(preds, prediction{"Common Cold", 40, "Mild symptoms, could be various causes"})
	}

	return preds
}
