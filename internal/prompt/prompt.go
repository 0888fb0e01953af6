package prompt

import (
	"bytes"
	"fmt"
	"strconv"
	"text/template"

	"github.com/healthcase/symptom-checker/internal/config"
	"github.com/healthcase/symptom-checker/internal/validate"
)

// analysisTpl renders a validated request into the single prompt sent to
// the backend. Rendering is deterministic: identical input yields
// byte-identical prompt text.
const analysisTpl = `Based on the following user data, list the top 3 most likely diseases with confidence percentages and reasoning for each. Also suggest next steps.

Patient:
{{- range .Patient}}
- {{.}}
{{- end}}

Reported symptoms:
{{- if .Symptoms}}
{{- range .Symptoms}}
- {{.}}
{{- end}}
{{- else}}
- none reported
{{- end}}
{{- if .Labs}}

Test results:
{{- range .Labs}}
- {{.}}
{{- end}}
{{- end}}

Provide the response in a clear, structured format. This is educational only: do not make definitive diagnostic claims and include a disclaimer that this is not medical advice.
`

var tpl = template.Must(template.New("analysis").Parse(analysisTpl))

type view struct {
	Patient  []string
	Symptoms []string
	Labs     []string
}

// Build renders the analysis prompt. Symptoms appear only when flagged
// true and in vocabulary order; labs appear only when present, annotated
// against their normal reference range.
func Build(req *validate.Request, defs *config.Definitions) (string, error) {
	v := view{
		Patient:  patientLines(req),
		Symptoms: symptomLines(req, defs),
		Labs:     labLines(req, defs),
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("rendering analysis prompt: %w", err)
	}
	return buf.String(), nil
}

// BuildFreeText renders the legacy free-text prompt.
func BuildFreeText(symptoms string) string {
	return fmt.Sprintf("Based on these symptoms: %s, suggest possible conditions and next steps with educational disclaimer.", symptoms)
}

func patientLines(req *validate.Request) []string {
	var lines []string
	b := req.Basic
	if b.Age != nil {
		lines = append(lines, fmt.Sprintf("age: %d", *b.Age))
	}
	if b.Gender != "" {
		lines = append(lines, "gender: "+b.Gender)
	}
	if b.Weight != nil {
		lines = append(lines, fmt.Sprintf("weight: %s kg", trimFloat(*b.Weight)))
	}
	if b.Temperature != nil {
		lines = append(lines, fmt.Sprintf("temperature: %s C", trimFloat(*b.Temperature)))
	}
	if b.Duration != "" {
		lines = append(lines, "symptom duration: "+b.Duration)
	}
	if b.ChronicDiseases {
		lines = append(lines, "has chronic diseases")
	} else {
		lines = append(lines, "no chronic diseases")
	}
	return lines
}

func symptomLines(req *validate.Request, defs *config.Definitions) []string {
	var lines []string
	for _, s := range defs.Symptoms {
		if !req.Symptoms[s.Name] {
			continue
		}
		line := s.Name
		switch s.Name {
		case "fever":
			if req.FeverDuration != nil {
				line = fmt.Sprintf("fever (for %d days)", *req.FeverDuration)
			}
		case "cough":
			if req.CoughType != "" {
				line = fmt.Sprintf("cough (%s)", req.CoughType)
			}
		}
		lines = append(lines, line)
	}
	return lines
}

func labLines(req *validate.Request, defs *config.Definitions) []string {
	var lines []string
	for _, t := range defs.Tests {
		r, ok := req.Labs[t.Name]
		if !ok {
			continue
		}
		if t.Type == config.TestBoolean {
			outcome := "negative"
			if r.Positive {
				outcome = "positive"
			}
			lines = append(lines, fmt.Sprintf("%s: %s", t.Name, outcome))
			continue
		}
		note := "normal"
		switch {
		case r.Value < t.NormalMin:
			note = fmt.Sprintf("below normal range %s-%s", trimFloat(t.NormalMin), trimFloat(t.NormalMax))
		case r.Value > t.NormalMax:
			note = fmt.Sprintf("above normal range %s-%s", trimFloat(t.NormalMin), trimFloat(t.NormalMax))
		}
		lines = append(lines, fmt.Sprintf("%s: %s (%s)", t.Name, trimFloat(r.Value), note))
	}
	return lines
}

// trimFloat formats without trailing zeros so 70.0 renders as "70".
func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
