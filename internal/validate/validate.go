package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/healthcase/symptom-checker/internal/config"
)

// FieldError names the offending field and the violated constraint.
// Validation is fail-fast: the first failing field aborts the request.
type FieldError struct {
	Field      string
	Constraint string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Constraint)
}

func fieldErr(field, constraint string, args ...any) error {
	return &FieldError{Field: field, Constraint: fmt.Sprintf(constraint, args...)}
}

// BasicInfo holds validated demographics. Nil pointers mean "not provided".
type BasicInfo struct {
	Age             *int
	Gender          string
	Weight          *float64
	Temperature     *float64
	Duration        string
	ChronicDiseases bool
}

// LabResult carries one validated lab value together with its vocabulary entry.
type LabResult struct {
	Test     config.LabTest
	Value    float64
	Positive bool
}

// Request is the validated aggregate forwarded to the prompt builder.
// Invalid or partially valid input never produces a Request.
type Request struct {
	Basic         BasicInfo
	Symptoms      map[string]bool
	FeverDuration *int
	CoughType     string
	Labs          map[string]LabResult
}

var (
	genderRe   = regexp.MustCompile(`^(M|F)$`)
	durationRe = regexp.MustCompile(`(?i)^\d+\s*(days?|weeks?|months?|hours?)?$`)
	coughRe    = regexp.MustCompile(`^(dry|productive)$`)

	// patterns the sanitizer refuses outright
	suspiciousRes = []*regexp.Regexp{
		regexp.MustCompile(`<[^>]*>`),            // HTML tags
		regexp.MustCompile(`(?i)javascript:`),    // javascript injection
		regexp.MustCompile(`(?i)on\w+\s*=`),      // event handlers
		regexp.MustCompile(`[\x00-\x1f\x7f-\x9f]`), // control characters
	}
)

// detail fields allowed inside the symptoms object besides the flag vocabulary
const (
	fieldFeverDuration = "fever_duration"
	fieldCoughType     = "cough_type"
)

var basicInfoKeys = map[string]struct{}{
	"age": {}, "gender": {}, "weight": {}, "temperature": {},
	"duration": {}, "chronic_diseases": {},
}

// Validate turns raw decoded JSON into a Request or fails with a
// *FieldError. Pure: no logging, no metrics, no mutation of the input.
func Validate(raw map[string]any, defs *config.Definitions) (*Request, error) {
	req := &Request{
		Symptoms: make(map[string]bool),
		Labs:     make(map[string]LabResult),
	}
	b := defs.Bounds

	basic, err := asObject(raw, "basic_info")
	if err != nil {
		return nil, err
	}
	for k := range basic {
		if _, ok := basicInfoKeys[k]; !ok {
			return nil, fieldErr("basic_info."+k, "unrecognized field")
		}
	}

	if v, ok := present(basic, "age"); ok {
		age, err := toInt(v)
		if err != nil {
			return nil, fieldErr("age", "must be a valid number")
		}
		if age <= b.MinAge || age > b.MaxAge {
			return nil, fieldErr("age", "must be between %d and %d", b.MinAge+1, b.MaxAge)
		}
		req.Basic.Age = &age
	}

	if v, ok := present(basic, "gender"); ok {
		g := strings.ToUpper(strings.TrimSpace(toString(v)))
		if !genderRe.MatchString(g) {
			return nil, fieldErr("gender", "must be 'M' or 'F'")
		}
		req.Basic.Gender = g
	}

	if v, ok := present(basic, "weight"); ok {
		w, err := toFloat(v)
		if err != nil {
			return nil, fieldErr("weight", "must be a valid number")
		}
		if w < b.MinWeight || w > b.MaxWeight {
			return nil, fieldErr("weight", "must be between %g and %g kg", b.MinWeight, b.MaxWeight)
		}
		req.Basic.Weight = &w
	}

	if v, ok := present(basic, "temperature"); ok {
		t, err := toFloat(v)
		if err != nil {
			return nil, fieldErr("temperature", "must be a valid number")
		}
		if t < b.MinTemperature || t > b.MaxTemperature {
			return nil, fieldErr("temperature", "must be between %g and %g degrees C", b.MinTemperature, b.MaxTemperature)
		}
		req.Basic.Temperature = &t
	}

	if v, ok := present(basic, "duration"); ok {
		d, err := validateDuration(v, b)
		if err != nil {
			return nil, err
		}
		req.Basic.Duration = d
	}

	if v, ok := present(basic, "chronic_diseases"); ok {
		cd, err := toBool(v)
		if err != nil {
			return nil, fieldErr("chronic_diseases", "must be a valid boolean")
		}
		req.Basic.ChronicDiseases = cd
	}

	symptoms, err := asObject(raw, "symptoms")
	if err != nil {
		return nil, err
	}
	for name, v := range symptoms {
		switch {
		case name == fieldFeverDuration:
			if v == nil {
				continue
			}
			fd, err := toInt(v)
			if err != nil || fd < 0 {
				return nil, fieldErr(fieldFeverDuration, "must be a non-negative integer")
			}
			req.FeverDuration = &fd

		case name == fieldCoughType:
			if v == nil {
				continue
			}
			ct := strings.ToLower(strings.TrimSpace(toString(v)))
			if !coughRe.MatchString(ct) {
				return nil, fieldErr(fieldCoughType, "must be 'dry' or 'productive'")
			}
			req.CoughType = ct

		case defs.HasSymptom(name):
			flag, err := toBool(v)
			if err != nil {
				return nil, fieldErr("symptoms."+name, "must be a valid boolean")
			}
			req.Symptoms[name] = flag

		default:
			// unknown keys are rejected, not dropped, so field names
			// can never smuggle text into the prompt
			return nil, fieldErr("symptoms."+name, "unrecognized symptom")
		}
	}

	labs, err := asObject(raw, "test_results")
	if err != nil {
		return nil, err
	}
	for name, v := range labs {
		test, ok := defs.TestByName(name)
		if !ok {
			return nil, fieldErr("test_results."+name, "unrecognized test")
		}
		if v == nil {
			continue
		}
		switch test.Type {
		case config.TestBoolean:
			pos, err := toTestOutcome(v)
			if err != nil {
				return nil, fieldErr("test_results."+name, "must be positive/negative")
			}
			req.Labs[name] = LabResult{Test: test, Positive: pos}
		default:
			val, err := toFloat(v)
			if err != nil || val < 0 {
				return nil, fieldErr("test_results."+name, "must be a non-negative number")
			}
			req.Labs[name] = LabResult{Test: test, Value: val}
		}
	}

	return req, nil
}

// SanitizeText trims, collapses whitespace, caps length and rejects
// HTML/script-looking or control-character content. Used for every
// free-text field before it can reach the prompt builder.
func SanitizeText(s string, maxLen int) (string, error) {
	for _, re := range suspiciousRes {
		if re.MatchString(s) {
			return "", fmt.Errorf("invalid input detected")
		}
	}
	out := strings.Join(strings.Fields(s), " ")
	if maxLen > 0 && len(out) > maxLen {
		out = out[:maxLen]
	}
	return out, nil
}

func validateDuration(v any, b config.Bounds) (string, error) {
	// integers pass straight through as day counts
	if n, err := toInt(v); err == nil {
		if n < 0 {
			return "", fieldErr("duration", "must be non-negative")
		}
		return strconv.Itoa(n), nil
	}

	s, err := SanitizeText(toString(v), b.MaxDuration)
	if err != nil {
		return "", fieldErr("duration", "contains invalid characters")
	}
	if !durationRe.MatchString(s) {
		return "", fieldErr("duration", "must be a number or include time units (days, weeks, etc.)")
	}
	return s, nil
}

// --- loose-typed boundary coercion ---

func asObject(raw map[string]any, key string) (map[string]any, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return map[string]any{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fieldErr(key, "must be an object")
	}
	return m, nil
}

func present(m map[string]any, key string) (any, bool) {
	v, ok := m[key]
	if !ok || v == nil || v == "" {
		return nil, false
	}
	return v, true
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("not a number: %T", v)
	}
}

func toInt(v any) (int, error) {
	f, err := toFloat(v)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "y", "yes", "true", "1":
			return true, nil
		case "n", "no", "false", "0":
			return false, nil
		}
	}
	return false, fmt.Errorf("not a boolean: %v", v)
}

func toTestOutcome(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "positive", "true", "1", "yes":
			return true, nil
		case "negative", "false", "0", "no":
			return false, nil
		}
	}
	return false, fmt.Errorf("not an outcome: %v", v)
}
