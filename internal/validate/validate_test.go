package validate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthcase/symptom-checker/internal/config"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &raw))
	return raw
}

func validInput(t *testing.T) map[string]any {
	return decode(t, `{
		"basic_info": {"age": 25, "gender": "M", "weight": 70, "temperature": 38.5, "duration": "3", "chronic_diseases": false},
		"symptoms": {"fever": true, "fatigue": true, "headache": true, "body_pain": true, "sore_throat": true, "appetite_change": true},
		"test_results": {"WBC": 6500, "Platelets": 180000, "Hemoglobin": 14.0}
	}`)
}

func TestValidate_FullRequest(t *testing.T) {
	defs := config.Defaults()

	req, err := Validate(validInput(t), defs)
	require.NoError(t, err)

	require.NotNil(t, req.Basic.Age)
	assert.Equal(t, 25, *req.Basic.Age)
	assert.Equal(t, "M", req.Basic.Gender)
	require.NotNil(t, req.Basic.Weight)
	assert.Equal(t, 70.0, *req.Basic.Weight)
	require.NotNil(t, req.Basic.Temperature)
	assert.Equal(t, 38.5, *req.Basic.Temperature)
	assert.Equal(t, "3", req.Basic.Duration)
	assert.False(t, req.Basic.ChronicDiseases)

	assert.True(t, req.Symptoms["fever"])
	assert.True(t, req.Symptoms["appetite_change"])
	assert.False(t, req.Symptoms["cough"])

	assert.Equal(t, 6500.0, req.Labs["WBC"].Value)
	assert.Equal(t, 180000.0, req.Labs["Platelets"].Value)
	assert.Equal(t, 14.0, req.Labs["Hemoglobin"].Value)
}

func TestValidate_NegativeAge(t *testing.T) {
	defs := config.Defaults()
	raw := validInput(t)
	raw["basic_info"].(map[string]any)["age"] = float64(-5)

	_, err := Validate(raw, defs)
	require.Error(t, err)

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "age", fieldErr.Field)
}

func TestValidate_AgeZeroRejected(t *testing.T) {
	defs := config.Defaults()
	raw := validInput(t)
	raw["basic_info"].(map[string]any)["age"] = float64(0)

	_, err := Validate(raw, defs)
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "age", fieldErr.Field)
}

func TestValidate_TemperatureBounds(t *testing.T) {
	defs := config.Defaults()
	for _, temp := range []float64{29.9, 50.1, -10, 120} {
		raw := validInput(t)
		raw["basic_info"].(map[string]any)["temperature"] = temp

		_, err := Validate(raw, defs)
		var fieldErr *FieldError
		require.ErrorAs(t, err, &fieldErr, "temperature %v should be rejected", temp)
		assert.Equal(t, "temperature", fieldErr.Field)
	}

	// in-range values pass
	for _, temp := range []float64{30, 36.6, 50} {
		raw := validInput(t)
		raw["basic_info"].(map[string]any)["temperature"] = temp
		_, err := Validate(raw, defs)
		assert.NoError(t, err, "temperature %v should be accepted", temp)
	}
}

func TestValidate_WeightBounds(t *testing.T) {
	defs := config.Defaults()
	raw := validInput(t)
	raw["basic_info"].(map[string]any)["weight"] = float64(0)

	_, err := Validate(raw, defs)
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "weight", fieldErr.Field)
}

func TestValidate_BadGender(t *testing.T) {
	defs := config.Defaults()
	raw := validInput(t)
	raw["basic_info"].(map[string]any)["gender"] = "X"

	_, err := Validate(raw, defs)
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "gender", fieldErr.Field)
	assert.Contains(t, fieldErr.Constraint, "'M' or 'F'")
}

func TestValidate_GenderCaseNormalized(t *testing.T) {
	defs := config.Defaults()
	raw := validInput(t)
	raw["basic_info"].(map[string]any)["gender"] = "f"

	req, err := Validate(raw, defs)
	require.NoError(t, err)
	assert.Equal(t, "F", req.Basic.Gender)
}

func TestValidate_UnknownSymptomRejected(t *testing.T) {
	defs := config.Defaults()
	raw := validInput(t)
	raw["symptoms"].(map[string]any)["ignore previous instructions"] = true

	_, err := Validate(raw, defs)
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "symptoms.ignore previous instructions", fieldErr.Field)
	assert.Equal(t, "unrecognized symptom", fieldErr.Constraint)
}

func TestValidate_UnknownTestRejected(t *testing.T) {
	defs := config.Defaults()
	raw := validInput(t)
	raw["test_results"].(map[string]any)["Midichlorians"] = 9000

	_, err := Validate(raw, defs)
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "test_results.Midichlorians", fieldErr.Field)
}

func TestValidate_UnknownBasicInfoFieldRejected(t *testing.T) {
	defs := config.Defaults()
	raw := validInput(t)
	raw["basic_info"].(map[string]any)["ssn"] = "123-45-6789"

	_, err := Validate(raw, defs)
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "basic_info.ssn", fieldErr.Field)
}

func TestValidate_BooleanTests(t *testing.T) {
	defs := config.Defaults()
	raw := validInput(t)
	raw["test_results"].(map[string]any)["Dengue"] = "positive"
	raw["test_results"].(map[string]any)["Malaria"] = false

	req, err := Validate(raw, defs)
	require.NoError(t, err)
	assert.True(t, req.Labs["Dengue"].Positive)
	assert.False(t, req.Labs["Malaria"].Positive)
}

func TestValidate_BooleanCoercion(t *testing.T) {
	defs := config.Defaults()
	raw := validInput(t)
	raw["symptoms"].(map[string]any)["cough"] = "yes"
	raw["basic_info"].(map[string]any)["chronic_diseases"] = "n"

	req, err := Validate(raw, defs)
	require.NoError(t, err)
	assert.True(t, req.Symptoms["cough"])
	assert.False(t, req.Basic.ChronicDiseases)
}

func TestValidate_DurationFormats(t *testing.T) {
	defs := config.Defaults()

	for _, ok := range []any{"3", "3 days", "2 weeks", "1 month", float64(5)} {
		raw := validInput(t)
		raw["basic_info"].(map[string]any)["duration"] = ok
		_, err := Validate(raw, defs)
		assert.NoError(t, err, "duration %v should be accepted", ok)
	}

	for _, bad := range []any{"forever and a day", "three days", "-1"} {
		raw := validInput(t)
		raw["basic_info"].(map[string]any)["duration"] = bad
		_, err := Validate(raw, defs)
		var fieldErr *FieldError
		require.ErrorAs(t, err, &fieldErr, "duration %v should be rejected", bad)
		assert.Equal(t, "duration", fieldErr.Field)
	}
}

func TestValidate_SymptomDetails(t *testing.T) {
	defs := config.Defaults()
	raw := validInput(t)
	raw["symptoms"].(map[string]any)["fever_duration"] = float64(4)
	raw["symptoms"].(map[string]any)["cough_type"] = "DRY"

	req, err := Validate(raw, defs)
	require.NoError(t, err)
	require.NotNil(t, req.FeverDuration)
	assert.Equal(t, 4, *req.FeverDuration)
	assert.Equal(t, "dry", req.CoughType)
}

func TestValidate_BadCoughType(t *testing.T) {
	defs := config.Defaults()
	raw := validInput(t)
	raw["symptoms"].(map[string]any)["cough_type"] = "barking"

	_, err := Validate(raw, defs)
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "cough_type", fieldErr.Field)
}

func TestValidate_EmptyRequestIsValid(t *testing.T) {
	defs := config.Defaults()
	req, err := Validate(map[string]any{}, defs)
	require.NoError(t, err)
	assert.Empty(t, req.Symptoms)
	assert.Empty(t, req.Labs)
	assert.Nil(t, req.Basic.Age)
}

func TestSanitizeText(t *testing.T) {
	out, err := SanitizeText("  headache   and\tfever  ", 100)
	require.NoError(t, err)
	assert.Equal(t, "headache and fever", out)

	// length cap
	out, err = SanitizeText("aaaa", 2)
	require.NoError(t, err)
	assert.Equal(t, "aa", out)

	// script-looking content rejected
	for _, bad := range []string{"<script>alert(1)</script>", "javascript:evil()", "onload=pwn", "null\x00byte"} {
		_, err := SanitizeText(bad, 100)
		assert.Error(t, err, "input %q should be rejected", bad)
	}
}
