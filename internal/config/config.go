package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Lab test kinds.
const (
	TestNumeric = "numeric"
	TestBoolean = "boolean"
)

type Symptom struct {
	Name     string `yaml:"name"`
	Question string `yaml:"question"`
}

type LabTest struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"` // numeric, boolean
	// Normal reference range, numeric tests only. Values outside the
	// range are annotated in the prompt, never rejected.
	NormalMin float64 `yaml:"normal_min"`
	NormalMax float64 `yaml:"normal_max"`
}

type Bounds struct {
	MinAge         int     `yaml:"min_age"`
	MaxAge         int     `yaml:"max_age"`
	MinWeight      float64 `yaml:"min_weight"`
	MaxWeight      float64 `yaml:"max_weight"`
	MinTemperature float64 `yaml:"min_temperature"`
	MaxTemperature float64 `yaml:"max_temperature"`
	MaxInputLength int     `yaml:"max_input_length"`
	MaxDuration    int     `yaml:"max_duration_length"`
}

// Definitions holds the fixed vocabularies and validation bounds.
// Slice order is canonical: the validator and prompt builder iterate it,
// which keeps prompt rendering deterministic.
type Definitions struct {
	Symptoms []Symptom
	Tests    []LabTest
	Bounds   Bounds

	symptomSet map[string]struct{}
	testByName map[string]LabTest
}

func (d *Definitions) index() {
	d.symptomSet = make(map[string]struct{}, len(d.Symptoms))
	for _, s := range d.Symptoms {
		d.symptomSet[s.Name] = struct{}{}
	}
	d.testByName = make(map[string]LabTest, len(d.Tests))
	for _, t := range d.Tests {
		d.testByName[t.Name] = t
	}
}

func (d *Definitions) HasSymptom(name string) bool {
	_, ok := d.symptomSet[name]
	return ok
}

func (d *Definitions) TestByName(name string) (LabTest, bool) {
	t, ok := d.testByName[name]
	return t, ok
}

// Defaults returns the compiled-in vocabularies so the binary works
// without a definitions directory.
func Defaults() *Definitions {
	d := &Definitions{
		Symptoms: []Symptom{
			{Name: "fever", Question: "Do you have fever?"},
			{Name: "fatigue", Question: "Do you have fatigue?"},
			{Name: "cough", Question: "Do you have cough?"},
			{Name: "headache", Question: "Do you have headache?"},
			{Name: "body_pain", Question: "Do you have body pain?"},
			{Name: "nausea", Question: "Do you have nausea?"},
			{Name: "vomiting", Question: "Do you have vomiting?"},
			{Name: "diarrhea", Question: "Do you have diarrhea?"},
			{Name: "rash", Question: "Do you have skin rash?"},
			{Name: "sore_throat", Question: "Do you have sore throat?"},
			{Name: "shortness_of_breath", Question: "Do you have shortness of breath?"},
			{Name: "chest_pain", Question: "Do you have chest pain?"},
			{Name: "confusion", Question: "Do you have confusion?"},
			{Name: "recent_travel", Question: "Have you travelled recently?"},
			{Name: "medication", Question: "Are you on any medication?"},
			{Name: "appetite_change", Question: "Any appetite changes?"},
			{Name: "urine_change", Question: "Any urine changes?"},
			{Name: "weight_loss", Question: "Any unexplained weight loss?"},
			{Name: "night_sweats", Question: "Do you have night sweats?"},
			{Name: "exposure", Question: "Any exposure to sick people?"},
		},
		Tests: []LabTest{
			{Name: "WBC", Type: TestNumeric, NormalMin: 4000, NormalMax: 11000},
			{Name: "Platelets", Type: TestNumeric, NormalMin: 150000, NormalMax: 450000},
			{Name: "Hemoglobin", Type: TestNumeric, NormalMin: 12.0, NormalMax: 16.0},
			{Name: "Blood_Sugar", Type: TestNumeric, NormalMin: 70, NormalMax: 140},
			{Name: "ALT", Type: TestNumeric, NormalMin: 7, NormalMax: 56},
			{Name: "Creatinine", Type: TestNumeric, NormalMin: 0.6, NormalMax: 1.2},
			{Name: "Malaria", Type: TestBoolean},
			{Name: "Dengue", Type: TestBoolean},
			{Name: "Typhoid", Type: TestBoolean},
		},
		Bounds: Bounds{
			MinAge:         0,
			MaxAge:         150,
			MinWeight:      1.0,
			MaxWeight:      500.0,
			MinTemperature: 30.0,
			MaxTemperature: 50.0,
			MaxInputLength: 1000,
			MaxDuration:    50,
		},
	}
	d.index()
	return d
}

// LoadFromDir reads vocabulary definitions from YAML files under base.
// Missing files keep the compiled-in defaults for that section.
func LoadFromDir(base string) (*Definitions, error) {
	d := Defaults()

	if err := loadYAML(filepath.Join(base, "symptoms.yaml"), &struct {
		Symptoms *[]Symptom `yaml:"symptoms"`
	}{&d.Symptoms}); err != nil {
		return nil, err
	}
	if err := loadYAML(filepath.Join(base, "tests.yaml"), &struct {
		Tests *[]LabTest `yaml:"tests"`
	}{&d.Tests}); err != nil {
		return nil, err
	}
	if err := loadYAML(filepath.Join(base, "bounds.yaml"), &struct {
		Bounds *Bounds `yaml:"bounds"`
	}{&d.Bounds}); err != nil {
		return nil, err
	}

	d.index()
	return d, nil
}

func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
