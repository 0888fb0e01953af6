package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/healthcase/symptom-checker/internal/analyzer"
	"github.com/healthcase/symptom-checker/internal/config"
	"github.com/healthcase/symptom-checker/internal/validate"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		input   string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze structured symptom data from a JSON file",
		Long: `Read a JSON document with basic_info, symptoms and test_results and
run the full analysis pipeline.

Examples:
  healthcase analyze --input patient.json
  cat patient.json | healthcase analyze --input -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(input)
			if err != nil {
				return err
			}

			an, err := buildAnalyzer()
			if err != nil {
				return err
			}

			printHeader()

			s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
			s.Suffix = " Analyzing symptoms..."
			s.Start()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			result, err := an.Analyze(ctx, raw)
			s.Stop()

			if err != nil {
				return printAnalyzeError(an, raw, err)
			}

			fmt.Println(result.Analysis)
			fmt.Println()
			color.New(color.Faint).Println(result.Disclaimer)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "JSON input file, or - for stdin")
	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "Overall request timeout")

	return cmd
}

func readInput(path string) (map[string]any, error) {
	var data []byte
	var err error
	if path == "-" || path == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing input JSON: %w", err)
	}
	return raw, nil
}

// printAnalyzeError renders validation and emergency outcomes, and falls
// back to the rule-based analysis when the backend failed, the way the
// original CLI behaves.
func printAnalyzeError(an *analyzer.Analyzer, raw map[string]any, err error) error {
	var fieldErr *validate.FieldError
	var alert *analyzer.EmergencyAlert

	switch {
	case errors.As(err, &fieldErr):
		color.Red("Invalid input - %v", err)
		return err

	case errors.As(err, &alert):
		printEmergency(alert)
		return nil

	default:
		color.Yellow("Backend failed (%v); using fallback analysis...", err)
		result, ferr := an.Fallback(raw)
		if ferr != nil {
			return ferr
		}
		fmt.Println(result.Analysis)
		fmt.Println()
		color.New(color.Faint).Println(result.Disclaimer)
		return nil
	}
}

func printEmergency(alert *analyzer.EmergencyAlert) {
	red := color.New(color.FgRed, color.Bold)
	fmt.Println(strings.Repeat("!", 50))
	red.Println("EMERGENCY ALERT!")
	red.Println("Based on your symptoms, seek immediate medical attention!")
	fmt.Printf("Reasons: %s\n", strings.Join(alert.Reasons, ", "))
	fmt.Println("Call emergency services or go to the nearest hospital.")
	fmt.Println(strings.Repeat("!", 50))
}

func errorsIsMissingKey(err error) bool {
	return errors.Is(err, config.ErrMissingAPIKey)
}

// stubEnv reloads configuration forced onto the stub backend, for
// keyless local runs.
func stubEnv() (*config.EnvVars, error) {
	os.Setenv("LLM_PROVIDER", config.ProviderStub)
	return config.LoadEnv()
}
