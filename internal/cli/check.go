package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/healthcase/symptom-checker/internal/analyzer"
	"github.com/healthcase/symptom-checker/internal/config"
	"github.com/healthcase/symptom-checker/internal/llm"
)

func newCheckCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check SYMPTOMS",
		Short: "Analyze free-text symptoms",
		Long: `Send a free-text symptom description to the configured backend.

Examples:
  healthcase check "headache and fever for 3 days"
  KEY=sk-or-v1-... healthcase check "dry cough and fatigue"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symptoms := strings.TrimSpace(args[0])

			an, err := buildAnalyzer()
			if err != nil {
				return err
			}

			printHeader()

			s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
			s.Suffix = " Asking the model..."
			s.Start()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			result, err := an.AnalyzeText(ctx, symptoms)
			s.Stop()
			if err != nil {
				return err
			}

			fmt.Println(result)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "Overall request timeout")

	return cmd
}

// buildAnalyzer wires definitions and the backend for CLI use. When no
// key is configured the stub backend is used so the command stays usable
// offline.
func buildAnalyzer() (*analyzer.Analyzer, error) {
	env, err := config.LoadEnv()
	if err != nil {
		if errorsIsMissingKey(err) {
			color.Yellow("No API key configured (KEY); using the offline stub backend.")
			env, err = stubEnv()
		}
		if err != nil {
			return nil, err
		}
	}

	defs, err := config.LoadFromDir("definitions")
	if err != nil {
		return nil, err
	}

	client, err := llm.New(env)
	if err != nil {
		return nil, err
	}

	return analyzer.New(client, defs), nil
}

func printHeader() {
	title := color.New(color.FgCyan, color.Bold)
	title.Printf("%s\n", config.AppName)
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("Educational Symptom Checker")
	fmt.Println("NOT for medical diagnosis or treatment")
	fmt.Println(strings.Repeat("=", 50))
}
