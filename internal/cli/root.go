package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/healthcase/symptom-checker/internal/config"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "healthcase",
		Short: "Educational symptom checker backed by a hosted LLM",
		Long: `healthcase forwards symptom descriptions and basic health data to a
configured LLM backend and prints the model's educational analysis.

NOT for medical diagnosis or treatment.`,
		SilenceUsage: true,
	}

	// Disable automatic 'completion' command added by cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		newServeCmd(),
		newCheckCmd(),
		newAnalyzeCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s %s\n", config.AppName, config.Version)
		},
	}
}
