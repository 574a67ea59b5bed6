package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "despertar",
	Short: "Onboarding, plan and experiment engine for the Despertar funnel",
	Long: `despertar runs the wellness onboarding funnel back end: it classifies quiz
answers into a profile, shapes the plan request, assigns A/B variants and
serves the onboarding, plan and dashboard APIs.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(experimentsCmd)
}
