package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// A missing .env is fine; the environment alone may carry the config
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "healthplans-api",
		Short: "Health plan search, ranking and recommendation service",
		Long: `healthplans-api serves a health plan catalog: consumers filter and rank plans,
get condition-based recommendations and save favorites, admins manage the catalog.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newServeCommand(),
		newSearchCommand(),
		newAuditCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
