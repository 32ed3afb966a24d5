package main

import (
	"encoding/json"
	"fmt"

	"github.com/giygas/healthplans-api/seed"
	"github.com/giygas/healthplans-api/validation"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newAuditCommand() *cobra.Command {
	var (
		seedFile string
		asJSON   bool
		strict   bool
	)
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Print the integrity report of a seed catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := seed.NewLoader(seedFile).Load(cmd.Context())
			if err != nil {
				return err
			}
			report := validation.CheckIntegrity(catalog)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				err = enc.Encode(report)
			} else {
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				err = enc.Encode(report)
				if err == nil {
					err = enc.Close()
				}
			}
			if err != nil {
				return err
			}

			if strict && report.IssueCount() > 0 {
				return fmt.Errorf("catalog has %d integrity issues", report.IssueCount())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&seedFile, "seed", "", "Seed catalog file (default: embedded catalog)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON instead of YAML")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any issue is found")
	return cmd
}
