package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/giygas/healthplans-api/data"
	"github.com/giygas/healthplans-api/engine"
	"github.com/giygas/healthplans-api/entities"
	"github.com/giygas/healthplans-api/seed"
	"github.com/giygas/healthplans-api/session"
	"github.com/spf13/cobra"
)

type searchOptions struct {
	seedFile  string
	query     string
	selects   []string
	recommend bool
	asJSON    bool
}

func newSearchCommand() *cobra.Command {
	opts := &searchOptions{}
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run a plan search against the seed catalog",
		Long: `Match, rank and optionally recommend plans from the seed catalog and print them.

Selections are key=value pairs. The value is read as JSON when it parses,
as a plain string otherwise:
  --select city=new-york --select 'conditions=["diabetes"]' --select monthlyBudget=300`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.seedFile, "seed", "", "Seed catalog file (default: embedded catalog)")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "Free-text query")
	cmd.Flags().StringArrayVarP(&opts.selects, "select", "s", nil, "Filter selection key=value (repeatable)")
	cmd.Flags().BoolVar(&opts.recommend, "recommend", false, "Apply condition recommendations")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print plans as JSON")

	return cmd
}

func runSearch(cmd *cobra.Command, opts *searchOptions) error {
	selections := make(entities.Selections, len(opts.selects))
	for _, raw := range opts.selects {
		key, value, err := parseSelection(raw)
		if err != nil {
			return err
		}
		selections[key] = value
	}

	catalog, err := seed.NewLoader(opts.seedFile).Load(cmd.Context())
	if err != nil {
		return err
	}
	container := data.NewCatalogContainer()
	container.ReplaceCatalog(catalog)

	plans := session.NewPortal(container, nil).Search(opts.query, selections)
	if opts.recommend {
		plans = engine.Recommend(plans, catalog.Medicines, selections)
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(plans)
	}
	return printPlans(out, plans, engine.NewLookup(catalog.Companies, catalog.Medicines))
}

// parseSelection splits key=value and decodes value
func parseSelection(raw string) (string, entities.Value, error) {
	key, value, ok := strings.Cut(raw, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", entities.Value{}, fmt.Errorf("invalid selection %q, want key=value", raw)
	}

	var v entities.Value
	if err := json.Unmarshal([]byte(value), &v); err != nil {
		return key, entities.String(value), nil
	}
	return key, v, nil
}

func printPlans(w io.Writer, plans []entities.HealthPlan, lookup *engine.Lookup) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCOMPANY\tPRICE\tPRIORITY\tACTIVE")
	for _, plan := range plans {
		company := plan.CompanyID
		if c, err := lookup.Company(plan.CompanyID); err == nil {
			company = c.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%t\n",
			plan.ID, plan.Name, company,
			strconv.FormatFloat(plan.Price, 'f', 2, 64),
			plan.Priority, lookup.EffectiveActive(plan),
		)
	}
	return tw.Flush()
}
