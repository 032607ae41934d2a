package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/healthtrack/internal/tui"
)

type countryRow struct {
	Country   string `json:"country"`
	Points    int    `json:"points"`
	FirstYear int    `json:"first_year"`
	LastYear  int    `json:"last_year"`
}

// NewCountriesCmd creates the countries command, which lists the selectable
// country labels.
func NewCountriesCmd() *cobra.Command {
	var (
		output string
		filter string
	)

	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List the countries present in the dataset",
		Example: `  healthtrack countries
  healthtrack countries --filter united --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveOutput(cmd, output)
			if err != nil {
				return err
			}
			p, err := newPipeline(cmd.Context())
			if err != nil {
				return err
			}

			res := p.session.Get(cmd.Context())
			needle := strings.ToLower(strings.TrimSpace(filter))
			rows := []countryRow{}
			for _, c := range res.Dataset.Countries() {
				if needle != "" && !strings.Contains(strings.ToLower(c), needle) {
					continue
				}
				series := res.Dataset.ForCountry(c)
				lo, hi, _ := series.YearRange()
				rows = append(rows, countryRow{Country: c, Points: series.Len(), FirstYear: lo, LastYear: hi})
			}

			out := cmd.OutOrStdout()
			switch format {
			case outputJSON:
				return writeJSON(out, rows)
			case outputNDJSON:
				return writeNDJSON(out, rows)
			}

			fmt.Fprintln(out, tui.RenderStatusBanner(res.Status, false))
			if res.Dataset.IsEmpty() {
				fmt.Fprintln(out, tui.EmptyGuidance(res.Status))
				return nil
			}
			if len(rows) == 0 {
				fmt.Fprintf(out, "No countries match %q.\n", filter)
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, tabPadding, ' ', 0)
			fmt.Fprintln(w, "COUNTRY\tPOINTS\tYEARS")
			fmt.Fprintln(w, "-------\t------\t-----")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%d\t%d-%d\n", r.Country, r.Points, r.FirstYear, r.LastYear)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&output, "output", outputTable, "Output format: table, json, or ndjson")
	cmd.Flags().StringVar(&filter, "filter", "", "Case-insensitive substring filter on the country name")
	return cmd
}
