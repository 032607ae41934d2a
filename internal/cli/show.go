package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/healthtrack/internal/dataset"
	"github.com/rshade/healthtrack/internal/loader"
	"github.com/rshade/healthtrack/internal/restcountries"
	"github.com/rshade/healthtrack/internal/tui"
)

// displayFlags are shared by the commands that render reports.
type displayFlags struct {
	plain      bool
	noColor    bool
	forceColor bool
}

func (f *displayFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.plain, "plain", false, "Plain text output without styling")
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&f.forceColor, "force-color", false, "Style output even when stdout is not a terminal")
}

func (f *displayFlags) mode() tui.OutputMode {
	return tui.DetectOutputMode(f.forceColor, f.noColor, f.plain)
}

// showReport is the machine-readable form of a country report.
type showReport struct {
	Status  loader.Status              `json:"status"`
	Country string                     `json:"country"`
	Series  []dataset.Observation      `json:"series"`
	Peak    *dataset.Insight           `json:"peak,omitempty"`
	Info    *restcountries.CountryInfo `json:"info"`
}

// NewShowCmd creates the show command, the non-interactive rendition of the
// dashboard for one country.
func NewShowCmd() *cobra.Command {
	var (
		output  string
		display displayFlags
	)

	cmd := &cobra.Command{
		Use:   "show <country>",
		Short: "Show the life expectancy series and details for a country",
		Long: "Shows the life expectancy chart, the peak value and year, and country details " +
			"(flag, population, region) for one country. Country names are matched case-insensitively.",
		Example: `  healthtrack show France
  healthtrack show "korea, rep." --plain
  healthtrack show Japan --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveOutput(cmd, output)
			if err != nil {
				return err
			}
			p, err := newPipeline(cmd.Context())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			res := p.session.Get(ctx)
			out := cmd.OutOrStdout()

			if res.Dataset.IsEmpty() {
				empty := showReport{Status: res.Status, Series: []dataset.Observation{}}
				switch format {
				case outputJSON:
					return writeJSON(out, empty)
				case outputNDJSON:
					return writeNDJSON(out, []showReport{empty})
				}
				fmt.Fprintln(out, tui.RenderStatusBanner(res.Status, display.mode() != tui.OutputModePlain))
				fmt.Fprintln(out, tui.EmptyGuidance(res.Status))
				return nil
			}

			country, ok := res.Dataset.LookupCountry(args[0])
			if !ok {
				return errUnknownCountry(strings.TrimSpace(args[0]))
			}
			series := res.Dataset.ForCountry(country)
			info, _ := p.resolver.Resolve(ctx, country)

			if format != outputTable {
				report := showReport{Status: res.Status, Country: country, Series: series.Rows(), Info: info}
				if peak, found := dataset.Peak(series); found {
					report.Peak = &peak
				}
				if format == outputNDJSON {
					return writeNDJSON(out, []showReport{report})
				}
				return writeJSON(out, report)
			}

			r := tui.Report{
				Status:  res.Status,
				Country: country,
				Series:  series,
				Info:    info,
				Width:   tui.TerminalWidth(os.Stdout, 0),
			}
			if display.mode() == tui.OutputModePlain {
				fmt.Fprint(out, tui.RenderPlain(r))
			} else {
				fmt.Fprint(out, tui.RenderStyled(r))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", outputTable, "Output format: table, json, or ndjson")
	display.register(cmd)
	return cmd
}
