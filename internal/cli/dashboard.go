package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/healthtrack/internal/tui"
)

// NewDashboardCmd creates the dashboard command. On a capable terminal it runs
// the interactive Bubble Tea dashboard; otherwise it prints the first
// country's report like show does.
func NewDashboardCmd() *cobra.Command {
	var display displayFlags

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive life expectancy dashboard",
		Long: "Opens a terminal dashboard with a filterable country selector, a life expectancy chart, " +
			"the peak insight, and flag, population, and region details. Press r to refetch, q to quit.",
		Example: `  healthtrack dashboard
  healthtrack dashboard --plain`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p, err := newPipeline(ctx)
			if err != nil {
				return err
			}

			mode := display.mode()
			if mode == tui.OutputModeInteractive {
				logger.Debug().Ctx(ctx).Msg("starting interactive dashboard")
				program := tea.NewProgram(tui.NewDashboardModel(ctx, p.session, p.resolver), tea.WithAltScreen())
				if _, err = program.Run(); err != nil {
					return fmt.Errorf("running dashboard: %w", err)
				}
				return nil
			}

			res := p.session.Get(ctx)
			out := cmd.OutOrStdout()
			countries := res.Dataset.Countries()
			if len(countries) == 0 {
				fmt.Fprintln(out, tui.RenderStatusBanner(res.Status, mode == tui.OutputModeStyled))
				fmt.Fprintln(out, tui.EmptyGuidance(res.Status))
				return nil
			}

			country := countries[0]
			info, _ := p.resolver.Resolve(ctx, country)
			r := tui.Report{Status: res.Status, Country: country, Series: res.Dataset.ForCountry(country), Info: info}
			if mode == tui.OutputModeStyled {
				fmt.Fprint(out, tui.RenderStyled(r))
			} else {
				fmt.Fprint(out, tui.RenderPlain(r))
			}
			fmt.Fprintf(out, "\n%d countries available; use 'healthtrack show <country>' for another.\n",
				len(countries))
			return nil
		},
	}

	display.register(cmd)
	return cmd
}
