package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/healthtrack/internal/tui"
)

var errEmptyCountry = errors.New("country name must not be empty")

// NewInfoCmd creates the info command, which looks up country metadata
// without loading the dataset.
func NewInfoCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "info <country>",
		Short: "Look up flag, population, and region for a country",
		Example: `  healthtrack info France
  healthtrack info Japan --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveOutput(cmd, output)
			if err != nil {
				return err
			}
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errEmptyCountry
			}
			p, err := newPipeline(cmd.Context())
			if err != nil {
				return err
			}

			info, found := p.resolver.Resolve(cmd.Context(), name)
			out := cmd.OutOrStdout()
			switch format {
			case outputJSON:
				return writeJSON(out, info)
			case outputNDJSON:
				if !found {
					return nil
				}
				return writeNDJSON(out, []any{info})
			}

			if !found {
				fmt.Fprintf(out, "No country details found for %q.\n", name)
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, tabPadding, ' ', 0)
			fmt.Fprintf(w, "Name:\t%s\n", info.CommonName)
			if info.OfficialName != "" {
				fmt.Fprintf(w, "Official:\t%s\n", info.OfficialName)
			}
			for _, kv := range tui.InfoLines(info) {
				fmt.Fprintf(w, "%s:\t%s\n", kv[0], kv[1])
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&output, "output", outputTable, "Output format: table, json, or ndjson")
	return cmd
}
