package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/healthtrack/internal/cache"
	"github.com/rshade/healthtrack/internal/config"
)

// cacheInfo is the machine-readable form of the cache file state.
type cacheInfo struct {
	Path     string    `json:"path"`
	Exists   bool      `json:"exists"`
	Size     int64     `json:"size,omitempty"`
	Modified time.Time `json:"modified,omitzero"`
	Age      string    `json:"age,omitempty"`
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Inspect or clear the local dataset cache"}
	cmd.AddCommand(newCacheInfoCmd(), newCacheClearCmd())
	return cmd
}

func openStore() (*cache.FileStore, error) {
	return cache.NewFileStore(config.GetGlobalConfig().Cache.Path)
}

func newCacheInfoCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the cache file location, size, and age",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveOutput(cmd, output)
			if err != nil {
				return err
			}
			store, err := openStore()
			if err != nil {
				return err
			}

			ci := cacheInfo{Path: store.Path(), Exists: store.Exists()}
			if ci.Exists {
				st, statErr := store.Stat()
				if statErr != nil {
					return statErr
				}
				ci.Size = st.Size
				ci.Modified = st.ModTime
				ci.Age = formatAge(st.Age())
			}

			out := cmd.OutOrStdout()
			switch format {
			case outputJSON:
				return writeJSON(out, ci)
			case outputNDJSON:
				return writeNDJSON(out, []cacheInfo{ci})
			}

			w := tabwriter.NewWriter(out, 0, 0, tabPadding, ' ', 0)
			fmt.Fprintf(w, "Path:\t%s\n", ci.Path)
			if !ci.Exists {
				fmt.Fprintf(w, "Status:\tno cache file yet (run 'healthtrack load')\n")
				return w.Flush()
			}
			fmt.Fprintf(w, "Size:\t%d bytes\n", ci.Size)
			fmt.Fprintf(w, "Modified:\t%s\n", ci.Modified.Format(time.RFC3339))
			fmt.Fprintf(w, "Age:\t%s\n", ci.Age)
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&output, "output", outputTable, "Output format: table, json, or ndjson")
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the cache file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			if err = store.Clear(); err != nil {
				return err
			}
			logger.Info().Ctx(cmd.Context()).Str("path", store.Path()).Msg("cache cleared")
			cmd.Printf("Cache cleared: %s\n", store.Path())
			return nil
		},
	}
}

// formatAge rounds d for display.
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return d.Round(time.Second).String()
	case d < 24*time.Hour:
		return d.Round(time.Minute).String()
	default:
		day := 24 * time.Hour
		return fmt.Sprintf("%dd%dh", int(d/day), int((d%day)/time.Hour))
	}
}
