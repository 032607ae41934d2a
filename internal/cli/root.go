package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/healthtrack/internal/config"
	"github.com/rshade/healthtrack/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the healthtrack CLI.
// It loads configuration, wires up logging and tracing, and registers the
// subcommands.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithArgs(ver, os.LookupEnv)
}

// NewRootCmdWithArgs creates the root command with an explicit env lookup for testability.
func NewRootCmdWithArgs(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	var (
		logResult  *logging.Result
		configPath string
	)

	cmd := &cobra.Command{
		Use:     "healthtrack",
		Short:   "Life expectancy dashboard",
		Long:    "healthtrack: World Bank life expectancy by country, with offline cache fallback",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if configPath == "" {
				if v, ok := lookupEnv("HEALTHTRACK_CONFIG"); ok {
					configPath = v
				}
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			config.SetGlobalConfig(cfg)

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $HEALTHTRACK_HOME/config.yaml)")

	cmd.AddCommand(
		NewLoadCmd(),
		NewCountriesCmd(),
		NewShowCmd(),
		NewInfoCmd(),
		NewExportCmd(),
		NewDashboardCmd(),
		NewServeCmd(),
		NewVersionCmd(ver),
		newCacheCmd(),
		newConfigCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Fetch the dataset (falls back to the cache when offline)
  healthtrack load

  # List every country in the dataset
  healthtrack countries

  # Show the series, peak, and country details for one country
  healthtrack show France

  # Open the interactive dashboard
  healthtrack dashboard

  # Export the dataset as Parquet
  healthtrack export --format parquet --file life_expectancy.parquet

  # Serve the read-only JSON API
  healthtrack serve --addr 127.0.0.1:8088

  # Show how old the offline cache is
  healthtrack cache info

  # Initialize configuration
  healthtrack config init`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd())
	return cmd
}

// errUnknownCountry is returned when a country argument matches no label.
func errUnknownCountry(name string) error {
	return fmt.Errorf("unknown country %q (run 'healthtrack countries' to list them)", name)
}
