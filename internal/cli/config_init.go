package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/healthtrack/internal/config"
)

var errConfigExists = errors.New("configuration file already exists, use --force to overwrite")

// configPathFlag returns the --config value, or the default location inside
// a freshly ensured config directory.
func configPathFlag(cmd *cobra.Command) (string, error) {
	if f := cmd.Flag("config"); f != nil && f.Value.String() != "" {
		return f.Value.String(), nil
	}
	if err := config.EnsureConfigDir(); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	return config.DefaultConfigPath()
}

// NewConfigInitCmd creates the config init command for initializing configuration.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long:  "Creates $HEALTHTRACK_HOME/config.yaml (default ~/.healthtrack/config.yaml) with default values.",
		Example: `  # Create configuration
  healthtrack config init

  # Create configuration, overwriting existing
  healthtrack config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, err := configPathFlag(cmd)
			if err != nil {
				return err
			}

			if !force {
				_, statErr := os.Stat(configPath)
				if statErr == nil {
					return errConfigExists
				}
				if !os.IsNotExist(statErr) {
					return fmt.Errorf("cannot access config path %s: %w", configPath, statErr)
				}
			}

			if err = config.New().Save(configPath); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			cmd.Printf("Configuration initialized at %s\n", configPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	return cmd
}

// NewConfigShowCmd creates the config show command, which prints the
// effective configuration after file and environment overrides.
func NewConfigShowCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Example: `  healthtrack config show
  healthtrack config show --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			switch output {
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(cfg); err != nil {
					return err
				}
				return enc.Close()
			case outputJSON:
				return writeJSON(cmd.OutOrStdout(), cfg)
			default:
				return fmt.Errorf("invalid output format %q (expected yaml or json)", output)
			}
		},
	}

	cmd.Flags().StringVar(&output, "output", "yaml", "Output format: yaml or json")
	return cmd
}
