package cli

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/rshade/healthtrack/pkg/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(ver string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Printf("healthtrack %s\n", ver)
			cmd.Printf("  commit:     %s\n", version.Commit)
			cmd.Printf("  built:      %s\n", version.BuildDate)
			cmd.Printf("  go version: %s\n", runtime.Version())
			return nil
		},
	}
}
