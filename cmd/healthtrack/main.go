package main

import (
	"context"
	"errors"
	"os"

	"github.com/rshade/healthtrack/internal/cli"
	"github.com/rshade/healthtrack/pkg/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := cli.NewRootCmd(version.GetVersion())
	// cobra prints the error itself.
	return extractStatusExitCode(root.ExecuteContext(context.Background()))
}

// extractStatusExitCode maps err to a process exit code: 0 for nil, the
// carried code for a StatusExitError, and 1 otherwise.
func extractStatusExitCode(err error) int {
	if err == nil {
		return 0
	}
	var statusErr *cli.StatusExitError
	if errors.As(err, &statusErr) {
		return statusErr.ExitCode
	}
	return 1
}
