package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/healthtrack/internal/cli"
	"github.com/rshade/healthtrack/internal/loader"
	"github.com/rshade/healthtrack/pkg/version"
)

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		assert.NotEmpty(t, version.GetVersion())
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(version.GetVersion())
		assert.NotNil(t, root)
		assert.Equal(t, "healthtrack", root.Use)
	})
}

func TestExtractStatusExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, 0},
		{"stale", &cli.StatusExitError{ExitCode: 2, Status: loader.StatusStale}, 2},
		{"unavailable", &cli.StatusExitError{ExitCode: 3, Status: loader.StatusUnavailable}, 3},
		{"wrapped", fmt.Errorf("load: %w", &cli.StatusExitError{ExitCode: 3}), 3},
		{"generic error", errors.New("boom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractStatusExitCode(tt.err))
		})
	}
}
