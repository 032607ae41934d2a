package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rshade/healthtrack/internal/cache"
	"github.com/rshade/healthtrack/internal/config"
	"github.com/rshade/healthtrack/internal/loader"
	"github.com/rshade/healthtrack/internal/logging"
	"github.com/rshade/healthtrack/internal/restcountries"
	"github.com/rshade/healthtrack/internal/worldbank"
)

// Output formats accepted by --output on the listing commands.
const (
	outputTable  = "table"
	outputJSON   = "json"
	outputNDJSON = "ndjson"
)

const tabPadding = 2

// errInvalidOutput is returned for an unrecognized --output value.
var errInvalidOutput = errors.New("invalid output format (expected table, json, or ndjson)")

// pipeline bundles the per-invocation dataset session and resolver.
type pipeline struct {
	session  *loader.Session
	resolver *restcountries.Resolver
	store    *cache.FileStore
}

// newPipeline builds the loader session and resolver from the global config.
func newPipeline(ctx context.Context) (*pipeline, error) {
	cfg := config.GetGlobalConfig()
	log := logging.FromContext(ctx)

	store, err := cache.NewFileStore(cfg.Cache.Path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	ind := cfg.Sources.Indicator
	client := worldbank.New(ind.BaseURL,
		worldbank.WithPerPage(ind.PerPage),
		worldbank.WithTimeout(ind.Timeout),
		worldbank.WithRetries(ind.Retries),
	)

	ld := loader.New(client, store, loader.WithObserver(func(r loader.Result) {
		log.Debug().Ctx(ctx).
			Str("status", string(r.Status)).
			Str("source", string(r.Source)).
			Int("rows", r.Dataset.Len()).
			Msg("dataset ready")
	}))

	cs := cfg.Sources.Countries
	return &pipeline{
		session:  loader.NewSession(ld),
		resolver: restcountries.New(cs.BaseURL, cs.Timeout),
		store:    store,
	}, nil
}

// resolveOutput returns the --output value, falling back to the configured
// default when the flag was not given.
func resolveOutput(cmd *cobra.Command, output string) (string, error) {
	if !cmd.Flags().Changed("output") {
		output = config.GetDefaultOutputFormat()
	}
	switch output {
	case outputTable, outputJSON, outputNDJSON:
		return output, nil
	default:
		return "", fmt.Errorf("%q: %w", output, errInvalidOutput)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return err
		}
	}
	return nil
}
