package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rshade/healthtrack/internal/config"
	"github.com/rshade/healthtrack/internal/restapi"
)

// NewServeCmd creates the serve command, which exposes the dataset over a
// read-only JSON API until interrupted.
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dataset and country details as a JSON API",
		Long: `Serves a read-only JSON API:

  GET  /api/status
  GET  /api/countries
  GET  /api/countries/:name/series
  GET  /api/countries/:name/info
  POST /api/refresh`,
		Example: `  healthtrack serve
  healthtrack serve --addr 0.0.0.0:8088`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = config.GetGlobalConfig().Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p, err := newPipeline(ctx)
			if err != nil {
				return err
			}

			// Warm the session so the first request does not pay for the fetch.
			res := p.session.Get(ctx)
			logger.Info().Ctx(ctx).
				Str("addr", addr).
				Str("status", string(res.Status)).
				Int("rows", res.Dataset.Len()).
				Msg("serving life expectancy API")
			cmd.Printf("Listening on http://%s\n", addr)

			return restapi.New(p.session, p.resolver, logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultServerAddr, "Listen address")
	return cmd
}
