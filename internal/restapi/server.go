// Package restapi exposes the loaded dataset and country metadata as a small
// read-only JSON API.
package restapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"

	"github.com/rshade/healthtrack/internal/loader"
	"github.com/rshade/healthtrack/internal/logging"
	"github.com/rshade/healthtrack/internal/restcountries"
)

// DatasetSource provides the session dataset. *loader.Session satisfies it.
type DatasetSource interface {
	Get(ctx context.Context) loader.Result
	Refresh(ctx context.Context) loader.Result
}

// InfoResolver provides country metadata. *restcountries.Resolver satisfies it.
type InfoResolver interface {
	Resolve(ctx context.Context, name string) (*restcountries.CountryInfo, bool)
}

const shutdownTimeout = 5 * time.Second

// Server serves the JSON API.
type Server struct {
	source   DatasetSource
	resolver InfoResolver
	logger   zerolog.Logger
}

// New creates a Server.
func New(source DatasetSource, resolver InfoResolver, logger zerolog.Logger) *Server {
	return &Server{
		source:   source,
		resolver: resolver,
		logger:   logging.ComponentLogger(logger, "restapi"),
	}
}

// Routes returns the API handler.
func (s *Server) Routes() http.Handler {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(s.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(s.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/api/status", s.statusHandler)
	router.HandlerFunc(http.MethodGet, "/api/countries", s.countriesHandler)
	router.HandlerFunc(http.MethodGet, "/api/countries/:name/series", s.seriesHandler)
	router.HandlerFunc(http.MethodGet, "/api/countries/:name/info", s.infoHandler)
	router.HandlerFunc(http.MethodPost, "/api/refresh", s.refreshHandler)

	return s.withRequestLogging(router)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return s.logger.WithContext(context.Background()) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("starting server")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info().Msg("shutting down server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		return nil
	}
}

func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		traceID := r.Header.Get("X-Trace-Id")
		if traceID == "" {
			traceID = logging.NewTraceID()
		}
		ctx := logging.ContextWithTraceID(s.logger.WithContext(r.Context()), traceID)
		w.Header().Set("X-Trace-Id", traceID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		logging.FromContext(ctx).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

func (s *Server) log(r *http.Request) *zerolog.Logger {
	return logging.FromContext(r.Context())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
