package metrics

import (
	"context"
	"errors"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server is the http server that will be serving the /metrics request for prometheus
type Server struct {
	server *http.Server
	log    zerolog.Logger
}

// NewServer creates a new server that will listen on the specified address,
// and responds to only the `/metrics` endpoint
func NewServer(log zerolog.Logger, addr string, gatherer prometheus.Gatherer, enableProfilerEndpoint bool) *Server {
	mux := http.NewServeMux()
	endpoint := "/metrics"
	mux.Handle(endpoint, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	if enableProfilerEndpoint {
		mux.Handle("/debug/pprof/", http.DefaultServeMux)
	}

	m := &Server{
		server: &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		log:    log.With().Str("component", "metrics_server").Str("address", addr).Logger(),
	}

	return m
}

// Run serves requests until ctx is cancelled, then shuts the server down.
func (m *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		m.log.Info().Msg("metrics server started")
		errCh <- m.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := m.server.Shutdown(shutdownCtx)

	// http.ErrServerClosed is returned when Close or Shutdown is called
	// we don't consider this an error, so print this with debug level instead
	if serveErr := <-errCh; serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		m.log.Err(serveErr).Msg("error shutting down metrics server")
		return serveErr
	}
	m.log.Debug().Msg("metrics server shutdown")
	return err
}
