// Package rest serves the public HTTP API of the service.
package rest

import (
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/droplets-system/epoch/engine/access/rest/middleware"
	"github.com/droplets-system/epoch/engine/access/rest/routes"
	"github.com/droplets-system/epoch/module"
)

// NewServer returns an HTTP server initialized with the REST API handler
func NewServer(api routes.API, listenAddress string, logger zerolog.Logger, restCollector module.RestMetrics) *http.Server {
	router := routes.NewRouter(api, logger.With().Str("component", "rest").Logger(), restCollector)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
			http.MethodHead},
	})

	return &http.Server{
		Addr:         listenAddress,
		Handler:      c.Handler(router),
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
	}
}
