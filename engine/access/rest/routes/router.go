// Package routes wires the REST API endpoints to the engine.
package routes

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/droplets-system/epoch/engine/access/rest/middleware"
	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/module"
	"github.com/droplets-system/epoch/state/protocol/commitreveal"
)

// API is the part of the engine served over HTTP.
type API interface {
	SubmitCommit(ctx context.Context, oracle drops.Name, height uint64, digest drops.Digest) (*drops.Commit, error)
	SubmitReveal(ctx context.Context, oracle drops.Name, height uint64, value string) (*commitreveal.RevealResult, error)
	CurrentEpochHeight(ctx context.Context) (uint64, error)
	ActiveOraclesForCurrentEpoch(ctx context.Context) (drops.NameList, error)
	Epoch(ctx context.Context, height uint64) (*drops.Epoch, error)
	State(ctx context.Context) (*drops.State, error)
	Oracles(ctx context.Context) (drops.NameList, error)
	Commits(ctx context.Context, height uint64) ([]*drops.Commit, error)
	Reveals(ctx context.Context, height uint64) ([]*drops.Reveal, error)
}

type route struct {
	Name    string
	Method  string
	Pattern string
	Handler ApiHandlerFunc
}

var Routes = []route{{
	Method:  http.MethodPost,
	Pattern: "/commits",
	Name:    "submitCommit",
	Handler: SubmitCommit,
}, {
	Method:  http.MethodPost,
	Pattern: "/reveals",
	Name:    "submitReveal",
	Handler: SubmitReveal,
}, {
	Method:  http.MethodGet,
	Pattern: "/epochs/current",
	Name:    "getCurrentEpoch",
	Handler: GetCurrentEpoch,
}, {
	Method:  http.MethodGet,
	Pattern: "/epochs/{height}",
	Name:    "getEpoch",
	Handler: GetEpoch,
}, {
	Method:  http.MethodGet,
	Pattern: "/epochs/{height}/commits",
	Name:    "getEpochCommits",
	Handler: GetEpochCommits,
}, {
	Method:  http.MethodGet,
	Pattern: "/epochs/{height}/reveals",
	Name:    "getEpochReveals",
	Handler: GetEpochReveals,
}, {
	Method:  http.MethodGet,
	Pattern: "/oracles",
	Name:    "getOracles",
	Handler: GetOracles,
}, {
	Method:  http.MethodGet,
	Pattern: "/oracles/active",
	Name:    "getActiveOracles",
	Handler: GetActiveOracles,
}, {
	Method:  http.MethodGet,
	Pattern: "/state",
	Name:    "getState",
	Handler: GetState,
}}

// NewRouter returns the router serving the API under /v1.
func NewRouter(api API, logger zerolog.Logger, restCollector module.RestMetrics) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	v1SubRouter := router.PathPrefix("/v1").Subrouter()

	// common middleware for all request
	v1SubRouter.Use(middleware.RequestIDMiddleware())
	v1SubRouter.Use(middleware.LoggingMiddleware(logger))
	v1SubRouter.Use(middleware.MetricsMiddleware(restCollector))
	v1SubRouter.Use(middleware.AuthorityMiddleware())

	for _, r := range Routes {
		h := NewHandler(logger, api, r.Handler)
		v1SubRouter.
			Methods(r.Method).
			Path(r.Pattern).
			Name(r.Name).
			Handler(h)
	}
	return router
}
