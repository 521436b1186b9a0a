// Package scaffold wires the components of an epochd process together.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/droplets-system/epoch/admin"
	"github.com/droplets-system/epoch/admin/commands"
	commonCommands "github.com/droplets-system/epoch/admin/commands/common"
	"github.com/droplets-system/epoch/admin/commands/epochs"
	storageCommands "github.com/droplets-system/epoch/admin/commands/storage"
	"github.com/droplets-system/epoch/config"
	"github.com/droplets-system/epoch/crypto/hash"
	"github.com/droplets-system/epoch/engine/access/rest"
	engine "github.com/droplets-system/epoch/engine/drops"
	"github.com/droplets-system/epoch/module"
	"github.com/droplets-system/epoch/module/auth"
	"github.com/droplets-system/epoch/module/clock"
	"github.com/droplets-system/epoch/module/metrics"
	"github.com/droplets-system/epoch/module/trace"
	"github.com/droplets-system/epoch/storage"
	"github.com/droplets-system/epoch/storage/store"
)

const shutdownTimeout = 5 * time.Second

// Node holds every component of a running service.
type Node struct {
	Config   *config.Config
	Logger   zerolog.Logger
	DB       storage.DB
	Engine   *engine.Engine
	Metrics  *metrics.Collector
	Registry *prometheus.Registry
	Tracer   module.Tracer
}

// NewNode opens the database and builds the engine. The caller must Close
// the node.
func NewNode(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Node, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	var tracer module.Tracer = trace.NewNoopTracer()
	if cfg.TracingEndpoint != "" {
		t, err := trace.NewTracer(ctx, log, "epochd", cfg.TracingEndpoint, cfg.TracingSensitivity)
		if err != nil {
			return nil, fmt.Errorf("could not initialize tracer: %w", err)
		}
		tracer = t
	}

	db, err := InitStorage(cfg.DBEngine, cfg.DataDir, log)
	if err != nil {
		return nil, multierror.Append(err, tracer.Shutdown(ctx)).ErrorOrNil()
	}

	var accounts module.AccountChecker = auth.AnyAccount{}
	if len(cfg.Accounts) > 0 {
		accounts = auth.NewStaticAccounts(cfg.AccountNames()...)
	}

	e, err := engine.New(
		log,
		db,
		store.InitAll(collector, db, cfg.CacheSize),
		hash.NewSHA2_256(),
		clock.System{},
		auth.NewCallerAuthenticator(),
		accounts,
		tracer,
		collector,
		engine.Config{
			Self:             cfg.SelfName(),
			DefaultDuration:  cfg.DefaultDuration,
			CompletionPolicy: cfg.Policy(),
		},
	)
	if err != nil {
		return nil, multierror.Append(err, db.Close(), tracer.Shutdown(ctx)).ErrorOrNil()
	}

	return &Node{
		Config:   cfg,
		Logger:   log,
		DB:       db,
		Engine:   e,
		Metrics:  collector,
		Registry: registry,
		Tracer:   tracer,
	}, nil
}

// AdminCommands returns every admin command served by the node.
func (n *Node) AdminCommands() map[string]commands.AdminCommand {
	cmds := epochs.Commands(n.Engine)
	cmds["set-log-level"] = &commonCommands.SetLogLevelCommand{}
	cmds["read-epochs"] = storageCommands.NewReadRangeEpochsCommand(n.Engine)
	return cmds
}

// Run serves the REST API, the admin endpoint and the metrics endpoint until
// ctx is cancelled or one of them fails.
func (n *Node) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	restServer := rest.NewServer(n.Engine, n.Config.RestAddr, n.Logger, n.Metrics)
	g.Go(func() error {
		return serveHTTP(gCtx, n.Logger.With().Str("component", "rest_server").Logger(), restServer)
	})

	if n.Config.AdminAddr != "" {
		bootstrapper := admin.NewCommandRunnerBootstrapper()
		epochs.Register(bootstrapper, n.AdminCommands())
		runner := bootstrapper.Bootstrap(n.Logger, n.Config.AdminAddr)
		g.Go(func() error {
			return runner.Run(gCtx)
		})
	}

	if n.Config.MetricsPort != 0 {
		addr := net.JoinHostPort("", strconv.FormatUint(uint64(n.Config.MetricsPort), 10))
		server := metrics.NewServer(n.Logger, addr, n.Registry, false)
		g.Go(func() error {
			return server.Run(gCtx)
		})
	}

	n.Logger.Info().
		Str("rest_addr", n.Config.RestAddr).
		Str("admin_addr", n.Config.AdminAddr).
		Uint("metrics_port", n.Config.MetricsPort).
		Str("self", n.Config.Self).
		Msg("epochd started")

	return g.Wait()
}

// Close flushes the tracer and closes the database.
func (n *Node) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var result *multierror.Error
	result = multierror.Append(result, n.Tracer.Shutdown(ctx))
	result = multierror.Append(result, n.DB.Close())
	return result.ErrorOrNil()
}

func serveHTTP(ctx context.Context, log zerolog.Logger, server *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", server.Addr).Msg("server started")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server on %s failed: %w", server.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := server.Shutdown(shutdownCtx)
	if serveErr := <-errCh; serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		return serveErr
	}
	log.Debug().Msg("server shutdown")
	return err
}
