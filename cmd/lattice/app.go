package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/scholarnet-ai/lattice/cmd/lattice/internal"
	"github.com/scholarnet-ai/lattice/internal/analytics"
	"github.com/scholarnet-ai/lattice/internal/graph"
	"github.com/scholarnet-ai/lattice/internal/metric"
	"github.com/scholarnet-ai/lattice/internal/safety"
	"github.com/scholarnet-ai/lattice/internal/schema"
)

// app bundles the wired platform components a subcommand needs. Commands
// that only validate queries leave the graph client nil; commands that run
// analytics connect first.
type app struct {
	logger       *slog.Logger
	metrics      *metric.Metrics
	catalog      *schema.Catalog
	gateway      *safety.Gateway
	client       graph.Client
	projections  *analytics.ProjectionManager
	orchestrator *analytics.Orchestrator

	metricsServer *http.Server
}

// newApp wires the platform from the loaded config. When connect is true
// the graph client is connected and the analytics components are built.
func newApp(ctx context.Context, connect bool) (*app, error) {
	a := &app{
		logger:  cfg.Logging.NewLogger(os.Stderr),
		metrics: metric.NewMetrics(),
	}

	catalog, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	a.catalog = catalog

	gatewayOpts := []safety.Option{safety.WithMetrics(a.metrics)}
	if cfg.Safety.RelationshipInference {
		gatewayOpts = append(gatewayOpts, safety.WithRelationshipInference())
	}
	a.gateway = safety.NewGateway(catalog, gatewayOpts...)

	if cfg.Metrics.Enabled {
		a.serveMetrics()
	}

	if !connect {
		return a, nil
	}

	client, err := graph.NewNeo4jClient(graphClientConfig())
	if err != nil {
		return nil, err
	}
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}
	a.client = client

	a.projections = analytics.NewProjectionManager(client, a.logger, a.metrics)
	a.orchestrator = analytics.NewOrchestrator(client, a.projections, a.logger,
		analytics.WithProjectionName(cfg.Analytics.ProjectionName),
		analytics.WithMinSimilarity(cfg.Analytics.MinSimilarity),
		analytics.WithOrchestratorMetrics(a.metrics),
	)
	return a, nil
}

// graphClientConfig maps the loaded config onto the graph client's settings.
func graphClientConfig() graph.Config {
	return graph.Config{
		URI:                     cfg.Graph.URI,
		Username:                cfg.Graph.Username,
		Password:                cfg.Graph.Password,
		Database:                cfg.Graph.Database,
		MaxConnectionPoolSize:   cfg.Graph.MaxConnections,
		ConnectionTimeout:       cfg.Graph.ConnectionTimeout,
		MaxTransactionRetryTime: cfg.Graph.QueryTimeout,
	}
}

// loadCatalog reads the schema catalog from the configured path, falling
// back to the embedded default.
func loadCatalog() (*schema.Catalog, error) {
	if cfg.Safety.CatalogPath == "" {
		return schema.Default()
	}
	data, err := os.ReadFile(cfg.Safety.CatalogPath)
	if err != nil {
		return nil, internal.WrapError(internal.ExitConfigError,
			fmt.Sprintf("failed to read schema catalog %s", cfg.Safety.CatalogPath), err)
	}
	return schema.Parse(data)
}

// serveMetrics starts the Prometheus exposition endpoint in the background.
func (a *app) serveMetrics() {
	registry := prometheus.NewRegistry()
	if err := a.metrics.Register(registry); err != nil {
		a.logger.Warn("metrics registration failed", "error", err)
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	a.metricsServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: mux,
	}
	go func() {
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Warn("metrics server stopped", "error", err)
		}
	}()
}

// close releases the graph connection and stops the metrics endpoint.
func (a *app) close(ctx context.Context) {
	if a.client != nil {
		if err := a.client.Close(ctx); err != nil {
			a.logger.Warn("graph client close failed", "error", err)
		}
	}
	if a.metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = a.metricsServer.Shutdown(shutdownCtx)
	}
}

// queryContext derives the per-command timeout context from the config.
func queryContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), cfg.Graph.QueryTimeout)
}
