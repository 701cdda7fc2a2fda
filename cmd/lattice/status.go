package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholarnet-ai/lattice/cmd/lattice/internal"
	"github.com/scholarnet-ai/lattice/internal/analytics"
	"github.com/scholarnet-ai/lattice/internal/graph"
	"github.com/scholarnet-ai/lattice/internal/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check graph connectivity and projection readiness",
	Long: `Checks the configured graph backend and reports one of three states:
healthy (connected and the analytics projection is available), degraded
(connected but the projection is missing), or unhealthy (unreachable).
Exits non-zero when the backend is unhealthy.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer app.close(cmd.Context())

	ctx, cancel := queryContext(cmd)
	defer cancel()

	status := app.checkGraph(ctx)

	out := formatter(cmd)
	if outputFormat == "json" {
		if err := out.PrintJSON(status); err != nil {
			return err
		}
	} else {
		line := fmt.Sprintf("%s: %s", status.State, status.Message)
		if status.IsHealthy() {
			if err := out.PrintSuccess(line); err != nil {
				return err
			}
		} else if err := out.PrintError(line); err != nil {
			return err
		}
	}

	if status.State == types.HealthStateUnhealthy {
		return internal.NewCLIError(internal.ExitGraphError, "graph backend is unhealthy")
	}
	return nil
}

// checkGraph grades backend readiness: an unreachable backend is unhealthy,
// a reachable one without the configured projection is degraded.
func (a *app) checkGraph(ctx context.Context) types.HealthStatus {
	client, err := graph.NewNeo4jClient(graphClientConfig())
	if err != nil {
		return types.Unhealthy(err.Error())
	}
	if err := client.Connect(ctx); err != nil {
		return types.Unhealthy(fmt.Sprintf("cannot reach graph at %s: %v", cfg.Graph.URI, err))
	}
	a.client = client

	if health := client.Health(ctx); !health.IsHealthy() {
		return health
	}

	projections := analytics.NewProjectionManager(client, a.logger, a.metrics)
	info, err := projections.Info(ctx, cfg.Analytics.ProjectionName)
	if err != nil {
		return types.Degraded(fmt.Sprintf("connected, but projection %q is not available",
			cfg.Analytics.ProjectionName))
	}
	return types.Healthy(fmt.Sprintf("connected, projection %q has %d nodes and %d relationships",
		info.Name, info.NodeCount, info.RelationshipCount))
}
