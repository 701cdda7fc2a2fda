package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var projectionCmd = &cobra.Command{
	Use:   "projection",
	Short: "Manage the in-memory graph projection",
}

var projectionEnsureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Create the projection if it does not exist",
	RunE:  runProjectionEnsure,
}

var projectionInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show node and relationship counts for the projection",
	RunE:  runProjectionInfo,
}

var projectionDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop the projection so the next run rebuilds it",
	RunE:  runProjectionDrop,
}

func init() {
	projectionCmd.AddCommand(projectionEnsureCmd)
	projectionCmd.AddCommand(projectionInfoCmd)
	projectionCmd.AddCommand(projectionDropCmd)
}

func runProjectionEnsure(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer app.close(cmd.Context())

	ctx, cancel := queryContext(cmd)
	defer cancel()

	if err := app.projections.Ensure(ctx, cfg.Analytics.ProjectionName); err != nil {
		return err
	}
	return formatter(cmd).PrintSuccess(
		fmt.Sprintf("projection %q is ready", cfg.Analytics.ProjectionName))
}

func runProjectionInfo(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer app.close(cmd.Context())

	ctx, cancel := queryContext(cmd)
	defer cancel()

	info, err := app.projections.Info(ctx, cfg.Analytics.ProjectionName)
	if err != nil {
		return err
	}

	out := formatter(cmd)
	if outputFormat == "json" {
		return out.PrintJSON(info)
	}
	return out.PrintTable(
		[]string{"projection", "nodes", "relationships"},
		[][]string{{
			info.Name,
			fmt.Sprintf("%d", info.NodeCount),
			fmt.Sprintf("%d", info.RelationshipCount),
		}},
	)
}

func runProjectionDrop(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer app.close(cmd.Context())

	ctx, cancel := queryContext(cmd)
	defer cancel()

	if err := app.projections.Drop(ctx, cfg.Analytics.ProjectionName); err != nil {
		return err
	}
	return formatter(cmd).PrintSuccess(
		fmt.Sprintf("projection %q dropped", cfg.Analytics.ProjectionName))
}
