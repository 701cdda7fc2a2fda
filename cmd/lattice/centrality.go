package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var centralityLimit int

var centralityCmd = &cobra.Command{
	Use:   "centrality",
	Short: "Report the four centrality measures over the whole graph",
	Long: `Runs degree, betweenness, closeness, and PageRank centrality over
the research graph projection and prints the top nodes per measure.
A measure whose query fails is reported without aborting the rest.`,
	RunE: runCentrality,
}

func init() {
	centralityCmd.Flags().IntVarP(&centralityLimit, "limit", "l", 0, "Maximum nodes per measure")
}

func runCentrality(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer app.close(cmd.Context())

	ctx, cancel := queryContext(cmd)
	defer cancel()

	limit := centralityLimit
	if limit <= 0 {
		limit = cfg.Analytics.DefaultLimit
	}

	report, err := app.orchestrator.CentralityMetrics(ctx, limit)
	if err != nil {
		return err
	}

	out := formatter(cmd)
	if outputFormat == "json" {
		return out.PrintJSON(report)
	}

	measures := make([]string, 0, len(report))
	for name := range report {
		measures = append(measures, name)
	}
	sort.Strings(measures)

	for _, name := range measures {
		result := report[name]
		cmd.Printf("\n%s\n", name)
		if result.Err != nil {
			cmd.PrintErrf("  failed: %v\n", result.Err)
			continue
		}
		rows := make([][]string, 0, len(result.Records))
		for _, record := range result.Records {
			value := "-"
			if v, ok := record.Metric(name); ok {
				value = fmt.Sprintf("%.4f", v)
			}
			rows = append(rows, []string{record.Title, value})
		}
		if err := out.PrintTable([]string{"title", "score"}, rows); err != nil {
			return err
		}
	}
	return nil
}
