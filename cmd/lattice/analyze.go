package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/scholarnet-ai/lattice/internal/analytics"
)

var (
	analyzeTitle  string
	analyzeNodeID string
	analyzeKinds  []string
	analyzeLimit  int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run graph analytics for a work and rank the merged results",
	Long: `Runs the requested analysis kinds against the research graph
projection and merges their per-node metrics into one result set
ranked by composite confidence.

Kinds run concurrently; a kind that fails is reported but does not
abort the others.`,
	Example: `  lattice analyze --title "transformer"
  lattice analyze --node-id W2741809807 --kinds community,similarity
  lattice analyze --title "graph neural" --kinds comprehensive --limit 10 -o json`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeTitle, "title", "t", "", "Title keyword selecting the target work")
	analyzeCmd.Flags().StringVarP(&analyzeNodeID, "node-id", "n", "", "Node id selecting the target work")
	analyzeCmd.Flags().StringSliceVarP(&analyzeKinds, "kinds", "k", nil,
		fmt.Sprintf("Analysis kinds to run (%s)", kindNames()))
	analyzeCmd.Flags().IntVarP(&analyzeLimit, "limit", "l", 0, "Maximum results per kind")
}

func kindNames() string {
	all := analytics.AllKinds()
	names := make([]string, len(all))
	for i, kind := range all {
		names[i] = kind.String()
	}
	return strings.Join(names, ", ")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	kinds, err := resolveKinds(analyzeKinds)
	if err != nil {
		return err
	}

	app, err := newApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer app.close(cmd.Context())

	ctx, cancel := queryContext(cmd)
	defer cancel()

	selector := analytics.Selector{
		TitleKeyword: analyzeTitle,
		NodeID:       analyzeNodeID,
	}

	limit := analyzeLimit
	if limit <= 0 {
		limit = cfg.Analytics.DefaultLimit
	}

	results, err := app.orchestrator.Analyze(ctx, selector, kinds, limit)
	if err != nil {
		return err
	}

	ranked := analytics.Aggregate(results)

	if outputFormat == "json" {
		return formatter(cmd).PrintJSON(map[string]any{
			"results": ranked,
			"kinds":   kindStatuses(results),
		})
	}

	printKindStatuses(cmd, results)
	printRanked(cmd, ranked)
	return nil
}

// resolveKinds parses the --kinds flag, falling back to the configured
// default set.
func resolveKinds(names []string) ([]analytics.AnalysisKind, error) {
	if len(names) == 0 {
		names = cfg.Analytics.DefaultKinds
	}
	if len(names) == 0 {
		return analytics.DefaultKinds(), nil
	}
	return analytics.ParseKinds(names)
}

// kindStatuses summarizes per-kind outcomes for JSON output.
func kindStatuses(results map[analytics.AnalysisKind]analytics.KindResult) map[string]string {
	statuses := make(map[string]string, len(results))
	for kind, result := range results {
		if result.Err != nil {
			statuses[kind.String()] = result.Err.Error()
		} else {
			statuses[kind.String()] = fmt.Sprintf("%d records", len(result.Records))
		}
	}
	return statuses
}

func printKindStatuses(cmd *cobra.Command, results map[analytics.AnalysisKind]analytics.KindResult) {
	failed := color.New(color.FgRed)
	for _, kind := range analytics.AllKinds() {
		result, ok := results[kind]
		if !ok {
			continue
		}
		if result.Err != nil {
			failed.Fprintf(cmd.ErrOrStderr(), "kind %s failed: %v\n", kind, result.Err)
		}
	}
}

func printRanked(cmd *cobra.Command, ranked []analytics.RankedResult) {
	if len(ranked) == 0 {
		cmd.Println("No results.")
		return
	}

	title := color.New(color.Bold)
	high := color.New(color.FgGreen)
	mid := color.New(color.FgYellow)

	for i, result := range ranked {
		score := fmt.Sprintf("%.3f", result.Confidence)
		switch {
		case result.Confidence >= 0.7:
			score = high.Sprint(score)
		case result.Confidence >= 0.4:
			score = mid.Sprint(score)
		}

		community := "-"
		if result.CommunityID != nil {
			community = fmt.Sprintf("%d", *result.CommunityID)
		}

		cmd.Printf("%2d. %s  confidence=%s  community=%s\n",
			i+1, title.Sprint(result.Title), score, community)
	}
}
