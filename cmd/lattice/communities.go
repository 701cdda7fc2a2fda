package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scholarnet-ai/lattice/internal/analytics"
)

var communitiesCmd = &cobra.Command{
	Use:   "communities",
	Short: "Detect and summarize research communities",
	Long: `Runs community detection over the research graph projection and
prints one summary per community: its size and a sample of member
titles, largest community first.`,
	RunE: runCommunities,
}

func runCommunities(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer app.close(cmd.Context())

	ctx, cancel := queryContext(cmd)
	defer cancel()

	records, err := app.orchestrator.DetectCommunities(ctx)
	if err != nil {
		return err
	}

	summaries := analytics.SummarizeCommunities(records)

	out := formatter(cmd)
	if outputFormat == "json" {
		return out.PrintJSON(summaries)
	}

	if len(summaries) == 0 {
		cmd.Println("No communities detected.")
		return nil
	}

	rows := make([][]string, 0, len(summaries))
	for _, summary := range summaries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", summary.CommunityID),
			fmt.Sprintf("%d", summary.Size),
			strings.Join(summary.Members, "; "),
		})
	}
	return out.PrintTable([]string{"community", "size", "sample members"}, rows)
}
