package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/scholarnet-ai/lattice/cmd/lattice/internal"
)

var (
	queryRun  bool
	queryFile string
)

var queryCmd = &cobra.Command{
	Use:   "query [cypher]",
	Short: "Validate a candidate query, optionally executing it",
	Long: `Passes a candidate Cypher query through alias normalization and
safety validation. The normalized query is printed on success; with
--run it also executes read-only against the graph and prints the
result rows.

The query is read from the argument, from --file, or from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().BoolVar(&queryRun, "run", false, "Execute the validated query against the graph")
	queryCmd.Flags().StringVarP(&queryFile, "file", "f", "", "Read the candidate query from a file")
}

func runQuery(cmd *cobra.Command, args []string) error {
	raw, err := readCandidate(cmd, args)
	if err != nil {
		return err
	}

	app, err := newApp(cmd.Context(), queryRun)
	if err != nil {
		return err
	}
	defer app.close(cmd.Context())

	safe, err := app.gateway.Prepare(raw)
	if err != nil {
		return err
	}

	out := formatter(cmd)
	if !queryRun {
		if outputFormat == "json" {
			return out.PrintJSON(map[string]string{"query": safe.String()})
		}
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "query passed validation")
		cmd.Println(safe.String())
		return nil
	}

	ctx, cancel := queryContext(cmd)
	defer cancel()

	result, err := app.client.Query(ctx, safe.String(), nil)
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return out.PrintJSON(result.Records)
	}

	rows := make([][]string, 0, len(result.Records))
	for _, record := range result.Records {
		row := make([]string, 0, len(result.Columns))
		for _, column := range result.Columns {
			row = append(row, fmt.Sprintf("%v", record[column]))
		}
		rows = append(rows, row)
	}
	if err := out.PrintTable(result.Columns, rows); err != nil {
		return err
	}
	cmd.Printf("\n%d rows in %s\n", len(result.Records), result.Summary.ExecutionTime)
	return nil
}

// readCandidate resolves the candidate query from argument, file, or stdin.
func readCandidate(cmd *cobra.Command, args []string) (string, error) {
	if queryFile != "" {
		data, err := os.ReadFile(queryFile)
		if err != nil {
			return "", internal.WrapError(internal.ExitError,
				fmt.Sprintf("failed to read query file %s", queryFile), err)
		}
		return string(data), nil
	}
	if len(args) == 1 {
		return args[0], nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", internal.WrapError(internal.ExitError, "failed to read query from stdin", err)
	}
	candidate := strings.TrimSpace(string(data))
	if candidate == "" {
		return "", internal.NewCLIError(internal.ExitError,
			"no query provided: pass it as an argument, via --file, or on stdin")
	}
	return candidate, nil
}
