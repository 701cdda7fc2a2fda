package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scholarnet-ai/lattice/cmd/lattice/internal"
	"github.com/scholarnet-ai/lattice/internal/config"
)

// Global flag values
var (
	configFile   string
	outputFormat string
	verboseMode  bool
)

// cfg is loaded once before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "lattice",
	Short: "Lattice - Research Graph Query Gateway and Analytics",
	Long: `Lattice validates machine-generated graph queries against a schema
catalog before they reach the research graph, and orchestrates graph
algorithm runs whose results merge into confidence-ranked insights.

Candidate queries pass through alias normalization, read-only
enforcement, and procedure allow-listing; analytics fan out per
requested kind with per-kind failure isolation.`,
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the root command with signal handling
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

// loadConfig is called before any command runs to load configuration
func loadConfig(cmd *cobra.Command, args []string) error {
	internal.SetVerbose(verboseMode)

	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}

	path := configFile
	if path == "" {
		path = config.Path()
	}

	loaded, err := config.NewLoader(config.NewValidator()).LoadWithDefaults(path)
	if err != nil {
		return err
	}
	cfg = loaded

	if verboseMode {
		cfg.Logging.Level = "debug"
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Path to config file (default $LATTICE_CONFIG or ~/.lattice/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text",
		"Output format (text|json)")
	rootCmd.PersistentFlags().BoolVarP(&verboseMode, "verbose", "v", false,
		"Enable verbose output")

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(centralityCmd)
	rootCmd.AddCommand(communitiesCmd)
	rootCmd.AddCommand(projectionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
}

// formatter builds the output formatter for the current --output flag.
func formatter(cmd *cobra.Command) internal.Formatter {
	return internal.NewFormatter(internal.OutputFormat(outputFormat), cmd.OutOrStdout())
}
