package main

import (
	"runtime"

	"github.com/spf13/cobra"
)

// Version information, set at build time via ldflags.
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("lattice %s\n", version)
		cmd.Printf("  commit:     %s\n", commit)
		cmd.Printf("  built:      %s\n", buildDate)
		cmd.Printf("  go version: %s\n", runtime.Version())
		cmd.Printf("  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}
