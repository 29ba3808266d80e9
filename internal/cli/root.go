// Package cli implements the nooksbridge command-line interface using
// Cobra. Subcommands operate directly on the local reward database; `serve`
// exposes the same engine over HTTP.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nooksbridge",
	Short: "nooksbridge: reward & progression engine for Nook & Hook",
	Long: `nooksbridge is the reward and progression engine behind the Nook & Hook
reading tracker: point grants, levels, streaks, badges, goal bonuses, and
the points shop.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
