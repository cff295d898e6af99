// Package cli implements the powergate command-line interface using Cobra.
// Each subcommand loads a scenario, runs one part of the planner, and
// prints the result as a table or as JSON.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tutu-network/powergate/internal/api"
)

var (
	configPath string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "powergate",
	Short: "powergate: deadlock safety and power-budgeted admission",
	Long: `powergate checks whether a process table is in a safe state and
simulates which processes a fixed power budget can admit under the
performance and power-saving policies.

Scenarios are TOML or JSON files; "-" reads TOML from stdin.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $POWERGATE_HOME/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version
	api.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
