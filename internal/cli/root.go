// Package cli implements the tally command-line interface using Cobra.
// Each subcommand opens the workspace, runs one tracker operation and
// closes it again.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tally-cli/tally/internal/app/tracker"
	"github.com/tally-cli/tally/internal/workspace"
)

var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "Track time spent on tasks",
	Long: `tally is a personal time tracker for the command line.
Start, pause and finish named tasks, add time by hand, and see how the
day was spent.

Data lives in $TALLY_HOME (default ~/.tally).`,
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

// openWorkspace opens the workspace with the tracker writing to the
// command's output.
func openWorkspace(cmd *cobra.Command) (*workspace.Workspace, error) {
	return workspace.Open(commandContext(cmd), tracker.WithOutput(cmd.OutOrStdout()))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
