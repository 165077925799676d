package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"ps"},
	Short:   "Show the tasks in progress",
	Args:    cobra.NoArgs,
	RunE:    runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer ws.Close()

	_, err = ws.Tracker.Status(commandContext(cmd))
	return err
}
