package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	addCmd.Flags().String("date", "", "when the time was spent, in the configured date format with optional H:MM (default now)")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add TASK TIME_SPENT",
	Short: "Add time spent on a task by hand",
	Long: `Add a closed interval to a task, creating it as finished if needed.

TIME_SPENT is H:MM, Nh or Nm, for example 1:30, 2h or 45m.`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	date, _ := cmd.Flags().GetString("date")

	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer ws.Close()

	return ws.Tracker.Add(commandContext(cmd), args[0], args[1], date)
}
