package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list [DATE]",
	Aliases: []string{"ls"},
	Short:   "Show the time tracked on a day (default today)",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runList,
}

func runList(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer ws.Close()

	var date string
	if len(args) == 1 {
		date = args[0]
	}
	_, err = ws.Tracker.List(commandContext(cmd), date)
	return err
}
