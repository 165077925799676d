package cli

import (
	"github.com/spf13/cobra"

	"github.com/tally-cli/tally/internal/domain"
)

func init() {
	stopCmd.Flags().String("at", "", `stop time: "H:MM" today or a full date and time`)
	pauseCmd.Flags().String("at", "", `pause time: "H:MM" today or a full date and time`)
	rootCmd.AddCommand(stopCmd, pauseCmd)
}

var stopCmd = &cobra.Command{
	Use:     "stop [TASK]",
	Aliases: []string{"finish"},
	Short:   "Finish a task, or every task in progress",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStop(cmd, args, domain.StatusFinished)
	},
}

var pauseCmd = &cobra.Command{
	Use:   "pause [TASK]",
	Short: "Pause a task, or every task in progress",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStop(cmd, args, domain.StatusPaused)
	},
}

func runStop(cmd *cobra.Command, args []string, status domain.TaskStatus) error {
	at, _ := cmd.Flags().GetString("at")
	var name string
	if len(args) == 1 {
		name = args[0]
	}

	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer ws.Close()

	return ws.Tracker.Stop(commandContext(cmd), name, status, at)
}
