package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func init() {
	startCmd.Flags().StringP("description", "d", "", "what the interval is about")
	startCmd.Flags().Bool("pause-others", false, "pause every other task in progress")
	startCmd.Flags().Bool("no-pause-others", false, "leave other tasks running")
	rootCmd.AddCommand(startCmd)
}

var startCmd = &cobra.Command{
	Use:   "start TASK",
	Short: "Start or resume a task",
	Long: `Start a new task, or resume a paused or finished one.

Other tasks in progress are paused when pause_others_on_start is set,
unless --no-pause-others is given. --pause-others forces it.`,
	Args: cobra.ExactArgs(1),
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	desc, _ := cmd.Flags().GetString("description")
	force, _ := cmd.Flags().GetBool("pause-others")
	skip, _ := cmd.Flags().GetBool("no-pause-others")
	if force && skip {
		return errors.New("--pause-others and --no-pause-others are mutually exclusive")
	}

	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer ws.Close()

	pauseOthers := ws.Tracker.Settings().PauseOthersOnStart
	switch {
	case force:
		pauseOthers = true
	case skip:
		pauseOthers = false
	}
	return ws.Tracker.Start(commandContext(cmd), args[0], desc, pauseOthers)
}
