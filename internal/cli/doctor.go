package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tally-cli/tally/internal/app/tracker"
)

func init() {
	doctorCmd.Flags().Bool("repair", false, "reset an invalid settings record to the config file values")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the store for problems",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	repair, _ := cmd.Flags().GetBool("repair")

	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer ws.Close()

	checker := ws.Checker(repair)
	statuses := checker.Run(commandContext(cmd))

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHECK\tSTATUS\tDETAIL")
	for _, s := range statuses {
		state := "ok"
		switch {
		case s.Repaired && s.Healthy:
			state = "repaired"
		case !s.Healthy:
			state = "FAIL"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, state, s.Error)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	saved, err := ws.LastWrite(tracker.KeyTasks)
	switch {
	case err != nil:
		fmt.Fprintf(out, "\nTasks last saved: unknown (%v)\n", err)
	case saved.IsZero():
		fmt.Fprintln(out, "\nTasks never saved.")
	default:
		fmt.Fprintf(out, "\nTasks last saved: %s (%s)\n",
			humanize.Time(saved), ws.Tracker.Settings().DateTime().Format(saved))
	}
	if !checker.IsHealthy() {
		return errors.New("store has problems")
	}
	return nil
}
