package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tally-cli/tally/internal/app/tracker"
)

func init() {
	exportCmd.Flags().StringP("format", "f", tracker.ExportJSON, "json or yaml")
	exportCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump the settings and every task",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) (err error) {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	if err := tracker.CheckExportFormat(format); err != nil {
		return err
	}

	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer ws.Close()

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}
	return ws.Tracker.Export(commandContext(cmd), w, format)
}
