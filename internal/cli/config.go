package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tally-cli/tally/internal/domain"
	"github.com/tally-cli/tally/internal/workspace"
)

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing config file")
	configCmd.AddCommand(configShowCmd, configGetCmd, configSetCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the tracking settings",
	Long: `Show or change the tracking settings kept in the store, or write a
default config.toml with "config init".

Keys:
  date_format             date pattern, e.g. MM/DD/YYYY or DD.MM.YYYY
  pause_others_on_start   true to pause other tasks when one starts`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every setting",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config.toml",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var settingKeys = []string{domain.SettingDateFormat, domain.SettingPauseOthers}

func runConfigShow(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer ws.Close()

	out := cmd.OutOrStdout()
	settings := ws.Tracker.Settings()
	for _, key := range settingKeys {
		v, _ := settings.Get(key)
		fmt.Fprintf(out, "%s = %s\n", key, v)
	}
	fmt.Fprintf(out, "\n# %s\n", workspace.ConfigPath())
	fmt.Fprintf(out, "storage.backend = %s\n", ws.Config.Storage.Backend)
	fmt.Fprintf(out, "storage.dir = %s\n", ws.Config.Storage.Dir)
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer ws.Close()

	v, err := ws.Tracker.Settings().Get(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), v)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer ws.Close()

	settings, err := ws.SetSetting(commandContext(cmd), args[0], args[1])
	if err != nil {
		return err
	}
	v, _ := settings.Get(args[0])
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], v)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	path := workspace.ConfigPath()
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := workspace.SaveConfig(workspace.DefaultConfig()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
