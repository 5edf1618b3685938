package cmd

import (
	"fmt"
	"os"

	"dirmirror/internal/autostart"

	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Start the watch daemon with the user session",
	RunE: func(cmd *cobra.Command, args []string) error {
		as := autostart.New()

		installed, err := as.IsInstalled()
		if err != nil {
			return err
		}
		if installed {
			fmt.Fprintln(cmd.OutOrStdout(), "already registered, run 'dirmirror uninstall' first to change it")
			return nil
		}

		execPath, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to get executable path: %w", err)
		}

		if err := as.Install(execPath); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "registered %s watch for autostart\n", pathStyle.Render(execPath))
		return nil
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Stop starting the watch daemon with the user session",
	RunE: func(cmd *cobra.Command, args []string) error {
		as := autostart.New()

		installed, err := as.IsInstalled()
		if err != nil {
			return err
		}
		if !installed {
			fmt.Fprintln(cmd.OutOrStdout(), "not registered")
			return nil
		}

		if err := as.Uninstall(); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "autostart removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd, uninstallCmd)
}
