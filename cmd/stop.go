package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Ask the running daemon to shut down",
	RunE: func(cmd *cobra.Command, args []string) error {
		var reply struct {
			Status string `json:"status"`
		}
		if err := callDaemon(http.MethodPost, "/stop", &reply); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "daemon "+reply.Status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
