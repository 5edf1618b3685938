package cmd

import (
	"fmt"
	"net/http"
	"time"

	"dirmirror/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var stateStyles = map[string]lipgloss.Style{
	"WATCHING": lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	"FAULTED":  errorStyle,
	"STOPPED":  dimStyle,
}

func renderState(state string) string {
	if style, ok := stateStyles[state]; ok {
		return style.Render(state)
	}
	return state
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the jobs the daemon is running",
	RunE: func(cmd *cobra.Command, args []string) error {
		var result struct {
			Jobs []model.JobSnapshot `json:"jobs"`
		}
		if err := callDaemon(http.MethodGet, "/status", &result); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(result.Jobs) == 0 {
			fmt.Fprintln(out, "no active jobs")
			return nil
		}

		for _, snap := range result.Jobs {
			lastEvent := "never"
			if snap.LastEvent != nil {
				lastEvent = time.Since(*snap.LastEvent).Round(time.Second).String() + " ago"
			}

			fmt.Fprintf(out, "%s %d %s\n", labelStyle.Render("JOB"), snap.JobID, renderState(snap.State))
			fmt.Fprintf(out, "  %s -> %s\n", pathStyle.Render(snap.Src), pathStyle.Render(snap.Dst))
			fmt.Fprintf(out, "  copied %d, removed %d, failed %d, last event %s\n",
				snap.Copied, snap.Removed, snap.Failed, lastEvent)
			if !snap.Initial {
				fmt.Fprintln(out, "  "+errorStyle.Render("initial pass had errors, see 'dirmirror history --failed'"))
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
