package cmd

import (
	"fmt"

	"dirmirror/internal/model"
	"dirmirror/internal/repository"

	"github.com/spf13/cobra"
)

var (
	historyN      int
	historyFailed bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recorded sync events",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := repository.NewHistoryRepository()

		var (
			histories []model.History
			err       error
		)
		if historyFailed {
			histories, err = repo.GetFailed(historyN)
		} else {
			histories, err = repo.GetRecent(historyN)
		}
		if err != nil {
			return err
		}

		if len(histories) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no history yet")
			return nil
		}

		for _, h := range histories {
			status := "✓"
			if h.Status == model.StatusFailed {
				status = "✗"
			}

			line := fmt.Sprintf("%s [%s] %-9s %s",
				status,
				h.SyncedAt.Format("2006-01-02 15:04:05"),
				h.Kind,
				h.SrcPath,
			)
			if h.DstPath != "" {
				line += " -> " + h.DstPath
			}
			if h.ErrMsg != "" {
				line += ": " + h.ErrMsg
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}

		stats, err := repo.GetStats()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "total %d, failed %d\n", stats.Total, stats.Failed)

		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyN, "n", 20, "number of history entries to show")
	historyCmd.Flags().BoolVar(&historyFailed, "failed", false, "only show failures")
	rootCmd.AddCommand(historyCmd)
}
