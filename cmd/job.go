package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"dirmirror/internal/mirror"
	"dirmirror/internal/repository"

	"github.com/spf13/cobra"
)

var (
	jobDelete bool
	jobDepth  string
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Manage stored mirror jobs",
}

var jobListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, err := repository.NewJobRepository().GetAll()
		if err != nil {
			return err
		}

		if len(jobs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no jobs configured")
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%-4s %-30s %-30s %-7s %s\n", "ID", "SRC", "DST", "DELETE", "DEPTH")
		for _, j := range jobs {
			fmt.Fprintf(cmd.OutOrStdout(), "%-4d %-30s %-30s %-7t %s\n",
				j.ID, j.Src, j.Dst, j.Delete, mirror.FormatDepth(j.Depth))
		}

		return nil
	},
}

var jobAddCmd = &cobra.Command{
	Use:   "add [src] [dst]",
	Short: "Add a new job",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		del, depth, err := mirrorSettings(cmd, jobDelete, jobDepth)
		if err != nil {
			return err
		}

		src, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid src path: %w", err)
		}
		dst, err := filepath.Abs(args[1])
		if err != nil {
			return fmt.Errorf("invalid dst path: %w", err)
		}

		job, err := repository.NewJobRepository().Add(src, dst, del, depth)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "job added: id=%d src=%s dst=%s\n", job.ID, job.Src, job.Dst)
		return nil
	},
}

var jobRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}

		if err := repository.NewJobRepository().Delete(uint(id)); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "job %d removed\n", id)
		return nil
	},
}

func init() {
	jobAddCmd.Flags().BoolVarP(&jobDelete, "delete", "d", false, "remove target entries missing from source (default from config)")
	jobAddCmd.Flags().StringVar(&jobDepth, "depth", "", "maximum directory depth (default from config)")
	jobCmd.AddCommand(jobListCmd, jobAddCmd, jobRemoveCmd)
	rootCmd.AddCommand(jobCmd)
}
