package cmd

import (
	"errors"
	"fmt"
	"os"

	"dirmirror/internal/config"
	"dirmirror/internal/db"
	"dirmirror/internal/logger"

	"github.com/spf13/cobra"
)

var (
	cfg   *config.Config
	debug bool
)

// commands that never touch the database
var clientCmds = map[string]bool{
	"status": true, "stop": true,
	"install": true, "uninstall": true,
}

var rootCmd = &cobra.Command{
	Use:           "dirmirror",
	Short:         "Mirror a directory tree onto another, once or continuously",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		logger.Init(debug)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		if !clientCmds[cmd.Name()] {
			if err := db.Init(cfg.DBPath); err != nil {
				return err
			}
		}

		return nil
	},
}

// ExitError carries the process exit status chosen by a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func Execute() {
	err := rootCmd.Execute()
	_ = db.Close()
	logger.Sync()

	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}
	os.Exit(1)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug mode")
}
