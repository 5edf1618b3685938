package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dirmirror/internal/logger"
	"dirmirror/internal/mirror"
	"dirmirror/internal/pipeline"
	"dirmirror/internal/repository"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	syncWatch       bool
	syncDelete      bool
	syncDepth       string
	syncExitOnError bool
)

var syncCmd = &cobra.Command{
	Use:   "sync [source] [target]",
	Short: "Mirror source onto target, optionally keep watching",
	Args:  cobra.ExactArgs(2),
	RunE:  runSync,
}

// mirrorSettings resolves delete and depth from the command's flags, using
// the config value for any flag that was not set.
func mirrorSettings(cmd *cobra.Command, del bool, depth string) (bool, int, error) {
	if !cmd.Flags().Changed("delete") {
		del = cfg.Delete
	}
	if !cmd.Flags().Changed("depth") {
		depth = cfg.Depth
	}

	d, err := mirror.ParseDepth(depth)
	if err != nil {
		return false, 0, err
	}

	return del, d, nil
}

func syncOptions(cmd *cobra.Command) (mirror.Options, error) {
	del, depth, err := mirrorSettings(cmd, syncDelete, syncDepth)
	if err != nil {
		return mirror.Options{}, err
	}

	return mirror.Options{
		Watch:  syncWatch,
		Delete: del,
		Depth:  depth,
	}, nil
}

func runSync(cmd *cobra.Command, args []string) error {
	src, dst := args[0], args[1]

	opts, err := syncOptions(cmd)
	if err != nil {
		return &ExitError{Code: mirror.DefaultErrorCode, Err: err}
	}

	engine := mirror.New(afero.NewOsFs(), logger.Log)
	engine.BufferSize = cfg.BufferSize
	engine.Pipeline = pipeline.Build(cfg.IgnoreList, cfg.Debounce)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := newConsole(cmd.OutOrStdout(), cmd.ErrOrStderr(), debug)
	fatal := make(chan *mirror.SyncError, 1)
	notifier := mirror.Fanout{
		out,
		recordTo(repository.NewHistoryRepository(), 0),
		firstError(fatal),
	}

	logger.Log.Info("starting sync",
		zap.String("src", src),
		zap.String("dst", dst),
		zap.Bool("watch", opts.Watch))

	session, err := engine.Sync(ctx, src, dst, opts, notifier)
	if err != nil {
		return &ExitError{Code: mirror.DefaultErrorCode, Err: err}
	}

	if !opts.Watch || session.State() == mirror.Faulted {
		fmt.Fprintln(cmd.OutOrStdout(), out.summary())
		if len(session.Result.Errors) > 0 {
			first := session.Result.Errors[0]
			return &ExitError{Code: first.Code, Err: fmt.Errorf("mirror failed with %d errors", len(session.Result.Errors))}
		}
		if session.State() == mirror.Faulted {
			return &ExitError{Code: mirror.DefaultErrorCode, Err: fmt.Errorf("watch failed")}
		}
		return nil
	}

	if syncExitOnError && !session.Result.OK {
		session.Stop()
		return exitWith(<-fatal)
	}

	for {
		select {
		case <-ctx.Done():
			session.Stop()
			fmt.Fprintln(cmd.OutOrStdout(), out.summary())
			return nil

		case <-session.Done():
			fmt.Fprintln(cmd.OutOrStdout(), out.summary())
			return &ExitError{Code: mirror.DefaultErrorCode, Err: fmt.Errorf("watch ended: %s", session.State())}

		case se := <-fatal:
			if !syncExitOnError {
				continue
			}
			session.Stop()
			return exitWith(se)
		}
	}
}

func exitWith(se *mirror.SyncError) error {
	return &ExitError{Code: se.Code, Err: se}
}

func addSyncFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&syncWatch, "watch", "w", false, "keep mirroring changes after the initial pass")
	cmd.Flags().BoolVarP(&syncDelete, "delete", "d", false, "remove target entries missing from source (default from config)")
	cmd.Flags().StringVar(&syncDepth, "depth", "", "maximum directory depth (default from config)")
	cmd.Flags().BoolVar(&syncExitOnError, "exit-on-error", false, "exit on the first error event")
}

func init() {
	addSyncFlags(syncCmd)
	rootCmd.AddCommand(syncCmd)
}
