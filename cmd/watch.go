package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dirmirror/internal/daemon"
	"dirmirror/internal/logger"
	"dirmirror/internal/mirror"
	"dirmirror/internal/repository"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Start the daemon and keep every stored job mirrored",
	RunE:  runDaemon,
}

func runDaemon(cmd *cobra.Command, args []string) error {
	jobRepo := repository.NewJobRepository()
	jobs, err := jobRepo.GetAll()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := mirror.New(afero.NewOsFs(), logger.Log)
	manager := daemon.NewJobManager(cfg, engine, repository.NewHistoryRepository(), logger.Log)

	if len(jobs) == 0 {
		logger.Log.Info("no jobs configured, use 'dirmirror job add <src> <dst>' to add one")
	} else if err := manager.StartAll(ctx, jobs); err != nil {
		logger.Log.Warn("some jobs did not start",
			zap.Error(err))
	}

	srv := daemon.NewServer(ctx, manager, cfg.DaemonPort, logger.Log)
	srv.Start()

	logger.Log.Info("dirmirror daemon started",
		zap.Int("jobs", len(jobs)),
		zap.Int("port", cfg.DaemonPort))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Log.Info("shutting down",
			zap.String("signal", sig.String()))
	case <-srv.StopCh():
		logger.Log.Info("stop requested via API")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return srv.Stop(shutdownCtx)
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
