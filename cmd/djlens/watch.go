package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"djlens/internal/watcher"
)

var watchFormat string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the project tree and regenerate the report on changes",
	Long: `Generate an initial codebase report, then watch the project tree and
regenerate the report whenever a relevant file changes. Changes arriving
within the cooldown window after a run are dropped. Stops on Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(watchFormat)
		root := mustGetProjectRoot()

		a := mustGetAnalyzer(root, logger)
		defer a.Close()

		ctx, stop := signal.NotifyContext(newContext(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Initial report before watching, mirroring a plain report run.
		if _, err := a.Run(ctx); err != nil {
			logger.Warn("Initial report failed", map[string]interface{}{
				"error": err.Error(),
			})
		}

		cfg := a.Config()
		wcfg := watcher.Config{
			Cooldown:   time.Duration(cfg.Watch.CooldownSeconds) * time.Second,
			Extensions: cfg.Watch.Extensions,
		}
		if wcfg.Cooldown <= 0 {
			wcfg = watcher.DefaultConfig()
		}

		w, err := watcher.New(root, wcfg, a.Rules(), func(path string, isDir bool) {
			if _, runErr := a.Run(ctx); runErr != nil {
				logger.Error("Report regeneration failed", map[string]interface{}{
					"path":  path,
					"error": runErr.Error(),
				})
			}
		}, logger)
		if err != nil {
			return err
		}

		if err := w.Start(ctx); err != nil {
			return err
		}

		<-ctx.Done()
		logger.Info("Stopping watcher", nil)
		return w.Stop()
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchFormat, "format", "human", "Log format: json or human")
	rootCmd.AddCommand(watchCmd)
}
