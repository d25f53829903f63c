package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/lecture-notes/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Process every video dropped into the input folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log := ctx.log()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p, err := buildPipeline(runCtx, cfg, log)
			if err != nil {
				return err
			}

			handler := watcher.NewPipelineHandler(p, cfg.Paths.Processing, filepath.Join(cfg.Paths.Output, "archive"), log)
			w, err := watcher.New(watcher.Config{
				InputDir:      cfg.Paths.Input,
				MaxConcurrent: cfg.Pipeline.MaxConcurrent,
			}, handler.Handle, log)
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			defer w.Stop()

			printBanner(runCtx, log, "Lecture Notes watcher",
				fmt.Sprintf("System: %s/%s", runtime.GOOS, runtime.GOARCH),
				fmt.Sprintf("Max Concurrent Processing: %d", cfg.Pipeline.MaxConcurrent),
				"Monitoring: "+cfg.Paths.Input,
				"Output: "+cfg.Paths.Output,
				"Press Ctrl+C to stop",
			)

			if err := w.Start(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("watcher error: %w", err)
			}
			log.Info(context.WithoutCancel(runCtx), "Lecture Notes watcher stopped")
			return nil
		},
	}
}
