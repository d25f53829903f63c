package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/lecture-notes/internal/httpapi"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the upload HTTP API",
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

			srv, err := httpapi.NewServer(httpapi.Config{
				Port:              cfg.Server.Port,
				MaxUploadBytes:    cfg.Server.MaxUploadMB << 20,
				RequestsPerMinute: cfg.Server.RequestsPerMinute,
				AllowedOrigins:    cfg.Server.AllowedOrigins,
				UploadDir:         cfg.Paths.Uploads,
			}, p, log)
			if err != nil {
				return err
			}

			printBanner(runCtx, log, "Lecture Notes API",
				"Listening on :"+cfg.Server.Port,
				"Uploads: "+cfg.Paths.Uploads,
			)

			if err := srv.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			log.Info(runCtx, "Lecture Notes API stopped")
			return nil
		},
	}
}
