package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/lecture-notes/internal/pipeline"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var (
		title string
		email string
	)

	cmd := &cobra.Command{
		Use:   "process <video>",
		Short: "Process a single video and print the notes URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			absPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			info, err := os.Stat(absPath)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("file does not exist: %s", absPath)
				}
				return fmt.Errorf("inspect file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("%s is a directory", absPath)
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p, err := buildPipeline(runCtx, cfg, ctx.log())
			if err != nil {
				return err
			}

			res := p.Run(runCtx, pipeline.Job{
				VideoPath:  absPath,
				Title:      title,
				Email:      email,
				KeepSource: true,
			})

			fmt.Fprintln(cmd.OutOrStdout(), renderResult(res))
			if !res.Success {
				return fmt.Errorf("%s: %w", res.ErrorMessage, res.Err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Document title (defaults to the video name)")
	cmd.Flags().StringVar(&email, "email", "", "Send the notes link to this address")

	return cmd
}
