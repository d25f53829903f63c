package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/lecture-notes/internal/logger"
	"github.com/nguyentantai21042004/lecture-notes/internal/pipeline"
)

// PipelineHandler moves each new video into the processing folder, runs the
// pipeline on it and archives the video on success.
type PipelineHandler struct {
	pipeline      pipeline.Pipeline
	processingDir string
	archiveDir    string
	logger        logger.Logger
}

func NewPipelineHandler(p pipeline.Pipeline, processingDir, archiveDir string, log logger.Logger) *PipelineHandler {
	return &PipelineHandler{
		pipeline:      p,
		processingDir: processingDir,
		archiveDir:    archiveDir,
		logger:        log,
	}
}

// Handle satisfies EventHandler.
func (h *PipelineHandler) Handle(ctx context.Context, videoPath string) error {
	processingPath, err := h.moveToProcessing(ctx, videoPath)
	if err != nil {
		return err
	}

	res := h.pipeline.Run(ctx, pipeline.Job{VideoPath: processingPath, KeepSource: true})
	if !res.Success {
		return fmt.Errorf("pipeline: %w", res.Err)
	}

	h.logger.Info(ctx, "[DONE] %s -> %s", filepath.Base(videoPath), res.ArtifactURL)

	if err := h.moveToArchive(ctx, processingPath); err != nil {
		h.logger.Warn(ctx, "Failed to move original to archive folder: %v", err)
	}
	return nil
}

// moveToProcessing moves video file from input to processing folder
func (h *PipelineHandler) moveToProcessing(ctx context.Context, videoPath string) (string, error) {
	destPath := filepath.Join(h.processingDir, filepath.Base(videoPath))

	h.logger.Info(ctx, "Moving to processing folder: %s -> %s", videoPath, destPath)

	if err := os.MkdirAll(h.processingDir, 0755); err != nil {
		return "", fmt.Errorf("create processing dir: %w", err)
	}
	if err := os.Rename(videoPath, destPath); err != nil {
		return "", fmt.Errorf("move to processing: %w", err)
	}
	return destPath, nil
}

func (h *PipelineHandler) moveToArchive(ctx context.Context, videoPath string) error {
	destPath := filepath.Join(h.archiveDir, filepath.Base(videoPath))

	h.logger.Debug(ctx, "Archiving source video: %s -> %s", videoPath, destPath)

	if err := os.MkdirAll(h.archiveDir, 0755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}
	if err := os.Rename(videoPath, destPath); err != nil {
		return fmt.Errorf("archive video: %w", err)
	}
	return nil
}
