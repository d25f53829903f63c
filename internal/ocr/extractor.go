package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/lecture-notes/internal/logger"
	"github.com/nguyentantai21042004/lecture-notes/internal/media"
)

type implExtractor struct {
	engine Engine
	logger logger.Logger
}

// New creates an Extractor that runs engine over every frame.
func New(engine Engine, log logger.Logger) Extractor {
	return &implExtractor{engine: engine, logger: log}
}

// ExtractVisualText runs OCR frame by frame, in order, one call at a time.
// A frame that fails is logged and skipped; only an unreadable frame list is an error.
func (e *implExtractor) ExtractVisualText(ctx context.Context, frames media.FrameSequence) (string, error) {
	paths := frames.Frames
	if paths == nil {
		listed, err := media.ListFrames(frames.Dir)
		if err != nil {
			return "", fmt.Errorf("read frames: %w", err)
		}
		paths = listed
	}

	e.logger.Info(ctx, "Running %s OCR over %d frames", e.engine.Name(), len(paths))

	var texts []string
	failed := 0
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		text, err := e.engine.Recognize(ctx, path)
		if err != nil {
			failed++
			e.logger.Warn(ctx, "[%d/%d] OCR failed for %s: %v", i+1, len(paths), path, err)
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		texts = append(texts, text)
	}

	e.logger.Info(ctx, "OCR complete: %d frames with text, %d failed", len(texts), failed)
	return strings.Join(texts, "\n"), nil
}
