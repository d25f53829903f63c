package ocr

import (
	"context"

	"github.com/nguyentantai21042004/lecture-notes/internal/media"
)

// Engine recognizes the text of a single image.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// Extractor turns a frame sequence into the visual text of a lecture.
type Extractor interface {
	ExtractVisualText(ctx context.Context, frames media.FrameSequence) (string, error)
}
