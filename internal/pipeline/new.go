package pipeline

import (
	"time"

	"github.com/nguyentantai21042004/lecture-notes/internal/logger"
	"github.com/nguyentantai21042004/lecture-notes/internal/media"
	"github.com/nguyentantai21042004/lecture-notes/internal/notes"
	"github.com/nguyentantai21042004/lecture-notes/internal/notify"
	"github.com/nguyentantai21042004/lecture-notes/internal/ocr"
	"github.com/nguyentantai21042004/lecture-notes/internal/render"
	"github.com/nguyentantai21042004/lecture-notes/internal/storage"
	"github.com/nguyentantai21042004/lecture-notes/internal/transcriber"
)

// Dependencies are the stage implementations shared by every run.
type Dependencies struct {
	Media       media.Extractor
	OCR         ocr.Extractor
	Transcriber transcriber.Transcriber
	Notes       notes.Generator
	Renderer    render.Renderer
	Store       storage.Store
	Notifier    notify.Notifier
}

// Options tune a pipeline.
type Options struct {
	FrameInterval time.Duration
	Language      string
	OutputDir     string
	// Timeout bounds a whole run when > 0.
	Timeout       time.Duration
	MaxConcurrent int
	// RetainLocalArtifacts keeps the rendered PDF/DOCX on disk after upload.
	RetainLocalArtifacts bool
	// UploadAudio archives the extracted audio under audio/<name>.wav.
	UploadAudio bool
	// DefaultTitle heads documents whose video name yields no title.
	DefaultTitle string
}

type implPipeline struct {
	deps   Dependencies
	opts   Options
	sem    *semaphore
	logger logger.Logger
	now    func() time.Time
}

// New creates a Pipeline. A nil Notifier disables notifications.
func New(deps Dependencies, opts Options, log logger.Logger) Pipeline {
	if deps.Notifier == nil {
		deps.Notifier = notify.Noop{}
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = 5 * time.Second
	}
	if opts.Language == "" {
		opts.Language = "en-US"
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "output"
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 2
	}
	if opts.DefaultTitle == "" {
		opts.DefaultTitle = "Lecture Notes"
	}
	return &implPipeline{
		deps:   deps,
		opts:   opts,
		sem:    newSemaphore(opts.MaxConcurrent),
		logger: log,
		now:    time.Now,
	}
}
