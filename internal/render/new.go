package render

import (
	"time"

	"github.com/nguyentantai21042004/lecture-notes/internal/logger"
)

const defaultFooter = "Generated by Lecture Notes"

// Options configures the renderer.
type Options struct {
	Layout string
	Footer string
	DOCX   bool
	// Clock supplies the document creation date. Identical input and clock give identical bytes.
	Clock func() time.Time
}

type implRenderer struct {
	opts   Options
	logger logger.Logger
}

// New creates a gofpdf backed Renderer.
func New(opts Options, log logger.Logger) Renderer {
	if opts.Layout == "" {
		opts.Layout = LayoutFlat
	}
	if opts.Footer == "" {
		opts.Footer = defaultFooter
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &implRenderer{opts: opts, logger: log}
}
