package media

import (
	"github.com/nguyentantai21042004/lecture-notes/internal/logger"
	"github.com/nguyentantai21042004/lecture-notes/pkg/executor"
)

const (
	SampleRate = 16000
	Channels   = 1
	Codec      = "pcm_s16le"

	// FramePattern names frames with a zero-padded counter so directory order is temporal order.
	FramePattern = "frame_%05d.png"
)

// Config names the binaries and the directory that receives frame folders.
type Config struct {
	FFmpegBinary  string
	FFprobeBinary string
	TempDir       string
}

type implExtractor struct {
	cfg      Config
	executor executor.Executor
	logger   logger.Logger
}

// New creates a new Extractor instance
func New(cfg Config, exec executor.Executor, log logger.Logger) Extractor {
	if cfg.FFmpegBinary == "" {
		cfg.FFmpegBinary = "ffmpeg"
	}
	if cfg.FFprobeBinary == "" {
		cfg.FFprobeBinary = "ffprobe"
	}
	return &implExtractor{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}
