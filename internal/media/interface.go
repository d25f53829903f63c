package media

import (
	"context"
	"errors"
	"time"
)

// ErrExtraction marks any failure of the external media tools. It aborts the pipeline.
var ErrExtraction = errors.New("media extraction failed")

// AudioTrack is the mono 16kHz PCM WAV produced from a source video.
type AudioTrack struct {
	Path       string
	SampleRate int
	Channels   int
	Codec      string
}

// FrameSequence is the ordered list of still frames sampled from a video.
// Lexical order of Frames equals temporal order.
type FrameSequence struct {
	Dir      string
	Frames   []string
	Interval time.Duration
}

// Extractor produces audio and frame artifacts from a video file.
type Extractor interface {
	ExtractAudio(ctx context.Context, videoPath string) (AudioTrack, error)
	ExtractFrames(ctx context.Context, videoPath string, interval time.Duration) (FrameSequence, error)
	ProbeDuration(ctx context.Context, videoPath string) (time.Duration, error)
}
