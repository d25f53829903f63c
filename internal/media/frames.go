package media

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ExtractFrames samples one still frame per interval into a fresh directory per call.
// The caller owns the directory and removes it.
func (e *implExtractor) ExtractFrames(ctx context.Context, videoPath string, interval time.Duration) (FrameSequence, error) {
	if interval <= 0 {
		interval = 5 * time.Second
	}

	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	parent := e.cfg.TempDir
	if parent == "" {
		parent = filepath.Dir(videoPath)
	}
	if err := os.MkdirAll(parent, 0755); err != nil {
		return FrameSequence{}, fmt.Errorf("%w: create temp dir: %v", ErrExtraction, err)
	}
	dir, err := os.MkdirTemp(parent, base+"_frames_")
	if err != nil {
		return FrameSequence{}, fmt.Errorf("%w: create frames dir: %v", ErrExtraction, err)
	}
	seq := FrameSequence{Dir: dir, Interval: interval}

	e.logger.Info(ctx, "Extracting frames every %s: %s -> %s", interval, videoPath, dir)

	if _, err := e.executor.Execute(ctx, e.cfg.FFmpegBinary, frameArgs(videoPath, dir, interval)...); err != nil {
		return seq, fmt.Errorf("%w: extract frames: %v", ErrExtraction, err)
	}

	frames, err := ListFrames(dir)
	if err != nil {
		return seq, fmt.Errorf("%w: list frames: %v", ErrExtraction, err)
	}
	seq.Frames = frames

	e.logger.Info(ctx, "Extracted %d frames into %s", len(frames), dir)
	return seq, nil
}

// frameArgs builds the ffmpeg arguments sampling at 1/interval frames per second.
func frameArgs(videoPath, dir string, interval time.Duration) []string {
	return []string{
		"-i", videoPath,
		"-vf", "fps=1/" + formatSeconds(interval),
		"-y",
		filepath.Join(dir, FramePattern),
	}
}

func formatSeconds(d time.Duration) string {
	if d%time.Second == 0 {
		return fmt.Sprintf("%d", int64(d/time.Second))
	}
	return fmt.Sprintf("%g", d.Seconds())
}

// ListFrames returns the image files of dir in lexical (= temporal) order.
func ListFrames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var frames []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg":
			frames = append(frames, filepath.Join(dir, e.Name()))
		}
	}

	sort.Strings(frames)
	return frames, nil
}

// ExpectedFrames is the number of frames a video of the given duration yields: ceil(duration/interval).
func ExpectedFrames(duration, interval time.Duration) int {
	if duration <= 0 || interval <= 0 {
		return 0
	}
	return int(math.Ceil(float64(duration) / float64(interval)))
}
