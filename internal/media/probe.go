package media

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ProbeDuration reads the container duration with ffprobe. A zero duration is an error.
func (e *implExtractor) ProbeDuration(ctx context.Context, videoPath string) (time.Duration, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	}

	out, err := e.executor.Execute(ctx, e.cfg.FFprobeBinary, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: probe duration: %v", ErrExtraction, err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parse duration %q: %v", ErrExtraction, strings.TrimSpace(out), err)
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("%w: video has no duration", ErrExtraction)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}
