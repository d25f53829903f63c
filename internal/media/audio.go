package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// ExtractAudio extracts the audio track of a video as 16kHz mono 16-bit PCM WAV,
// the format the speech services expect regardless of the source codec.
// On failure the returned track still names the output path so callers can clean it up.
func (e *implExtractor) ExtractAudio(ctx context.Context, videoPath string) (AudioTrack, error) {
	audioPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".wav"
	if e.cfg.TempDir != "" {
		base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
		audioPath = filepath.Join(e.cfg.TempDir, base+".wav")
	}

	e.logger.Info(ctx, "Extracting audio: %s -> %s", videoPath, audioPath)

	if _, err := e.executor.Execute(ctx, e.cfg.FFmpegBinary, audioArgs(videoPath, audioPath)...); err != nil {
		return AudioTrack{Path: audioPath}, fmt.Errorf("%w: extract audio: %v", ErrExtraction, err)
	}

	info, err := os.Stat(audioPath)
	if err != nil {
		return AudioTrack{}, fmt.Errorf("%w: audio output missing: %v", ErrExtraction, err)
	}

	e.logger.Info(ctx, "Audio extracted: %s (%s)", audioPath, humanize.Bytes(uint64(info.Size())))
	return AudioTrack{
		Path:       audioPath,
		SampleRate: SampleRate,
		Channels:   Channels,
		Codec:      Codec,
	}, nil
}

// audioArgs builds the ffmpeg arguments for audio extraction
// -vn: no video, -ar/-ac: 16kHz mono, -c:a pcm_s16le: 16-bit PCM, -y: overwrite
func audioArgs(videoPath, audioPath string) []string {
	return []string{
		"-i", videoPath,
		"-vn",
		"-ar", fmt.Sprint(SampleRate),
		"-ac", fmt.Sprint(Channels),
		"-c:a", Codec,
		"-threads", "0",
		"-y",
		audioPath,
	}
}
