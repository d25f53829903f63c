package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/lecture-notes/internal/logger"
	"github.com/nguyentantai21042004/lecture-notes/internal/media"
	"github.com/nguyentantai21042004/lecture-notes/pkg/executor"
)

var unsafeTag = regexp.MustCompile(`[^A-Za-z0-9-]+`)

// WhisperConfig configures the local whisper.cpp backend.
type WhisperConfig struct {
	BinaryPath string
	ModelPath  string
	Prompt     string
	Threads    int
}

// WhisperTranscriber runs whisper.cpp synchronously against the local audio file.
type WhisperTranscriber struct {
	cfg      WhisperConfig
	executor executor.Executor
	logger   logger.Logger
}

// NewWhisper creates a whisper.cpp backed Transcriber.
func NewWhisper(cfg WhisperConfig, exec executor.Executor, log logger.Logger) *WhisperTranscriber {
	if cfg.Threads <= 0 {
		cfg.Threads = 4
	}
	return &WhisperTranscriber{cfg: cfg, executor: exec, logger: log}
}

// Transcribe writes <audio>.<language>.txt next to the audio file, returns its
// contents and removes it. Each language gets its own file so concurrent runs
// over the same audio do not overwrite each other.
func (w *WhisperTranscriber) Transcribe(ctx context.Context, audio media.AudioTrack, languageCode string) (string, error) {
	outputPrefix := whisperOutputPrefix(audio.Path, languageCode)
	txtPath := outputPrefix + ".txt"
	defer os.Remove(txtPath)

	w.logger.Info(ctx, "Starting whisper transcription with %d threads: %s", w.cfg.Threads, audio.Path)

	// -otxt: plain text output
	// -l: force language (prevents hallucination)
	// -ml/-mc 0: no segment length or context limit for long lectures
	// -bo 5: best of 5
	args := []string{
		"-m", w.cfg.ModelPath,
		"-f", audio.Path,
		"-otxt",
		"-l", whisperLanguage(languageCode),
		"-t", strconv.Itoa(w.cfg.Threads),
		"-ml", "0",
		"-mc", "0",
		"-bo", "5",
		"--output-file", outputPrefix,
	}
	if w.cfg.Prompt != "" {
		args = append(args, "--prompt", w.cfg.Prompt)
	}

	// Run next to the audio so any side files land in the run's temp area.
	if _, err := w.executor.ExecuteInDir(ctx, filepath.Dir(audio.Path), w.cfg.BinaryPath, args...); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: whisper: %v", ErrTimedOut, err)
		}
		return "", fmt.Errorf("%w: whisper: %v", ErrJobFailed, err)
	}

	data, err := os.ReadFile(txtPath)
	if err != nil {
		return "", fmt.Errorf("%w: read whisper output: %v", ErrJobFailed, err)
	}

	text := strings.TrimSpace(string(data))
	w.logger.Info(ctx, "Whisper transcription completed: %s (%d characters)", txtPath, len(text))
	return text, nil
}

func whisperOutputPrefix(audioPath, languageCode string) string {
	prefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	tag := unsafeTag.ReplaceAllString(languageCode, "")
	if tag == "" {
		tag = "auto"
	}
	return prefix + "." + tag
}

// whisperLanguage maps a BCP-47 code like "en-US" to whisper's two letter form.
func whisperLanguage(code string) string {
	if code == "" {
		return "auto"
	}
	if i := strings.IndexByte(code, '-'); i > 0 {
		code = code[:i]
	}
	return strings.ToLower(code)
}
