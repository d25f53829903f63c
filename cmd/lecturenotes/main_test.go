package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/lecture-notes/internal/config"
	"github.com/nguyentantai21042004/lecture-notes/internal/pipeline"
)

func TestRenderResultSuccess(t *testing.T) {
	res := pipeline.Result{
		Success:     true,
		ArtifactURL: "https://cdn.example.com/notes/week1.pdf",
		Provider:    "gemini",
		Stage:       pipeline.StageDone,
		Duration:    95 * time.Second,
		Timings: map[pipeline.Stage]time.Duration{
			pipeline.StageTranscribed:    80 * time.Second,
			pipeline.StageAudioExtracted: 2 * time.Second,
		},
	}

	out := renderResult(res)
	for _, want := range []string{"done", "week1.pdf", "gemini", "TRANSCRIBED", "AUDIO_EXTRACTED", "1m35s"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "AUDIO_EXTRACTED") > strings.Index(out, "TRANSCRIBED") {
		t.Error("stages should be listed in pipeline order")
	}
}

func TestRenderResultFailure(t *testing.T) {
	res := pipeline.Result{
		ErrorMessage: pipeline.UserMessage,
		Stage:        pipeline.StageFailed,
		Err:          errors.New("ffmpeg exploded"),
	}

	out := renderResult(res)
	if !strings.Contains(out, "failed") || !strings.Contains(out, pipeline.UserMessage) {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "ffmpeg exploded") {
		t.Error("internal error detail must not be printed")
	}
	if n := strings.Count(out, "╭"); n != 1 {
		t.Errorf("rendered %d tables, want 1 when there are no timings", n)
	}
}

func TestRenderTableEmpty(t *testing.T) {
	if got := renderTable(nil, nil, nil); got != "" {
		t.Errorf("renderTable(nil) = %q, want empty", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
		{2 * time.Minute, "2m0s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnsureDirectories(t *testing.T) {
	root := t.TempDir()
	cfg := &config.Config{Paths: config.PathsConfig{
		Uploads:    filepath.Join(root, "uploads"),
		Input:      filepath.Join(root, "input"),
		Processing: filepath.Join(root, "processing"),
		Output:     filepath.Join(root, "output"),
		Temp:       filepath.Join(root, "temp"),
	}}

	if err := ensureDirectories(cfg); err != nil {
		t.Fatalf("ensureDirectories() error = %v", err)
	}
	for _, dir := range []string{"uploads", "input", "processing", "output", "temp"} {
		if info, err := os.Stat(filepath.Join(root, dir)); err != nil || !info.IsDir() {
			t.Errorf("%s not created: %v", dir, err)
		}
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"serve", "watch", "process"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered: %v", name, err)
		}
	}
	if flag := root.PersistentFlags().Lookup("config"); flag == nil || flag.DefValue != "config.yaml" {
		t.Error("--config flag should default to config.yaml")
	}
}

func TestRenderOptionsPinnedClock(t *testing.T) {
	cfg := &config.Config{Render: config.RenderConfig{Layout: "flat", CreatedAt: "1700000000"}}
	opts, err := renderOptions(cfg)
	if err != nil {
		t.Fatalf("renderOptions() error = %v", err)
	}
	if opts.Clock == nil {
		t.Fatal("Clock not set for pinned created_at")
	}
	want := time.Unix(1700000000, 0).UTC()
	if got := opts.Clock(); !got.Equal(want) {
		t.Errorf("Clock() = %v, want %v", got, want)
	}
	if got := opts.Clock(); !got.Equal(want) {
		t.Errorf("second Clock() = %v, want %v", got, want)
	}

	cfg.Render.CreatedAt = ""
	opts, err = renderOptions(cfg)
	if err != nil {
		t.Fatalf("renderOptions() error = %v", err)
	}
	if opts.Clock != nil {
		t.Error("Clock should default to the renderer's wall clock")
	}

	cfg.Render.CreatedAt = "not a date"
	if _, err := renderOptions(cfg); err == nil {
		t.Error("expected error for invalid created_at")
	}
}
