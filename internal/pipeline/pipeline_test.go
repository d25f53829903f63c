package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nguyentantai21042004/lecture-notes/internal/logger"
	"github.com/nguyentantai21042004/lecture-notes/internal/media"
	"github.com/nguyentantai21042004/lecture-notes/internal/notes"
	"github.com/nguyentantai21042004/lecture-notes/internal/notify"
	"github.com/nguyentantai21042004/lecture-notes/internal/render"
	"github.com/nguyentantai21042004/lecture-notes/internal/transcriber"
)

type fakeMedia struct {
	dir       string
	audioErr  error
	framesErr error
}

func (f *fakeMedia) ExtractAudio(_ context.Context, videoPath string) (media.AudioTrack, error) {
	path := filepath.Join(f.dir, baseName(videoPath)+".wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0644); err != nil {
		return media.AudioTrack{}, err
	}
	if f.audioErr != nil {
		return media.AudioTrack{Path: path}, f.audioErr
	}
	return media.AudioTrack{Path: path, SampleRate: media.SampleRate, Channels: media.Channels, Codec: media.Codec}, nil
}

func (f *fakeMedia) ExtractFrames(_ context.Context, videoPath string, interval time.Duration) (media.FrameSequence, error) {
	dir := filepath.Join(f.dir, baseName(videoPath)+"_frames")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return media.FrameSequence{}, err
	}
	frame := filepath.Join(dir, "frame_00001.png")
	if err := os.WriteFile(frame, []byte("png"), 0644); err != nil {
		return media.FrameSequence{}, err
	}
	return media.FrameSequence{Dir: dir, Frames: []string{frame}, Interval: interval}, f.framesErr
}

func (f *fakeMedia) ProbeDuration(context.Context, string) (time.Duration, error) {
	return 30 * time.Second, nil
}

type fakeOCR struct {
	text  string
	err   error
	panic bool
}

func (f *fakeOCR) ExtractVisualText(context.Context, media.FrameSequence) (string, error) {
	if f.panic {
		panic("ocr engine crashed")
	}
	return f.text, f.err
}

type fakeTranscriber struct {
	text  string
	err   error
	calls int
}

func (f *fakeTranscriber) Transcribe(context.Context, media.AudioTrack, string) (string, error) {
	f.calls++
	return f.text, f.err
}

type stubProvider struct {
	out string
	err error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Generate(context.Context, string) (string, error) { return s.out, s.err }

type upload struct {
	key         string
	contentType string
	existed     bool
}

type fakeStore struct {
	mu      sync.Mutex
	uploads []upload
	err     error
}

func (s *fakeStore) Upload(_ context.Context, key, localPath, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, statErr := os.Stat(localPath)
	s.uploads = append(s.uploads, upload{key: key, contentType: contentType, existed: statErr == nil})
	if s.err != nil {
		return "", s.err
	}
	return "https://lectures.s3.us-east-1.amazonaws.com/" + key, nil
}

func (s *fakeStore) URI(key string) string { return "s3://lectures/" + key }

func (s *fakeStore) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for _, u := range s.uploads {
		keys = append(keys, u.key)
	}
	return keys
}

type fakeNotifier struct {
	ready  []notify.Delivery
	failed []string
}

func (n *fakeNotifier) NotesReady(_ context.Context, d notify.Delivery) error {
	n.ready = append(n.ready, d)
	return errors.New("smtp down")
}

func (n *fakeNotifier) Failed(_ context.Context, name string, _ error) error {
	n.failed = append(n.failed, name)
	return nil
}

const generatedNotes = "# Summary\nNewton's laws of motion.\n\n# Detailed Notes\n- First law: inertia\n- Second law: F = ma"

type harness struct {
	tmp         string
	video       string
	media       *fakeMedia
	ocr         *fakeOCR
	transcriber *fakeTranscriber
	provider    *stubProvider
	store       *fakeStore
	notifier    *fakeNotifier
	opts        Options
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	tmp := t.TempDir()
	video := filepath.Join(tmp, "newton-laws.mp4")
	if err := os.WriteFile(video, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}
	return &harness{
		tmp:         tmp,
		video:       video,
		media:       &fakeMedia{dir: tmp},
		ocr:         &fakeOCR{text: "Newton's Laws"},
		transcriber: &fakeTranscriber{text: "Today we discuss Newton's three laws."},
		provider:    &stubProvider{out: generatedNotes},
		store:       &fakeStore{},
		notifier:    &fakeNotifier{},
		opts: Options{
			OutputDir:     filepath.Join(tmp, "out"),
			FrameInterval: 5 * time.Second,
			Timeout:       time.Minute,
		},
	}
}

func (h *harness) pipeline() Pipeline {
	log := logger.NewNop()
	return New(Dependencies{
		Media:       h.media,
		OCR:         h.ocr,
		Transcriber: h.transcriber,
		Notes:       notes.NewChain([]notes.Provider{h.provider}, 0, log),
		Renderer:    render.New(render.Options{Layout: render.LayoutSections}, log),
		Store:       h.store,
		Notifier:    h.notifier,
	}, h.opts, log)
}

func (h *harness) leftovers(t *testing.T) []string {
	t.Helper()
	var found []string
	_ = filepath.Walk(h.tmp, func(path string, info os.FileInfo, err error) error {
		if err == nil && path != h.tmp && !(info.IsDir() && path == h.opts.OutputDir) {
			found = append(found, path)
		}
		return nil
	})
	return found
}

func TestRunSuccess(t *testing.T) {
	h := newHarness(t)

	res := h.pipeline().Run(context.Background(), Job{VideoPath: h.video, Email: "student@example.com"})

	if !res.Success {
		t.Fatalf("Run() failed: %v", res.Err)
	}
	if res.Stage != StageDone {
		t.Errorf("Stage = %s, want %s", res.Stage, StageDone)
	}
	if !strings.HasPrefix(res.ArtifactURL, "https://") || !strings.HasSuffix(res.ArtifactURL, ".pdf") {
		t.Errorf("ArtifactURL = %q, want https URL ending in .pdf", res.ArtifactURL)
	}
	var headings []string
	for _, l := range render.Parse(res.Notes) {
		if l.Kind == render.KindHeading {
			headings = append(headings, l.Text)
		}
	}
	if !containsAny(headings, "Summary", "Detailed Notes") {
		t.Errorf("notes headings = %v, want Summary or Notes", headings)
	}
	if res.Provider != "stub" || res.Placeholder {
		t.Errorf("Provider = %q Placeholder = %v", res.Provider, res.Placeholder)
	}
	if res.ErrorMessage != "" || res.Err != nil {
		t.Errorf("unexpected error: %q %v", res.ErrorMessage, res.Err)
	}

	if keys := h.store.keys(); len(keys) != 1 || keys[0] != "notes/newton-laws.pdf" {
		t.Errorf("uploads = %v", keys)
	}
	if !h.store.uploads[0].existed || h.store.uploads[0].contentType != "application/pdf" {
		t.Errorf("upload = %+v", h.store.uploads[0])
	}

	if len(h.notifier.ready) != 1 || h.notifier.ready[0].Recipient != "student@example.com" {
		t.Errorf("notifications = %+v", h.notifier.ready)
	}
	if h.notifier.ready[0].Title != "Newton Laws" {
		t.Errorf("Title = %q", h.notifier.ready[0].Title)
	}

	if left := h.leftovers(t); len(left) != 0 {
		t.Errorf("local artifacts not cleaned up: %v", left)
	}
	for _, stage := range []Stage{StageAudioExtracted, StageFramesExtracted, StageOCRDone, StageTranscribed, StageNotesGenerated, StageRendered, StageUploaded, StageDone} {
		if _, ok := res.Timings[stage]; !ok {
			t.Errorf("missing timing for %s", stage)
		}
	}
}

func containsAny(list []string, wants ...string) bool {
	for _, v := range list {
		for _, w := range wants {
			if v == w {
				return true
			}
		}
	}
	return false
}

func TestRunTranscriptionFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
	}{
		{name: "job failed", err: transcriber.ErrJobFailed, kind: KindTranscription},
		{name: "timed out", err: transcriber.ErrTimedOut, kind: KindTimedOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.transcriber.err = tt.err

			res := h.pipeline().Run(context.Background(), Job{VideoPath: h.video})

			if res.Success {
				t.Fatal("Run() succeeded, want failure")
			}
			if res.Stage != StageFailed {
				t.Errorf("Stage = %s", res.Stage)
			}
			if res.ErrorMessage != UserMessage {
				t.Errorf("ErrorMessage = %q", res.ErrorMessage)
			}
			if got := KindOf(res.Err); got != tt.kind {
				t.Errorf("kind = %s, want %s", got, tt.kind)
			}
			if !errors.Is(res.Err, tt.err) {
				t.Errorf("Err = %v, want wrapping %v", res.Err, tt.err)
			}
			if res.ArtifactURL != "" {
				t.Errorf("ArtifactURL = %q, want empty", res.ArtifactURL)
			}
			if keys := h.store.keys(); len(keys) != 0 {
				t.Errorf("uploaded %v after failure", keys)
			}
			if left := h.leftovers(t); len(left) != 0 {
				t.Errorf("local artifacts not cleaned up: %v", left)
			}
			if len(h.notifier.failed) != 1 || h.notifier.failed[0] != "newton-laws" {
				t.Errorf("failure notifications = %v", h.notifier.failed)
			}
		})
	}
}

func TestRunMediaFailureStopsEarly(t *testing.T) {
	h := newHarness(t)
	h.media.audioErr = media.ErrExtraction

	res := h.pipeline().Run(context.Background(), Job{VideoPath: h.video})

	if KindOf(res.Err) != KindMediaExtraction {
		t.Errorf("kind = %s", KindOf(res.Err))
	}
	var se *StageError
	if !errors.As(res.Err, &se) || se.Stage != StageAudioExtracted {
		t.Errorf("StageError = %+v", se)
	}
	if h.transcriber.calls != 0 {
		t.Error("transcriber ran after media failure")
	}
	if left := h.leftovers(t); len(left) != 0 {
		t.Errorf("partial artifacts not cleaned up: %v", left)
	}
}

func TestRunFramesFailure(t *testing.T) {
	h := newHarness(t)
	h.media.framesErr = media.ErrExtraction

	res := h.pipeline().Run(context.Background(), Job{VideoPath: h.video})

	if KindOf(res.Err) != KindMediaExtraction {
		t.Errorf("kind = %s", KindOf(res.Err))
	}
	if left := h.leftovers(t); len(left) != 0 {
		t.Errorf("frames dir not cleaned up: %v", left)
	}
}

func TestRunDegradedInputs(t *testing.T) {
	h := newHarness(t)
	h.ocr.err = errors.New("frames dir missing")
	h.transcriber.text = ""

	res := h.pipeline().Run(context.Background(), Job{VideoPath: h.video})
	if !res.Success {
		t.Fatalf("Run() failed on degraded inputs: %v", res.Err)
	}
}

func TestRunAllProvidersFailStillDelivers(t *testing.T) {
	h := newHarness(t)
	h.provider.err = errors.New("quota exceeded")

	res := h.pipeline().Run(context.Background(), Job{VideoPath: h.video})

	if !res.Success {
		t.Fatalf("Run() failed: %v", res.Err)
	}
	if !res.Placeholder || res.Provider != "" {
		t.Errorf("Placeholder = %v Provider = %q", res.Placeholder, res.Provider)
	}
	if strings.TrimSpace(res.Notes) == "" {
		t.Error("placeholder notes are empty")
	}
}

func TestRunUploadFailure(t *testing.T) {
	h := newHarness(t)
	h.store.err = errors.New("access denied")

	res := h.pipeline().Run(context.Background(), Job{VideoPath: h.video})

	if KindOf(res.Err) != KindUpload {
		t.Errorf("kind = %s", KindOf(res.Err))
	}
	if left := h.leftovers(t); len(left) != 0 {
		t.Errorf("rendered files not cleaned up: %v", left)
	}
}

func TestRunRecoversPanic(t *testing.T) {
	h := newHarness(t)
	h.ocr.panic = true

	res := h.pipeline().Run(context.Background(), Job{VideoPath: h.video})

	if res.Success || res.ErrorMessage != UserMessage {
		t.Fatalf("Run() = %+v", res)
	}
	if KindOf(res.Err) != KindPanic {
		t.Errorf("kind = %s", KindOf(res.Err))
	}
	if left := h.leftovers(t); len(left) != 0 {
		t.Errorf("artifacts not cleaned up after panic: %v", left)
	}
}

func TestRunRetainsArtifactsAndSource(t *testing.T) {
	h := newHarness(t)
	h.opts.RetainLocalArtifacts = true

	res := h.pipeline().Run(context.Background(), Job{VideoPath: h.video, KeepSource: true, Name: "custom"})

	if !res.Success {
		t.Fatalf("Run() failed: %v", res.Err)
	}
	if res.PDFPath != filepath.Join(h.opts.OutputDir, "custom.pdf") {
		t.Errorf("PDFPath = %q", res.PDFPath)
	}
	if _, err := os.Stat(res.PDFPath); err != nil {
		t.Errorf("retained PDF missing: %v", err)
	}
	if _, err := os.Stat(h.video); err != nil {
		t.Errorf("source video removed despite KeepSource: %v", err)
	}
	if _, err := os.Stat(filepath.Join(h.tmp, "newton-laws.wav")); !os.IsNotExist(err) {
		t.Error("intermediate audio should still be removed")
	}
}

func TestRunUploadsAudioWhenConfigured(t *testing.T) {
	h := newHarness(t)
	h.opts.UploadAudio = true

	res := h.pipeline().Run(context.Background(), Job{VideoPath: h.video})
	if !res.Success {
		t.Fatalf("Run() failed: %v", res.Err)
	}
	keys := h.store.keys()
	if len(keys) != 2 || keys[0] != "audio/newton-laws.wav" || keys[1] != "notes/newton-laws.pdf" {
		t.Errorf("uploads = %v", keys)
	}
}

func TestSemaphore(t *testing.T) {
	sem := newSemaphore(1)
	if err := sem.acquire(context.Background()); err != nil {
		t.Fatalf("acquire() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := sem.acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("acquire() on full semaphore = %v, want deadline exceeded", err)
	}

	if sem.tryAcquire() {
		t.Error("tryAcquire() on full semaphore should fail")
	}

	sem.release()
	if !sem.tryAcquire() {
		t.Error("tryAcquire() after release should succeed")
	}
	if got := newSemaphore(0).capacity(); got != 1 {
		t.Errorf("capacity of zero-sized semaphore = %d, want 1", got)
	}
}

func TestStageErrorFormatting(t *testing.T) {
	err := newStageError(StageRendered, KindRender, render.ErrRender)

	if got := err.Error(); got != "RenderError at RENDERED: render failed" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, render.ErrRender) {
		t.Error("StageError must unwrap to its cause")
	}
	if verbose := strings.TrimSpace(fmtVerbose(err)); !strings.Contains(verbose, "pipeline_test.go") && !strings.Contains(verbose, "errors.go") {
		t.Errorf("%%+v should include a stack trace, got %q", verbose)
	}
}

func fmtVerbose(err error) string {
	return fmt.Sprintf("%+v", err)
}
