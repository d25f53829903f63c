package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/lecture-notes/internal/media"
	"github.com/nguyentantai21042004/lecture-notes/internal/notify"
	"github.com/nguyentantai21042004/lecture-notes/internal/render"
	"github.com/nguyentantai21042004/lecture-notes/internal/storage"
)

const notifyTimeout = 15 * time.Second

// run holds the state of one pipeline execution.
type run struct {
	job    Job
	name   string
	title  string
	scope  *resourceScope
	result Result
	stamp  time.Time
}

// Run executes every stage in order. Fatal errors stop the run; local artifacts
// are released on every exit path, including a panic inside a stage.
func (p *implPipeline) Run(ctx context.Context, job Job) (res Result) {
	start := p.now()
	r := &run{
		job:    job,
		name:   jobName(job),
		title:  jobTitle(job, p.opts.DefaultTitle),
		scope:  newResourceScope(p.logger),
		result: Result{Stage: StageReceived, Timings: make(map[Stage]time.Duration)},
		stamp:  start,
	}
	if !job.KeepSource {
		r.scope.trackFile(job.VideoPath)
	}

	defer func() {
		if rec := recover(); rec != nil {
			p.fail(ctx, r, newStageError(r.result.Stage, KindPanic, fmt.Errorf("panic: %v", rec)))
			res = r.result
		}
		r.scope.release(ctx)
		res.Duration = p.now().Sub(start)
	}()

	if !p.sem.tryAcquire() {
		p.logger.Info(ctx, "All %d processing slots busy, queueing %s", p.sem.capacity(), r.name)
		if err := p.sem.acquire(ctx); err != nil {
			p.fail(ctx, r, newStageError(StageReceived, KindCanceled, err))
			return r.result
		}
	}
	defer p.sem.release()

	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting lecture processing: %s (%s)", job.VideoPath, r.name)
	p.logger.Info(ctx, "========================================")

	if err := p.execute(ctx, r); err != nil {
		p.fail(ctx, r, err)
		return r.result
	}

	r.result.Success = true
	p.advance(r, StageDone)

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed: %s", r.result.ArtifactURL)
	p.logger.Info(ctx, "Provider: %s, placeholder: %v", providerLabel(r.result.Provider), r.result.Placeholder)
	p.logger.Info(ctx, "Processing time: %s", p.now().Sub(start).Round(time.Millisecond))
	p.logger.Info(ctx, "========================================")
	return r.result
}

func (p *implPipeline) execute(ctx context.Context, r *run) error {
	// Step 1: Extract audio
	audio, err := p.deps.Media.ExtractAudio(ctx, r.job.VideoPath)
	r.scope.trackFile(audio.Path)
	if err != nil {
		return newStageError(StageAudioExtracted, KindMediaExtraction, err)
	}
	p.advance(r, StageAudioExtracted)
	p.archiveAudio(ctx, r, audio)

	// Step 2: Sample frames
	frames, err := p.deps.Media.ExtractFrames(ctx, r.job.VideoPath, p.opts.FrameInterval)
	r.scope.trackDir(frames.Dir)
	if err != nil {
		return newStageError(StageFramesExtracted, KindMediaExtraction, err)
	}
	p.advance(r, StageFramesExtracted)

	// Step 3: OCR. Missing visual text degrades the notes, it does not stop them.
	visualText, err := p.deps.OCR.ExtractVisualText(ctx, frames)
	if err != nil {
		p.logger.Warn(ctx, "Visual text extraction failed, continuing without it: %v", err)
		visualText = ""
	}
	p.advance(r, StageOCRDone)

	// Step 4: Transcribe
	transcript, err := p.deps.Transcriber.Transcribe(ctx, audio, p.opts.Language)
	if err != nil {
		return newStageError(StageTranscribed, transcriptionKind(err), err)
	}
	if strings.TrimSpace(transcript) == "" {
		p.logger.Warn(ctx, "Transcript is empty, notes will rely on visual text")
	}
	p.advance(r, StageTranscribed)

	// Step 5: Generate notes
	doc := p.deps.Notes.GenerateNotes(ctx, transcript, visualText)
	if err := doc.Err(); err != nil {
		p.logger.Warn(ctx, "Continuing with placeholder notes: %v", err)
	}
	r.result.Notes = doc.Markdown
	r.result.Provider = doc.Provider
	r.result.Placeholder = doc.Placeholder
	p.advance(r, StageNotesGenerated)

	// Step 6: Render
	out, err := p.deps.Renderer.Render(ctx, render.Request{
		Title:      r.title,
		Markdown:   doc.Markdown,
		OutputPath: filepath.Join(p.opts.OutputDir, r.name+".pdf"),
	})
	if !p.opts.RetainLocalArtifacts {
		r.scope.trackFile(out.PDFPath)
		r.scope.trackFile(out.DOCXPath)
	}
	if err != nil {
		return newStageError(StageRendered, KindRender, err)
	}
	r.result.PDFPath = out.PDFPath
	p.advance(r, StageRendered)

	// Step 7: Upload
	url, err := p.deps.Store.Upload(ctx, storage.NotesKey(r.name, ".pdf"), out.PDFPath, "application/pdf")
	if err != nil {
		return newStageError(StageUploaded, KindUpload, err)
	}
	r.result.ArtifactURL = url
	if out.DOCXPath != "" {
		docxURL, err := p.deps.Store.Upload(ctx, storage.NotesKey(r.name, ".docx"), out.DOCXPath,
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document")
		if err != nil {
			p.logger.Warn(ctx, "DOCX upload failed: %v", err)
		} else {
			r.result.DOCXURL = docxURL
		}
	}
	p.advance(r, StageUploaded)

	// Step 8: Notify
	if err := p.deps.Notifier.NotesReady(ctx, notify.Delivery{
		Name:        r.name,
		Title:       r.title,
		PDFURL:      r.result.ArtifactURL,
		DOCXURL:     r.result.DOCXURL,
		Recipient:   r.job.Email,
		Provider:    r.result.Provider,
		Placeholder: r.result.Placeholder,
	}); err != nil {
		p.logger.Warn(ctx, "Notification failed: %v", err)
	}
	return nil
}

// archiveAudio keeps a copy of the audio in the object store when configured.
func (p *implPipeline) archiveAudio(ctx context.Context, r *run, audio media.AudioTrack) {
	if !p.opts.UploadAudio {
		return
	}
	if _, err := p.deps.Store.Upload(ctx, storage.AudioKey(r.name), audio.Path, "audio/wav"); err != nil {
		p.logger.Warn(ctx, "Audio upload failed: %v", err)
	}
}

func (p *implPipeline) advance(r *run, stage Stage) {
	now := p.now()
	r.result.Timings[stage] = now.Sub(r.stamp)
	r.result.Stage = stage
	r.stamp = now
}

func (p *implPipeline) fail(ctx context.Context, r *run, err error) {
	var se *StageError
	if !errors.As(err, &se) {
		se = newStageError(r.result.Stage, KindPanic, err)
	}

	r.result.Success = false
	r.result.ArtifactURL = ""
	r.result.ErrorMessage = UserMessage
	r.result.Err = se
	r.result.Stage = StageFailed

	p.logger.Error(ctx, "Processing failed for %s: %+v", r.name, se)

	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if nerr := p.deps.Notifier.Failed(nctx, r.name, fmt.Errorf("%s at %s", se.Kind, se.Stage)); nerr != nil {
		p.logger.Warn(ctx, "Failure notification failed: %v", nerr)
	}
}

func jobName(job Job) string {
	if job.Name != "" {
		return job.Name
	}
	return baseName(job.VideoPath)
}

func jobTitle(job Job, fallback string) string {
	if job.Title != "" {
		return job.Title
	}
	if title := render.TitleFromName(baseName(job.VideoPath)); title != "" {
		return title
	}
	return fallback
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func providerLabel(p string) string {
	if p == "" {
		return "none"
	}
	return p
}
