package pipeline

import (
	"context"
	"time"
)

// Stage is a step of one pipeline run. Stages only move forward; Failed is absorbing.
type Stage string

const (
	StageReceived        Stage = "RECEIVED"
	StageAudioExtracted  Stage = "AUDIO_EXTRACTED"
	StageFramesExtracted Stage = "FRAMES_EXTRACTED"
	StageOCRDone         Stage = "OCR_DONE"
	StageTranscribed     Stage = "TRANSCRIBED"
	StageNotesGenerated  Stage = "NOTES_GENERATED"
	StageRendered        Stage = "RENDERED"
	StageUploaded        Stage = "UPLOADED"
	StageDone            Stage = "DONE"
	StageFailed          Stage = "FAILED"
)

// UserMessage is the only failure text shown to clients. Details stay in the logs.
const UserMessage = "Failed to process video"

// Job is one lecture video to turn into notes.
type Job struct {
	VideoPath string
	// Name is the base for artifact names and storage keys. Defaults to the video base name.
	Name string
	// Title heads the document. Defaults to a title-cased form of the video base name.
	Title string
	// Email receives the notes link when set.
	Email string
	// KeepSource leaves the video on disk after the run.
	KeepSource bool
}

// Result is the outcome of a run.
type Result struct {
	Success      bool
	ArtifactURL  string
	DOCXURL      string
	ErrorMessage string
	Provider     string
	Placeholder  bool
	// Stage is the last stage reached, or StageFailed.
	Stage    Stage
	Notes    string
	PDFPath  string
	Timings  map[Stage]time.Duration
	Duration time.Duration
	// Err carries the internal failure detail for logging. Never show it to clients.
	Err error
}

// Pipeline turns a lecture video into an uploaded notes document.
type Pipeline interface {
	Run(ctx context.Context, job Job) Result
}
