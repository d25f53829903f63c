package transcriber

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/lecture-notes/internal/media"
)

var (
	// ErrSubmit means the job could not be handed to the transcription service.
	ErrSubmit = errors.New("transcription submit failed")
	// ErrJobFailed means the service reported the job as FAILED.
	ErrJobFailed = errors.New("transcription job failed")
	// ErrTimedOut means the job did not finish within the poll budget or deadline.
	ErrTimedOut = errors.New("transcription timed out")
)

// Transcriber converts an audio track into transcript text. An empty transcript is valid.
type Transcriber interface {
	Transcribe(ctx context.Context, audio media.AudioTrack, languageCode string) (string, error)
}

// Stager is implemented by backends that must store the audio before a job can run.
// Runs sharing the returned context share one stored copy.
type Stager interface {
	Stage(ctx context.Context, audio media.AudioTrack) (context.Context, error)
}

// JobState is the lifecycle of one remote transcription job.
type JobState string

const (
	StateSubmitted  JobState = "SUBMITTED"
	StateInProgress JobState = "IN_PROGRESS"
	StateCompleted  JobState = "COMPLETED"
	StateFailed     JobState = "FAILED"
	StateTimedOut   JobState = "TIMED_OUT"
)

// Terminal reports whether no further polling is needed.
func (s JobState) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateTimedOut
}
