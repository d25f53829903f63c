package pipeline

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"github.com/nguyentantai21042004/lecture-notes/internal/transcriber"
)

// Kind classifies a fatal pipeline error.
type Kind string

const (
	KindMediaExtraction Kind = "MediaExtractionError"
	KindTranscription   Kind = "TranscriptionError"
	KindTimedOut        Kind = "TimedOut"
	KindNotesGeneration Kind = "NotesGenerationError"
	KindRender          Kind = "RenderError"
	KindUpload          Kind = "UploadError"
	KindCanceled        Kind = "Canceled"
	KindPanic           Kind = "Panic"
)

// StageError is a fatal failure of one stage. Err carries a stack trace (print with %+v).
type StageError struct {
	Stage Stage
	Kind  Kind
	Err   error
}

func newStageError(stage Stage, kind Kind, err error) *StageError {
	return &StageError{Stage: stage, Kind: kind, Err: pkgerrors.WithStack(err)}
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s at %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Format prints the stack trace of the cause with %+v.
func (e *StageError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s at %s: %+v", e.Kind, e.Stage, e.Err)
		return
	}
	fmt.Fprint(s, e.Error())
}

// transcriptionKind separates timeouts from other transcription failures.
func transcriptionKind(err error) Kind {
	if errors.Is(err, transcriber.ErrTimedOut) {
		return KindTimedOut
	}
	return KindTranscription
}

// KindOf returns the kind of a pipeline error, or "" when err is not a StageError.
func KindOf(err error) Kind {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
