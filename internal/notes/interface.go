package notes

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrAllProvidersFailed is reported by Document.Err when every provider in the chain failed.
	ErrAllProvidersFailed = errors.New("all notes providers failed")
	// ErrEmptyResponse means a provider answered without any extractable text.
	ErrEmptyResponse = errors.New("empty response")
)

// Provider is one language-model backend. Each adapter maps its own response schema to plain text.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Generator turns extracted lecture text into a notes document. It never fails: the
// worst outcome is a placeholder document.
type Generator interface {
	GenerateNotes(ctx context.Context, transcript, visualText string) Document
}

// Attempt records one provider call.
type Attempt struct {
	Provider string
	Err      error
	Duration time.Duration
}

// Document is the markdown produced for a lecture.
type Document struct {
	Markdown    string
	Provider    string
	Placeholder bool
	Attempts    []Attempt
}

// Err summarizes a fully failed chain for logging. It is nil when any provider answered.
func (d Document) Err() error {
	if d.Provider != "" || len(d.Attempts) == 0 {
		return nil
	}
	errs := []error{ErrAllProvidersFailed}
	for _, a := range d.Attempts {
		if a.Err != nil {
			errs = append(errs, errors.New(a.Provider+": "+a.Err.Error()))
		}
	}
	return errors.Join(errs...)
}
