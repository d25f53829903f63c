// Package notify tells people that lecture notes are ready.
//
// Email goes to the requester through Amazon SES; a chat webhook receives a
// one-line message for every finished or failed run. Pipeline code depends only
// on the Notifier interface and treats every notification error as a warning.
package notify

import "context"

// Delivery describes a finished notes document.
type Delivery struct {
	Name        string
	Title       string
	PDFURL      string
	DOCXURL     string
	Recipient   string
	Provider    string
	Placeholder bool
}

// Notifier announces pipeline outcomes.
type Notifier interface {
	NotesReady(ctx context.Context, d Delivery) error
	Failed(ctx context.Context, name string, err error) error
}
