package notify

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Config selects the notification channels. Empty fields disable a channel.
type Config struct {
	EmailFrom      string
	WebhookURL     string
	RequestTimeout time.Duration
}

// New combines the configured channels. ses may be nil when email is not used.
func New(cfg Config, ses SESAPI) Notifier {
	var list []Notifier
	if strings.TrimSpace(cfg.EmailFrom) != "" && ses != nil {
		list = append(list, NewEmail(ses, cfg.EmailFrom))
	}
	if strings.TrimSpace(cfg.WebhookURL) != "" {
		list = append(list, NewWebhook(cfg.WebhookURL, cfg.RequestTimeout))
	}

	switch len(list) {
	case 0:
		return Noop{}
	case 1:
		return list[0]
	}
	return Multi(list)
}

// Multi notifies every channel and joins their errors.
type Multi []Notifier

func (m Multi) NotesReady(ctx context.Context, d Delivery) error {
	var errs []error
	for _, n := range m {
		if err := n.NotesReady(ctx, d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Failed(ctx context.Context, name string, err error) error {
	var errs []error
	for _, n := range m {
		if nerr := n.Failed(ctx, name, err); nerr != nil {
			errs = append(errs, nerr)
		}
	}
	return errors.Join(errs...)
}

// Noop discards notifications.
type Noop struct{}

func (Noop) NotesReady(context.Context, Delivery) error  { return nil }
func (Noop) Failed(context.Context, string, error) error { return nil }
