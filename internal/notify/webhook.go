package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	userAgent             = "LectureNotes-Go/0.1.0"
	defaultWebhookTimeout = 10 * time.Second
)

type webhookMessage struct {
	Text string `json:"text"`
}

type webhookNotifier struct {
	endpoint string
	client   *http.Client
}

// NewWebhook posts {"text": ...} messages, the shape accepted by Slack and Google Chat incoming webhooks.
func NewWebhook(endpoint string, timeout time.Duration) Notifier {
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}
	return &webhookNotifier{
		endpoint: strings.TrimSpace(endpoint),
		client:   &http.Client{Timeout: timeout},
	}
}

func (w *webhookNotifier) NotesReady(ctx context.Context, d Delivery) error {
	name := d.Title
	if name == "" {
		name = d.Name
	}
	msg := fmt.Sprintf("Notes ready: %s\n%s", name, d.PDFURL)
	if d.Placeholder {
		msg += "\n(placeholder notes: no provider produced usable output)"
	} else if d.Provider != "" {
		msg += "\nprovider: " + d.Provider
	}
	return w.send(ctx, msg)
}

func (w *webhookNotifier) Failed(ctx context.Context, name string, err error) error {
	msg := fmt.Sprintf("Notes failed: %s", strings.TrimSpace(name))
	if err != nil {
		msg += "\n" + err.Error()
	}
	return w.send(ctx, msg)
}

func (w *webhookNotifier) send(ctx context.Context, text string) error {
	encoded, err := json.Marshal(webhookMessage{Text: text})
	if err != nil {
		return fmt.Errorf("encode webhook message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
