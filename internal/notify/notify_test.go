package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
)

type fakeSES struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, in)
	return &sesv2.SendEmailOutput{}, f.err
}

func TestEmailNotesReady(t *testing.T) {
	ses := &fakeSES{}
	n := NewEmail(ses, "notes@example.com")

	err := n.NotesReady(context.Background(), Delivery{
		Name:      "lecture-1",
		Title:     "Lecture 1",
		PDFURL:    "https://bucket/notes/lecture-1.pdf",
		Recipient: "student@example.com",
	})
	if err != nil {
		t.Fatalf("NotesReady() error = %v", err)
	}
	if len(ses.inputs) != 1 {
		t.Fatalf("sent %d emails, want 1", len(ses.inputs))
	}

	in := ses.inputs[0]
	if aws.ToString(in.FromEmailAddress) != "notes@example.com" {
		t.Errorf("From = %q", aws.ToString(in.FromEmailAddress))
	}
	if got := in.Destination.ToAddresses; len(got) != 1 || got[0] != "student@example.com" {
		t.Errorf("To = %v", got)
	}
	body := aws.ToString(in.Content.Simple.Body.Text.Data)
	if !strings.Contains(body, "https://bucket/notes/lecture-1.pdf") {
		t.Errorf("body missing link: %q", body)
	}
	if subject := aws.ToString(in.Content.Simple.Subject.Data); !strings.Contains(subject, "Lecture 1") {
		t.Errorf("subject = %q", subject)
	}
}

func TestEmailSkipsWithoutRecipient(t *testing.T) {
	ses := &fakeSES{}
	if err := NewEmail(ses, "notes@example.com").NotesReady(context.Background(), Delivery{PDFURL: "u"}); err != nil {
		t.Fatalf("NotesReady() error = %v", err)
	}
	if len(ses.inputs) != 0 {
		t.Errorf("sent %d emails without recipient", len(ses.inputs))
	}
}

func TestEmailError(t *testing.T) {
	ses := &fakeSES{err: errors.New("throttled")}
	err := NewEmail(ses, "a@b.c").NotesReady(context.Background(), Delivery{Recipient: "x@y.z"})
	if err == nil || !strings.Contains(err.Error(), "throttled") {
		t.Errorf("NotesReady() error = %v", err)
	}
}

func TestWebhook(t *testing.T) {
	var got []webhookMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Errorf("Content-Type = %q", ct)
		}
		var msg webhookMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			t.Errorf("decode: %v", err)
		}
		got = append(got, msg)
	}))
	defer srv.Close()

	n := NewWebhook(srv.URL, 0)
	if err := n.NotesReady(context.Background(), Delivery{Name: "lec", PDFURL: "https://x/notes/lec.pdf", Provider: "gemini"}); err != nil {
		t.Fatalf("NotesReady() error = %v", err)
	}
	if err := n.Failed(context.Background(), "lec", errors.New("transcription timed out")); err != nil {
		t.Fatalf("Failed() error = %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("received %d messages, want 2", len(got))
	}
	if !strings.Contains(got[0].Text, "lec.pdf") || !strings.Contains(got[0].Text, "gemini") {
		t.Errorf("ready message = %q", got[0].Text)
	}
	if !strings.Contains(got[1].Text, "Notes failed: lec") || !strings.Contains(got[1].Text, "timed out") {
		t.Errorf("failed message = %q", got[1].Text)
	}
}

func TestWebhookHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL, 0).Failed(context.Background(), "lec", nil)
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Errorf("Failed() error = %v, want 403", err)
	}
}

type recordingNotifier struct {
	ready  int
	failed int
	err    error
}

func (r *recordingNotifier) NotesReady(context.Context, Delivery) error {
	r.ready++
	return r.err
}

func (r *recordingNotifier) Failed(context.Context, string, error) error {
	r.failed++
	return r.err
}

func TestMultiNotifiesAll(t *testing.T) {
	a := &recordingNotifier{err: errors.New("a down")}
	b := &recordingNotifier{}

	err := Multi{a, b}.NotesReady(context.Background(), Delivery{})
	if err == nil || !strings.Contains(err.Error(), "a down") {
		t.Errorf("NotesReady() error = %v", err)
	}
	if a.ready != 1 || b.ready != 1 {
		t.Errorf("ready counts = %d, %d", a.ready, b.ready)
	}

	if err := (Multi{b}).Failed(context.Background(), "x", nil); err != nil {
		t.Errorf("Failed() error = %v", err)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		cfg  Config
		ses  SESAPI
		want string
	}{
		{cfg: Config{}, want: "notify.Noop"},
		{cfg: Config{EmailFrom: "a@b.c"}, want: "notify.Noop"},
		{cfg: Config{EmailFrom: "a@b.c"}, ses: &fakeSES{}, want: "*notify.emailNotifier"},
		{cfg: Config{WebhookURL: "https://hooks.example"}, want: "*notify.webhookNotifier"},
		{cfg: Config{EmailFrom: "a@b.c", WebhookURL: "https://hooks.example"}, ses: &fakeSES{}, want: "notify.Multi"},
	}
	for _, tt := range tests {
		if got := fmt.Sprintf("%T", New(tt.cfg, tt.ses)); got != tt.want {
			t.Errorf("New(%+v) = %s, want %s", tt.cfg, got, tt.want)
		}
	}
}
