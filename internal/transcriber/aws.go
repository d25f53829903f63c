package transcriber

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"
	"github.com/aws/aws-sdk-go-v2/service/transcribe/types"
	"github.com/google/uuid"

	"github.com/nguyentantai21042004/lecture-notes/internal/logger"
	"github.com/nguyentantai21042004/lecture-notes/internal/media"
	"github.com/nguyentantai21042004/lecture-notes/internal/storage"
)

const (
	defaultPollInterval    = 4 * time.Second
	defaultPollMaxInterval = 30 * time.Second
	defaultPollAttempts    = 150
	defaultFetchTimeout    = 30 * time.Second
)

// TranscribeAPI is the subset of the AWS Transcribe client used for job submission and polling.
type TranscribeAPI interface {
	StartTranscriptionJob(ctx context.Context, params *transcribe.StartTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.StartTranscriptionJobOutput, error)
	GetTranscriptionJob(ctx context.Context, params *transcribe.GetTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.GetTranscriptionJobOutput, error)
}

// PollConfig bounds the status polling loop.
type PollConfig struct {
	Interval    time.Duration
	MaxInterval time.Duration
	MaxAttempts int
}

// AWSTranscriber runs asynchronous AWS Transcribe jobs against audio uploaded to the object store.
type AWSTranscriber struct {
	api        TranscribeAPI
	store      storage.Store
	logger     logger.Logger
	httpClient *http.Client
	poll       PollConfig
	sleeper    func(ctx context.Context, d time.Duration) error
	jobName    func(base, language string) string
}

// Option customizes the AWS transcriber.
type Option func(*AWSTranscriber)

// WithHTTPClient overrides the client used to fetch finished transcripts.
func WithHTTPClient(client *http.Client) Option {
	return func(t *AWSTranscriber) {
		if client != nil {
			t.httpClient = client
		}
	}
}

// WithSleeper overrides how poll delays are waited (useful for tests).
func WithSleeper(sleeper func(ctx context.Context, d time.Duration) error) Option {
	return func(t *AWSTranscriber) {
		t.sleeper = sleeper
	}
}

// WithJobNamer overrides job name generation.
func WithJobNamer(namer func(base, language string) string) Option {
	return func(t *AWSTranscriber) {
		t.jobName = namer
	}
}

// NewAWS creates an AWS Transcribe backed Transcriber.
func NewAWS(api TranscribeAPI, store storage.Store, poll PollConfig, log logger.Logger, opts ...Option) *AWSTranscriber {
	if poll.Interval <= 0 {
		poll.Interval = defaultPollInterval
	}
	if poll.MaxInterval < poll.Interval {
		poll.MaxInterval = defaultPollMaxInterval
		if poll.MaxInterval < poll.Interval {
			poll.MaxInterval = poll.Interval
		}
	}
	if poll.MaxAttempts <= 0 {
		poll.MaxAttempts = defaultPollAttempts
	}

	t := &AWSTranscriber{
		api:        api,
		store:      store,
		logger:     log,
		httpClient: &http.Client{Timeout: defaultFetchTimeout},
		poll:       poll,
		sleeper:    sleepContext,
		jobName:    defaultJobName,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewAWSFromConfig builds the transcriber from a loaded AWS config.
func NewAWSFromConfig(cfg aws.Config, store storage.Store, poll PollConfig, log logger.Logger, opts ...Option) *AWSTranscriber {
	return NewAWS(transcribe.NewFromConfig(cfg), store, poll, log, opts...)
}

// Transcribe uploads the audio, submits a job, polls it to a terminal state and returns the text.
func (t *AWSTranscriber) Transcribe(ctx context.Context, audio media.AudioTrack, languageCode string) (string, error) {
	mediaURI, err := t.mediaURI(ctx, audio.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSubmit, err)
	}

	base := strings.TrimSuffix(filepath.Base(audio.Path), filepath.Ext(audio.Path))
	name := t.jobName(base, languageCode)

	if err := t.submit(ctx, name, mediaURI, languageCode, audio.SampleRate); err != nil {
		return "", err
	}
	t.logger.Info(ctx, "Transcription job %s %s (%s)", name, StateSubmitted, languageCode)

	transcriptURI, err := t.wait(ctx, name)
	if err != nil {
		return "", err
	}

	text, err := fetchTranscript(ctx, t.httpClient, transcriptURI)
	if err != nil {
		return "", fmt.Errorf("%w: fetch result: %v", ErrJobFailed, err)
	}

	t.logger.Info(ctx, "Transcription job %s returned %d characters", name, len(text))
	return text, nil
}

type stagedKey struct{}

type stagedAudio struct {
	path string
	uri  string
}

// Stage uploads the audio once. Transcribe calls made with the returned context
// reuse that upload instead of storing the file again.
func (t *AWSTranscriber) Stage(ctx context.Context, audio media.AudioTrack) (context.Context, error) {
	uri, err := t.upload(ctx, audio.Path)
	if err != nil {
		return ctx, fmt.Errorf("%w: %v", ErrSubmit, err)
	}
	return context.WithValue(ctx, stagedKey{}, stagedAudio{path: audio.Path, uri: uri}), nil
}

func (t *AWSTranscriber) mediaURI(ctx context.Context, path string) (string, error) {
	if staged, ok := ctx.Value(stagedKey{}).(stagedAudio); ok && staged.path == path {
		return staged.uri, nil
	}
	return t.upload(ctx, path)
}

func (t *AWSTranscriber) upload(ctx context.Context, path string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	key := storage.AudioKey(base)
	if _, err := t.store.Upload(ctx, key, path, "audio/wav"); err != nil {
		return "", err
	}
	return t.store.URI(key), nil
}

func (t *AWSTranscriber) submit(ctx context.Context, name, mediaURI, languageCode string, sampleRate int) error {
	input := &transcribe.StartTranscriptionJobInput{
		TranscriptionJobName: aws.String(name),
		LanguageCode:         types.LanguageCode(languageCode),
		MediaFormat:          types.MediaFormatWav,
		Media:                &types.Media{MediaFileUri: aws.String(mediaURI)},
	}
	if sampleRate > 0 {
		input.MediaSampleRateHertz = aws.Int32(int32(sampleRate))
	}

	if _, err := t.api.StartTranscriptionJob(ctx, input); err != nil {
		return fmt.Errorf("%w: start job %s: %v", ErrSubmit, name, err)
	}
	return nil
}

// wait polls the job with exponential backoff until it completes, fails, or the budget runs out.
func (t *AWSTranscriber) wait(ctx context.Context, name string) (string, error) {
	delay := t.poll.Interval
	state := StateSubmitted

	for attempt := 1; attempt <= t.poll.MaxAttempts; attempt++ {
		if err := t.sleeper(ctx, delay); err != nil {
			return "", t.interrupted(ctx, name, err)
		}

		out, err := t.api.GetTranscriptionJob(ctx, &transcribe.GetTranscriptionJobInput{
			TranscriptionJobName: aws.String(name),
		})
		if err != nil {
			if ctx.Err() != nil {
				return "", t.interrupted(ctx, name, ctx.Err())
			}
			t.logger.Warn(ctx, "Transcription job %s status check %d failed: %v", name, attempt, err)
		} else {
			next, uri, reason := jobStatus(out)
			if next != state {
				t.logger.Info(ctx, "Transcription job %s %s -> %s", name, state, next)
				state = next
			}

			switch state {
			case StateCompleted:
				if uri == "" {
					return "", fmt.Errorf("%w: job %s completed without transcript uri", ErrJobFailed, name)
				}
				return uri, nil
			case StateFailed:
				return "", fmt.Errorf("%w: job %s: %s", ErrJobFailed, name, reason)
			}
		}

		delay *= 2
		if delay > t.poll.MaxInterval {
			delay = t.poll.MaxInterval
		}
	}

	t.logger.Warn(ctx, "Transcription job %s %s after %d polls", name, StateTimedOut, t.poll.MaxAttempts)
	return "", fmt.Errorf("%w: job %s still %s after %d polls", ErrTimedOut, name, state, t.poll.MaxAttempts)
}

func (t *AWSTranscriber) interrupted(ctx context.Context, name string, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		t.logger.Warn(ctx, "Transcription job %s %s: deadline reached", name, StateTimedOut)
		return fmt.Errorf("%w: job %s: %v", ErrTimedOut, name, err)
	}
	return fmt.Errorf("transcription job %s: %w", name, err)
}

func jobStatus(out *transcribe.GetTranscriptionJobOutput) (JobState, string, string) {
	if out == nil || out.TranscriptionJob == nil {
		return StateInProgress, "", ""
	}
	job := out.TranscriptionJob

	switch job.TranscriptionJobStatus {
	case types.TranscriptionJobStatusCompleted:
		var uri string
		if job.Transcript != nil {
			uri = aws.ToString(job.Transcript.TranscriptFileUri)
		}
		return StateCompleted, uri, ""
	case types.TranscriptionJobStatusFailed:
		return StateFailed, "", aws.ToString(job.FailureReason)
	default:
		return StateInProgress, "", ""
	}
}

var jobNameUnsafe = regexp.MustCompile(`[^0-9A-Za-z._-]+`)

func defaultJobName(base, language string) string {
	base = jobNameUnsafe.ReplaceAllString(base, "-")
	if len(base) > 120 {
		base = base[:120]
	}
	return fmt.Sprintf("%s-%s-%s", base, language, uuid.NewString()[:8])
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
