package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"

	"github.com/nguyentantai21042004/lecture-notes/internal/config"
	"github.com/nguyentantai21042004/lecture-notes/internal/logger"
	"github.com/nguyentantai21042004/lecture-notes/internal/media"
	"github.com/nguyentantai21042004/lecture-notes/internal/notes"
	"github.com/nguyentantai21042004/lecture-notes/internal/notify"
	"github.com/nguyentantai21042004/lecture-notes/internal/ocr"
	"github.com/nguyentantai21042004/lecture-notes/internal/pipeline"
	"github.com/nguyentantai21042004/lecture-notes/internal/render"
	"github.com/nguyentantai21042004/lecture-notes/internal/storage"
	"github.com/nguyentantai21042004/lecture-notes/internal/transcriber"
	"github.com/nguyentantai21042004/lecture-notes/pkg/executor"
)

// buildPipeline wires every stage from cfg. AWS clients share one resolved config.
func buildPipeline(ctx context.Context, cfg *config.Config, log logger.Logger) (pipeline.Pipeline, error) {
	s3cfg := storage.S3Config{
		Region:        cfg.Storage.Region,
		Bucket:        cfg.Storage.Bucket,
		Endpoint:      cfg.Storage.Endpoint,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
	}
	awsCfg, err := storage.LoadAWSConfig(ctx, s3cfg)
	if err != nil {
		return nil, err
	}
	store := storage.NewS3Store(awsCfg, s3cfg)

	exec := executor.New()

	extractor := media.New(media.Config{
		FFmpegBinary:  cfg.FFmpeg.BinaryPath,
		FFprobeBinary: cfg.FFmpeg.ProbeBinary,
		TempDir:       cfg.Paths.Temp,
	}, exec, log)

	var engine ocr.Engine
	switch cfg.OCR.Engine {
	case "textract":
		engine = ocr.NewTextractFromConfig(awsCfg)
	default:
		engine = ocr.NewTesseract(cfg.OCR.BinaryPath, cfg.OCR.Language, exec)
	}

	chain, err := notes.New(notes.Config{
		Order: cfg.LLM.Order,
		Gemini: notes.GeminiConfig{
			Model:   cfg.LLM.Gemini.Model,
			APIKeys: cfg.LLM.Gemini.APIKeys,
		},
		OpenAI: notes.ChatConfig{
			Model:   cfg.LLM.OpenAI.Model,
			APIKey:  cfg.LLM.OpenAI.APIKey,
			BaseURL: cfg.LLM.OpenAI.BaseURL,
		},
		DeepSeek: notes.ChatConfig{
			Model:   cfg.LLM.DeepSeek.Model,
			APIKey:  cfg.LLM.DeepSeek.APIKey,
			BaseURL: cfg.LLM.DeepSeek.BaseURL,
		},
		Timeout: cfg.LLM.Timeout,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("notes providers: %w", err)
	}

	deps := transcriber.Dependencies{
		Store:     store,
		Executor:  exec,
		Generator: chain,
	}
	if cfg.Transcribe.Backend == transcriber.BackendAWS {
		deps.API = transcribe.NewFromConfig(awsCfg)
	}
	tr, err := transcriber.New(transcriber.Config{
		Backend:       cfg.Transcribe.Backend,
		Languages:     cfg.Transcribe.Languages,
		Transliterate: cfg.Transcribe.Transliterate,
		Poll: transcriber.PollConfig{
			Interval:    cfg.Transcribe.Poll.Interval,
			MaxInterval: cfg.Transcribe.Poll.MaxInterval,
			MaxAttempts: cfg.Transcribe.Poll.MaxAttempts,
		},
		Whisper: transcriber.WhisperConfig{
			BinaryPath: cfg.Transcribe.Whisper.BinaryPath,
			ModelPath:  cfg.Transcribe.Whisper.ModelPath,
			Prompt:     cfg.Transcribe.Whisper.Prompt,
			Threads:    cfg.Transcribe.Whisper.Threads,
		},
	}, deps, log)
	if err != nil {
		return nil, fmt.Errorf("transcriber: %w", err)
	}

	renderOpts, err := renderOptions(cfg)
	if err != nil {
		return nil, err
	}
	renderer := render.New(renderOpts, log)

	var ses notify.SESAPI
	if cfg.Notify.EmailFrom != "" {
		ses = sesv2.NewFromConfig(awsCfg)
	}
	notifier := notify.New(notify.Config{
		EmailFrom:      cfg.Notify.EmailFrom,
		WebhookURL:     cfg.Notify.WebhookURL,
		RequestTimeout: cfg.Notify.RequestTimeout,
	}, ses)

	return pipeline.New(pipeline.Dependencies{
		Media:       extractor,
		OCR:         ocr.New(engine, log),
		Transcriber: tr,
		Notes:       chain,
		Renderer:    renderer,
		Store:       store,
		Notifier:    notifier,
	}, pipeline.Options{
		FrameInterval:        time.Duration(cfg.Frames.IntervalSeconds) * time.Second,
		Language:             cfg.Transcribe.Languages[0],
		OutputDir:            cfg.Paths.Output,
		Timeout:              cfg.Pipeline.Timeout,
		MaxConcurrent:        cfg.Pipeline.MaxConcurrent,
		RetainLocalArtifacts: cfg.Pipeline.RetainLocalArtifacts,
		// The AWS backend already stores the audio it transcribes.
		UploadAudio:  cfg.Storage.UploadAudio && cfg.Transcribe.Backend != transcriber.BackendAWS,
		DefaultTitle: cfg.Render.Title,
	}, log), nil
}

// renderOptions pins the document clock when render.created_at is set.
func renderOptions(cfg *config.Config) (render.Options, error) {
	opts := render.Options{
		Layout: cfg.Render.Layout,
		Footer: cfg.Render.Footer,
		DOCX:   cfg.Render.DOCX,
	}
	created, ok, err := cfg.Render.DocumentTime()
	if err != nil {
		return render.Options{}, err
	}
	if ok {
		opts.Clock = func() time.Time { return created }
	}
	return opts, nil
}
