package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Paths      PathsConfig      `yaml:"paths"`
	FFmpeg     FFmpegConfig     `yaml:"ffmpeg"`
	Frames     FramesConfig     `yaml:"frames"`
	OCR        OCRConfig        `yaml:"ocr"`
	Transcribe TranscribeConfig `yaml:"transcribe"`
	LLM        LLMConfig        `yaml:"llm"`
	Render     RenderConfig     `yaml:"render"`
	Storage    StorageConfig    `yaml:"storage"`
	Notify     NotifyConfig     `yaml:"notify"`
	Logging    LoggingConfig    `yaml:"logging"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
}

type ServerConfig struct {
	Port              string   `yaml:"port"`
	MaxUploadMB       int64    `yaml:"max_upload_mb"`
	RequestsPerMinute int      `yaml:"requests_per_minute"`
	AllowedOrigins    []string `yaml:"allowed_origins"`
}

type PathsConfig struct {
	Uploads    string `yaml:"uploads"`
	Input      string `yaml:"input"`
	Processing string `yaml:"processing"`
	Output     string `yaml:"output"`
	Temp       string `yaml:"temp"`
}

type FFmpegConfig struct {
	BinaryPath  string `yaml:"binary_path"`
	ProbeBinary string `yaml:"probe_binary"`
}

type FramesConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

type OCRConfig struct {
	Engine     string `yaml:"engine"` // tesseract or textract
	BinaryPath string `yaml:"binary_path"`
	Language   string `yaml:"language"`
}

type TranscribeConfig struct {
	Backend       string        `yaml:"backend"` // aws or whisper
	Languages     []string      `yaml:"languages"`
	Transliterate bool          `yaml:"transliterate"`
	Poll          PollConfig    `yaml:"poll"`
	Whisper       WhisperConfig `yaml:"whisper"`
}

type PollConfig struct {
	Interval    time.Duration `yaml:"interval"`
	MaxInterval time.Duration `yaml:"max_interval"`
	MaxAttempts int           `yaml:"max_attempts"`
}

type WhisperConfig struct {
	ModelPath  string `yaml:"model_path"`
	BinaryPath string `yaml:"binary_path"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads"`
}

type LLMConfig struct {
	Order    []string      `yaml:"order"`
	Gemini   GeminiConfig  `yaml:"gemini"`
	OpenAI   ChatConfig    `yaml:"openai"`
	DeepSeek ChatConfig    `yaml:"deepseek"`
	Timeout  time.Duration `yaml:"timeout"`
}

type GeminiConfig struct {
	Model   string   `yaml:"model"`
	APIKeys []string `yaml:"api_keys"`
}

type ChatConfig struct {
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

type RenderConfig struct {
	Layout string `yaml:"layout"` // flat or sections
	Title  string `yaml:"title"`
	Footer string `yaml:"footer"`
	DOCX   bool   `yaml:"docx"`

	// CreatedAt pins the document date (RFC 3339 or unix seconds) so repeat runs give identical files.
	CreatedAt string `yaml:"created_at"`
}

// DocumentTime parses CreatedAt. ok is false when no date is pinned.
func (r RenderConfig) DocumentTime() (t time.Time, ok bool, err error) {
	value := strings.TrimSpace(r.CreatedAt)
	if value == "" {
		return time.Time{}, false, nil
	}
	if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), true, nil
	}
	t, err = time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("render.created_at: %w", err)
	}
	return t, true, nil
}

type StorageConfig struct {
	Region        string `yaml:"region"`
	Bucket        string `yaml:"bucket"`
	Endpoint      string `yaml:"endpoint"`
	PublicBaseURL string `yaml:"public_base_url"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	UploadAudio   bool   `yaml:"upload_audio"`
}

type NotifyConfig struct {
	EmailFrom      string        `yaml:"email_from"`
	WebhookURL     string        `yaml:"webhook_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type PipelineConfig struct {
	Timeout              time.Duration `yaml:"timeout"`
	MaxConcurrent        int           `yaml:"max_concurrent"`
	RetainLocalArtifacts bool          `yaml:"retain_local_artifacts"`
}

// Validate fills defaults and rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required")
	}
	if c.Storage.Region == "" {
		return fmt.Errorf("storage.region is required")
	}
	if len(c.LLM.Order) == 0 {
		c.LLM.Order = []string{"gemini", "openai", "deepseek"}
	}
	for i, name := range c.LLM.Order {
		name = strings.ToLower(strings.TrimSpace(name))
		switch name {
		case "gemini", "openai", "deepseek":
		default:
			return fmt.Errorf("llm.order: unknown provider %q", name)
		}
		c.LLM.Order[i] = name
	}
	if len(c.Transcribe.Languages) > 2 {
		return fmt.Errorf("transcribe.languages: at most 2 languages are supported")
	}
	if c.Transcribe.Transliterate && len(c.Transcribe.Languages) < 2 {
		return fmt.Errorf("transcribe.transliterate requires two transcribe.languages")
	}

	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 500
	}
	if c.Server.RequestsPerMinute == 0 {
		c.Server.RequestsPerMinute = 30
	}
	if c.Paths.Uploads == "" {
		c.Paths.Uploads = "data/uploads"
	}
	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Processing == "" {
		c.Paths.Processing = "data/processing"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.ProbeBinary == "" {
		c.FFmpeg.ProbeBinary = "ffprobe"
	}
	if c.Frames.IntervalSeconds <= 0 {
		c.Frames.IntervalSeconds = 5
	}
	if c.OCR.Engine == "" {
		c.OCR.Engine = "tesseract"
	}
	if c.OCR.BinaryPath == "" {
		c.OCR.BinaryPath = "tesseract"
	}
	if c.OCR.Language == "" {
		c.OCR.Language = "eng"
	}
	if c.Transcribe.Backend == "" {
		c.Transcribe.Backend = "aws"
	}
	if len(c.Transcribe.Languages) == 0 {
		c.Transcribe.Languages = []string{"en-US"}
	}
	if c.Transcribe.Poll.Interval == 0 {
		c.Transcribe.Poll.Interval = 4 * time.Second
	}
	if c.Transcribe.Poll.MaxInterval == 0 {
		c.Transcribe.Poll.MaxInterval = 30 * time.Second
	}
	if c.Transcribe.Poll.MaxAttempts == 0 {
		c.Transcribe.Poll.MaxAttempts = 150
	}
	if c.Transcribe.Whisper.Threads == 0 {
		c.Transcribe.Whisper.Threads = 8
	}
	if c.LLM.Gemini.Model == "" {
		c.LLM.Gemini.Model = "gemini-2.5-flash"
	}
	if c.LLM.OpenAI.Model == "" {
		c.LLM.OpenAI.Model = "gpt-4o-mini"
	}
	if c.LLM.DeepSeek.Model == "" {
		c.LLM.DeepSeek.Model = "deepseek-chat"
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 2 * time.Minute
	}
	if c.Render.Layout == "" {
		c.Render.Layout = "flat"
	}
	if c.Render.Title == "" {
		c.Render.Title = "Lecture Notes"
	}
	if c.Render.Footer == "" {
		c.Render.Footer = "Generated by Lecture Notes"
	}
	if c.Notify.RequestTimeout == 0 {
		c.Notify.RequestTimeout = 10 * time.Second
	}
	if c.Pipeline.Timeout == 0 {
		c.Pipeline.Timeout = 90 * time.Minute
	}
	if c.Pipeline.MaxConcurrent == 0 {
		c.Pipeline.MaxConcurrent = 2
	}

	switch c.OCR.Engine {
	case "tesseract", "textract":
	default:
		return fmt.Errorf("ocr.engine: unsupported value %q", c.OCR.Engine)
	}
	switch c.Transcribe.Backend {
	case "aws", "whisper":
	default:
		return fmt.Errorf("transcribe.backend: unsupported value %q", c.Transcribe.Backend)
	}
	if c.Transcribe.Backend == "whisper" {
		if c.Transcribe.Whisper.ModelPath == "" {
			return fmt.Errorf("transcribe.whisper.model_path is required")
		}
		if c.Transcribe.Whisper.BinaryPath == "" {
			return fmt.Errorf("transcribe.whisper.binary_path is required")
		}
	}
	switch c.Render.Layout {
	case "flat", "sections":
	default:
		return fmt.Errorf("render.layout: unsupported value %q", c.Render.Layout)
	}
	if _, _, err := c.Render.DocumentTime(); err != nil {
		return err
	}

	return nil
}
