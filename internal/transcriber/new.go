package transcriber

import (
	"fmt"

	"github.com/nguyentantai21042004/lecture-notes/internal/logger"
	"github.com/nguyentantai21042004/lecture-notes/internal/storage"
	"github.com/nguyentantai21042004/lecture-notes/pkg/executor"
)

const (
	BackendAWS     = "aws"
	BackendWhisper = "whisper"
)

// Config selects and configures a transcription backend.
type Config struct {
	Backend       string
	Languages     []string
	Transliterate bool
	Poll          PollConfig
	Whisper       WhisperConfig
}

// Dependencies are the collaborators a backend may need. Unused fields may be nil.
type Dependencies struct {
	API       TranscribeAPI
	Store     storage.Store
	Executor  executor.Executor
	Generator Generator
}

// New builds the configured Transcriber, wrapping it for multi-language mode when two languages are set.
func New(cfg Config, deps Dependencies, log logger.Logger) (Transcriber, error) {
	var base Transcriber
	switch cfg.Backend {
	case BackendAWS, "":
		if deps.API == nil || deps.Store == nil {
			return nil, fmt.Errorf("aws transcriber requires a transcribe client and object store")
		}
		base = NewAWS(deps.API, deps.Store, cfg.Poll, log)
	case BackendWhisper:
		if deps.Executor == nil {
			return nil, fmt.Errorf("whisper transcriber requires an executor")
		}
		base = NewWhisper(cfg.Whisper, deps.Executor, log)
	default:
		return nil, fmt.Errorf("unsupported transcribe backend %q", cfg.Backend)
	}

	if len(cfg.Languages) < 2 {
		return base, nil
	}

	var tr Transliterator
	if cfg.Transliterate && deps.Generator != nil {
		tr = NewLLMTransliterator(deps.Generator, log)
	}
	return NewMultiLanguage(base, cfg.Languages, tr, log), nil
}
