package transcriber

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/lecture-notes/internal/logger"
	"github.com/nguyentantai21042004/lecture-notes/internal/media"
)

// MultiLanguage runs one transcription per configured language concurrently and merges the results.
type MultiLanguage struct {
	inner          Transcriber
	languages      []string
	transliterator Transliterator
	logger         logger.Logger
}

// NewMultiLanguage wraps inner. transliterator may be nil.
func NewMultiLanguage(inner Transcriber, languages []string, transliterator Transliterator, log logger.Logger) *MultiLanguage {
	return &MultiLanguage{
		inner:          inner,
		languages:      languages,
		transliterator: transliterator,
		logger:         log,
	}
}

type languageResult struct {
	language string
	text     string
	err      error
}

// Transcribe ignores languageCode and uses the configured language list.
// Partial success returns the surviving transcript; only total failure is an error.
func (m *MultiLanguage) Transcribe(ctx context.Context, audio media.AudioTrack, _ string) (string, error) {
	if len(m.languages) == 1 {
		return m.inner.Transcribe(ctx, audio, m.languages[0])
	}

	if stager, ok := m.inner.(Stager); ok {
		staged, err := stager.Stage(ctx, audio)
		if err != nil {
			return "", err
		}
		ctx = staged
	}

	results := make([]languageResult, len(m.languages))
	var wg sync.WaitGroup
	for i, lang := range m.languages {
		wg.Add(1)
		go func(i int, lang string) {
			defer wg.Done()
			text, err := m.inner.Transcribe(ctx, audio, lang)
			if err == nil && m.transliterator != nil {
				text, err = m.transliterator.Transliterate(ctx, text)
			}
			results[i] = languageResult{language: lang, text: text, err: err}
		}(i, lang)
	}
	wg.Wait()

	var (
		ok   []languageResult
		errs []error
	)
	for _, r := range results {
		if r.err != nil {
			m.logger.Warn(ctx, "Transcription in %s failed: %v", r.language, r.err)
			errs = append(errs, fmt.Errorf("%s: %w", r.language, r.err))
			continue
		}
		ok = append(ok, r)
	}

	switch len(ok) {
	case 0:
		return "", errors.Join(errs...)
	case 1:
		return ok[0].text, nil
	}

	sections := make([]string, 0, len(ok))
	for _, r := range ok {
		sections = append(sections, fmt.Sprintf("[%s]\n%s", r.language, strings.TrimSpace(r.text)))
	}
	return strings.Join(sections, "\n\n"), nil
}
