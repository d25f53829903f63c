package transcriber

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/nguyentantai21042004/lecture-notes/internal/logger"
)

// Generator produces text from a prompt. A notes provider or fallback chain satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Transliterator rewrites text into Latin script, keeping the original language.
type Transliterator interface {
	Transliterate(ctx context.Context, text string) (string, error)
}

const transliteratePrompt = `Transliterate the following text into Latin script.
Keep the original language and wording. Do not translate. Return only the transliterated text.

Text:
%s`

type llmTransliterator struct {
	gen    Generator
	logger logger.Logger
}

// NewLLMTransliterator transliterates through a language model.
func NewLLMTransliterator(gen Generator, log logger.Logger) Transliterator {
	return &llmTransliterator{gen: gen, logger: log}
}

// Transliterate returns the original text when the model fails or returns nothing.
func (t *llmTransliterator) Transliterate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" || IsLatin(text) {
		return text, nil
	}

	out, err := t.gen.Generate(ctx, fmt.Sprintf(transliteratePrompt, text))
	if err != nil {
		t.logger.Warn(ctx, "Transliteration failed, keeping original text: %v", err)
		return text, nil
	}

	out = strings.TrimSpace(out)
	if out == "" {
		t.logger.Warn(ctx, "Transliteration returned empty text, keeping original")
		return text, nil
	}
	return out, nil
}

// IsLatin reports whether at least half of the letters in text are Latin script.
func IsLatin(text string) bool {
	var letters, latin int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Latin, r) {
			latin++
		}
	}
	if letters == 0 {
		return true
	}
	return latin*2 >= letters
}
