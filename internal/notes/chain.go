package notes

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nguyentantai21042004/lecture-notes/internal/logger"
)

// MinUsableLength is the shortest trimmed response accepted as notes.
const MinUsableLength = 10

const (
	placeholderUnusable = "# Notes\n\nThe language model did not return usable notes for this lecture. " +
		"The transcript or slide text may have been too short to summarize."
	placeholderFailed = "# Notes\n\nNotes generation failed. No language model provider was able to " +
		"produce notes for this lecture."
)

// Chain tries providers in order until one succeeds.
type Chain struct {
	providers []Provider
	timeout   time.Duration
	logger    logger.Logger
	now       func() time.Time
}

// NewChain builds a fallback chain. timeout bounds each provider attempt when > 0.
func NewChain(providers []Provider, timeout time.Duration, log logger.Logger) *Chain {
	return &Chain{
		providers: providers,
		timeout:   timeout,
		logger:    log,
		now:       time.Now,
	}
}

// Providers returns the provider names in attempt order.
func (c *Chain) Providers() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// GenerateNotes prompts the chain with the lecture content. It always returns a non-empty document.
func (c *Chain) GenerateNotes(ctx context.Context, transcript, visualText string) Document {
	prompt := BuildPrompt(transcript, visualText)

	text, provider, attempts := c.run(ctx, prompt)
	doc := Document{Provider: provider, Attempts: attempts}

	switch {
	case provider == "":
		doc.Markdown = placeholderFailed
		doc.Placeholder = true
		c.logger.Error(ctx, "Notes generation failed: %v", doc.Err())
	case utf8.RuneCountInString(strings.TrimSpace(text)) < MinUsableLength:
		doc.Markdown = placeholderUnusable
		doc.Placeholder = true
		c.logger.Warn(ctx, "Provider %s returned %d characters, using placeholder notes", provider, utf8.RuneCountInString(strings.TrimSpace(text)))
	default:
		doc.Markdown = strings.TrimSpace(text)
	}
	return doc
}

// Generate returns the first successful provider response. It lets the chain serve
// other text tasks such as transliteration.
func (c *Chain) Generate(ctx context.Context, prompt string) (string, error) {
	text, provider, attempts := c.run(ctx, prompt)
	if provider == "" {
		return "", Document{Attempts: attempts}.Err()
	}
	return text, nil
}

func (c *Chain) run(ctx context.Context, prompt string) (string, string, []Attempt) {
	attempts := make([]Attempt, 0, len(c.providers))

	for i, p := range c.providers {
		if err := ctx.Err(); err != nil {
			attempts = append(attempts, Attempt{Provider: p.Name(), Err: err})
			c.logger.Warn(ctx, "Skipping provider %s: %v", p.Name(), err)
			continue
		}

		start := c.now()
		text, err := c.attempt(ctx, p, prompt)
		attempt := Attempt{Provider: p.Name(), Err: err, Duration: c.now().Sub(start)}
		attempts = append(attempts, attempt)

		if err != nil {
			c.logger.Warn(ctx, "[%d/%d] Provider %s failed after %s: %v", i+1, len(c.providers), p.Name(), attempt.Duration, err)
			continue
		}

		c.logger.Info(ctx, "[%d/%d] Provider %s produced %d characters in %s", i+1, len(c.providers), p.Name(), len(text), attempt.Duration)
		return text, p.Name(), attempts
	}

	return "", "", attempts
}

// attempt isolates one provider call, including panics inside an adapter.
func (c *Chain) attempt(ctx context.Context, p Provider, prompt string) (text string, err error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", p.Name(), r)
		}
	}()

	return p.Generate(ctx, prompt)
}
