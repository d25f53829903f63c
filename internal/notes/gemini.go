package notes

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/lecture-notes/internal/logger"
)

const defaultGeminiModel = "gemini-2.5-flash"

// ContentGenerator is the part of genai.Models the Gemini provider calls.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ClientFactory creates a content generator bound to one API key.
type ClientFactory func(ctx context.Context, apiKey string) (ContentGenerator, error)

type geminiProvider struct {
	apiKeys []string
	model   string
	logger  logger.Logger
	factory ClientFactory

	mu         sync.Mutex
	currentKey int
	clients    map[string]ContentGenerator
}

// NewGemini creates a Gemini provider that rotates through apiKeys after quota errors.
// A nil factory uses the genai Gemini API backend.
func NewGemini(apiKeys []string, model string, factory ClientFactory, log logger.Logger) Provider {
	if model == "" {
		model = defaultGeminiModel
	}
	if factory == nil {
		factory = newGenaiClient
	}
	return &geminiProvider{
		apiKeys: apiKeys,
		model:   model,
		logger:  log,
		factory: factory,
		clients: make(map[string]ContentGenerator),
	}
}

func newGenaiClient(ctx context.Context, apiKey string) (ContentGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return client.Models, nil
}

func (g *geminiProvider) Name() string { return "gemini" }

// Generate makes exactly one call. A quota error moves the next call to the next key.
func (g *geminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if len(g.apiKeys) == 0 {
		return "", fmt.Errorf("gemini: no api keys configured")
	}

	keyIndex, client, err := g.client(ctx)
	if err != nil {
		return "", fmt.Errorf("gemini: create client: %w", err)
	}

	result, err := client.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		if isQuotaError(err) {
			g.logger.Warn(ctx, "Gemini key %d rate limited, next call uses the next key", keyIndex+1)
			g.rotateKey(keyIndex)
		}
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	return geminiText(result)
}

func (g *geminiProvider) client(ctx context.Context) (int, ContentGenerator, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := g.currentKey
	key := g.apiKeys[idx]
	if c, ok := g.clients[key]; ok {
		return idx, c, nil
	}
	c, err := g.factory(ctx, key)
	if err != nil {
		return idx, nil, err
	}
	g.clients[key] = c
	return idx, c, nil
}

// rotateKey advances past the key that failed, unless another call already did.
func (g *geminiProvider) rotateKey(failed int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currentKey == failed {
		g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
	}
}

func geminiText(result *genai.GenerateContentResponse) (string, error) {
	if result == nil {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}

	if len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var sb strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			if part != nil && part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
		if sb.Len() > 0 {
			return sb.String(), nil
		}
	}

	if fb := result.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return "", fmt.Errorf("gemini: prompt blocked: %s %s", fb.BlockReason, fb.BlockReasonMessage)
	}
	return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
