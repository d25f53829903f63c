package notes

import (
	"context"
	"encoding/json"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
)

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		Text string `json:"text"`
	} `json:"choices"`
	OutputText string `json:"output_text"`
}

type openAIProvider struct {
	client *chatClient
}

// NewOpenAI creates a provider for any OpenAI-compatible chat completions endpoint.
func NewOpenAI(apiKey, model, baseURL string, opts ...ChatOption) Provider {
	if model == "" {
		model = defaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return &openAIProvider{client: newChatClient("openai", apiKey, model, baseURL, opts...)}
}

func (p *openAIProvider) Name() string { return "openai" }

func (p *openAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := p.client.complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	if text := openAIText(body); text != "" {
		return text, nil
	}
	return rawFallback(p.Name(), body)
}

// openAIText probes message.content, delta.content, text, then output_text.
func openAIText(body []byte) string {
	var resp openAIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	if len(resp.Choices) > 0 {
		c := resp.Choices[0]
		if text := firstNonEmpty(c.Message.Content, c.Delta.Content, c.Text); text != "" {
			return text
		}
	}
	return firstNonEmpty(resp.OutputText)
}
