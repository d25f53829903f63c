package notes

import (
	"context"
	"encoding/json"
)

const (
	defaultDeepSeekBaseURL = "https://api.deepseek.com"
	defaultDeepSeekModel   = "deepseek-chat"
)

type deepSeekResponse struct {
	Choices []struct {
		Message struct {
			Content          string `json:"content"`
			ReasoningContent string `json:"reasoning_content"`
		} `json:"message"`
	} `json:"choices"`
}

type deepSeekProvider struct {
	client *chatClient
}

// NewDeepSeek creates a DeepSeek chat completions provider.
func NewDeepSeek(apiKey, model, baseURL string, opts ...ChatOption) Provider {
	if model == "" {
		model = defaultDeepSeekModel
	}
	if baseURL == "" {
		baseURL = defaultDeepSeekBaseURL
	}
	return &deepSeekProvider{client: newChatClient("deepseek", apiKey, model, baseURL, opts...)}
}

func (p *deepSeekProvider) Name() string { return "deepseek" }

func (p *deepSeekProvider) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := p.client.complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	if text := deepSeekText(body); text != "" {
		return text, nil
	}
	return rawFallback(p.Name(), body)
}

func deepSeekText(body []byte) string {
	var resp deepSeekResponse
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Choices) == 0 {
		return ""
	}
	m := resp.Choices[0].Message
	return firstNonEmpty(m.Content, m.ReasoningContent)
}
