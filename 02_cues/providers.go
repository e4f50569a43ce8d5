package cues

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// TextProvider is one tier of the text-generation chain
type TextProvider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenAIProvider generates text via the OpenAI chat completion API
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates the primary text provider
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   60,
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// PollinationsProvider generates text via Pollinations.ai (free, no key)
type PollinationsProvider struct {
	httpClient *http.Client
}

// NewPollinationsProvider creates the fallback text provider
func NewPollinationsProvider() *PollinationsProvider {
	return &PollinationsProvider{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *PollinationsProvider) Name() string { return "pollinations" }

func (p *PollinationsProvider) Generate(ctx context.Context, prompt string) (string, error) {
	// Format: https://text.pollinations.ai/{encoded_prompt}
	reqURL := "https://text.pollinations.ai/" + url.PathEscape(prompt)
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from Pollinations", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty response from Pollinations")
	}
	return string(data), nil
}
