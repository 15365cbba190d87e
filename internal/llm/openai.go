package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/Devashish1806/jira-test-script-generator/pkg/apiclient"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// openAIClient speaks the OpenAI-compatible chat-completions protocol. It
// also covers providers exposing the same surface (Groq, OpenRouter, etc.)
// via a custom base URL.
type openAIClient struct {
	api   *apiclient.Client
	model string
}

func newOpenAIClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is not set")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("openai model is not set")
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	api := apiclient.New(apiclient.Config{
		BaseURL: baseURL,
		DefaultHeaders: map[string]string{
			"Authorization": "Bearer " + cfg.APIKey,
		},
		Timeout: cfg.Timeout,
	})

	return &openAIClient{api: api, model: cfg.Model}, nil
}

func (c *openAIClient) Provider() string { return TypeOpenAI }
func (c *openAIClient) Model() string    { return c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends system and user messages and returns the assistant reply.
func (c *openAIClient) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
	}

	var resp chatResponse
	if err := c.api.PostJSON(ctx, "/chat/completions", req, &resp); err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}
