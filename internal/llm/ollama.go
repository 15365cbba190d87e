package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/Devashish1806/jira-test-script-generator/pkg/apiclient"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// ollamaClient talks to a local Ollama daemon. No authentication.
type ollamaClient struct {
	api   *apiclient.Client
	model string
}

func newOllamaClient(cfg Config) (Client, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama model is not set")
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}

	api := apiclient.New(apiclient.Config{
		BaseURL: baseURL,
		Timeout: cfg.Timeout,
	})

	return &ollamaClient{api: api, model: cfg.Model}, nil
}

func (c *ollamaClient) Provider() string { return TypeOllama }
func (c *ollamaClient) Model() string    { return c.model }

type ollamaRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type ollamaResponse struct {
	Message chatMessage `json:"message"`
}

// Complete sends system and user messages and returns the assistant reply.
func (c *ollamaClient) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	req := ollamaRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
		Stream: false,
	}

	var resp ollamaResponse
	if err := c.api.PostJSON(ctx, "/api/chat", req, &resp); err != nil {
		return "", fmt.Errorf("ollama completion: %w", err)
	}
	if resp.Message.Content == "" {
		return "", fmt.Errorf("ollama completion: empty reply")
	}
	return resp.Message.Content, nil
}
