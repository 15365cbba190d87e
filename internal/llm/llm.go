package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Client sends a prompt to an LLM and returns the reply text.
type Client interface {
	Provider() string
	Model() string
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

const (
	// Supported provider types.
	TypeOpenAI = "openai"
	TypeOllama = "ollama"
)

// Config carries the provider-agnostic LLM settings.
type Config struct {
	Provider string
	BaseURL  string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// Builder creates a Client from config.
type Builder func(cfg Config) (Client, error)

// Registry maps provider types to builders.
type Registry interface {
	Register(typ string, builder Builder)
	ClientFor(cfg Config) (Client, error)
}

type registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry returns a registry with optional pre-registered builders.
func NewRegistry(builders map[string]Builder) Registry {
	r := &registry{builders: make(map[string]Builder)}
	for typ, b := range builders {
		r.Register(typ, b)
	}
	return r
}

// Register associates a builder with a provider type.
func (r *registry) Register(typ string, builder Builder) {
	if typ = strings.TrimSpace(strings.ToLower(typ)); typ == "" || builder == nil {
		return
	}

	r.mu.Lock()
	r.builders[typ] = builder
	r.mu.Unlock()
}

// ClientFor returns the client built for the provided config.
func (r *registry) ClientFor(cfg Config) (Client, error) {
	if cfg.Provider == "" {
		return nil, fmt.Errorf("llm provider is not configured")
	}

	r.mu.RLock()
	builder := r.builders[strings.ToLower(cfg.Provider)]
	r.mu.RUnlock()

	if builder == nil {
		return nil, fmt.Errorf("no llm client registered for provider %q", cfg.Provider)
	}
	return builder(cfg)
}

// DefaultRegistry wires up known providers.
func DefaultRegistry() Registry {
	builders := map[string]Builder{
		TypeOpenAI: newOpenAIClient,
		TypeOllama: newOllamaClient,
	}
	return NewRegistry(builders)
}
