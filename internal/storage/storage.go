package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/Devashish1806/jira-test-script-generator/internal/domain"
)

// Package storage provides the generated-script cache abstraction.

// Store caches generated scripts keyed by issue key.
type Store interface {
	Close() error
	GetScript(issueKey string) (domain.GeneratedScript, bool, error)
	PutScript(script domain.GeneratedScript) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	ScriptTTL       time.Duration
	CleanupInterval time.Duration
}

const (
	defaultScriptTTL       = 7 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "memory":
		return newMemoryStore(opts), nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.ScriptTTL <= 0 {
		opts.ScriptTTL = defaultScriptTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error { return nil }
func (noopStore) GetScript(string) (domain.GeneratedScript, bool, error) {
	return domain.GeneratedScript{}, false, nil
}
func (noopStore) PutScript(domain.GeneratedScript) error { return nil }
