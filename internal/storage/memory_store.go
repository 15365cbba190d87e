package storage

import (
	"sync"
	"time"

	"github.com/Devashish1806/jira-test-script-generator/internal/domain"
)

// memoryStore keeps scripts in a map with per-entry creation timestamps.
// Entries older than the TTL are dropped on read.
type memoryStore struct {
	mu        sync.RWMutex
	scripts   map[string]domain.GeneratedScript
	createdAt map[string]time.Time
	scriptTTL time.Duration
}

func newMemoryStore(opts Options) *memoryStore {
	return &memoryStore{
		scripts:   make(map[string]domain.GeneratedScript),
		createdAt: make(map[string]time.Time),
		scriptTTL: opts.ScriptTTL,
	}
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) GetScript(issueKey string) (domain.GeneratedScript, bool, error) {
	m.mu.RLock()
	script, ok := m.scripts[issueKey]
	created := m.createdAt[issueKey]
	m.mu.RUnlock()

	if !ok {
		return domain.GeneratedScript{}, false, nil
	}
	if time.Since(created) > m.scriptTTL {
		m.mu.Lock()
		delete(m.scripts, issueKey)
		delete(m.createdAt, issueKey)
		m.mu.Unlock()
		return domain.GeneratedScript{}, false, nil
	}
	return script, true, nil
}

func (m *memoryStore) PutScript(script domain.GeneratedScript) error {
	m.mu.Lock()
	m.scripts[script.IssueKey] = script
	m.createdAt[script.IssueKey] = time.Now()
	m.mu.Unlock()
	return nil
}
