package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Devashish1806/jira-test-script-generator/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const scriptBucket = "scripts"

// boltStore implements a Store backed by BoltDB.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	scriptTTL       time.Duration
	cleanupInterval time.Duration
}

// scriptRecord is the stored envelope: the script plus its expiry stamp.
type scriptRecord struct {
	ExpiresAt int64                  `json:"expires_at"`
	Script    domain.GeneratedScript `json:"script"`
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(scriptBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		scriptTTL:       opts.ScriptTTL,
		cleanupInterval: opts.CleanupInterval,
	}
	store.lastCleanup.Store(time.Now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// GetScript returns the cached script for the issue key if present and fresh.
func (b *boltStore) GetScript(issueKey string) (domain.GeneratedScript, bool, error) {
	if b == nil || b.db == nil {
		return domain.GeneratedScript{}, false, nil
	}

	if err := b.maybeCleanupExpired(time.Now()); err != nil {
		return domain.GeneratedScript{}, false, err
	}

	var (
		script domain.GeneratedScript
		found  bool
	)
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(scriptBucket))
		if bucket == nil {
			return fmt.Errorf("script bucket missing")
		}

		key := []byte(issueKey)
		value := bucket.Get(key)
		if value == nil {
			return nil
		}

		var rec scriptRecord
		if err := json.Unmarshal(value, &rec); err != nil || rec.ExpiresAt <= time.Now().Unix() {
			return bucket.Delete(key)
		}

		script = rec.Script
		found = true
		return nil
	})
	return script, found, err
}

// PutScript stores the script under its issue key with a fresh TTL.
func (b *boltStore) PutScript(script domain.GeneratedScript) error {
	if b == nil || b.db == nil {
		return nil
	}
	if script.IssueKey == "" {
		return fmt.Errorf("script has no issue key")
	}

	now := time.Now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	rec := scriptRecord{
		ExpiresAt: now.Add(b.scriptTTL).Unix(),
		Script:    script,
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal script record: %w", err)
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(scriptBucket))
		if bucket == nil {
			return fmt.Errorf("script bucket missing")
		}
		return bucket.Put([]byte(script.IssueKey), payload)
	})
}

// maybeCleanupExpired removes expired records on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if b == nil || b.db == nil {
		return nil
	}

	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(scriptBucket))
		if bucket == nil {
			return fmt.Errorf("script bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			var rec scriptRecord
			if err := json.Unmarshal(v, &rec); err != nil || rec.ExpiresAt <= now.Unix() {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}
