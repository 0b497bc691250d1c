// Package cache memoizes generated canonical records by request fingerprint.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/jonathan/resume-optimizer/internal/resume"
	"github.com/rs/zerolog"
)

// Fingerprint hashes the exact concatenation of a request's defining inputs.
// Argument order matters.
func Fingerprint(requesterID string, file []byte, jobDescription, suggestions string) string {
	h := sha256.New()
	h.Write([]byte(requesterID))
	h.Write(file)
	h.Write([]byte(jobDescription))
	h.Write([]byte(suggestions))
	return hex.EncodeToString(h.Sum(nil))
}

// Store is the primary key/value layer behind a Cache. Implementations must
// track which requester stored each key so entries can be removed per
// requester.
type Store interface {
	Get(ctx context.Context, key string) (*resume.Map, bool, error)
	Put(ctx context.Context, requesterID, key string, record *resume.Map) error
	DeleteRequester(ctx context.Context, requesterID string) (int, error)
}

// Source reports where a lookup was satisfied.
type Source string

const (
	Miss     Source = "miss"
	Primary  Source = "primary"
	LastSlot Source = "last"
)

type lastEntry struct {
	key    string
	record *resume.Map
}

// Cache wraps a Store with a per-requester "last successful record" slot that
// answers a lookup only when the key matches exactly. Records are cloned on
// the way in and out, so callers can mutate what they get.
type Cache struct {
	store  Store
	logger zerolog.Logger

	mu   sync.Mutex
	last map[string]lastEntry
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// New creates a Cache over store. A nil store means an in-memory store.
func New(store Store, opts ...Option) *Cache {
	if store == nil {
		store = NewMemoryStore()
	}
	c := &Cache{
		store:  store,
		logger: zerolog.Nop(),
		last:   make(map[string]lastEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get reads the primary store only.
func (c *Cache) Get(ctx context.Context, key string) (*resume.Map, bool, error) {
	rec, ok, err := c.store.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	return rec.Clone(), true, nil
}

// Put stores record under key and makes it the requester's last record. The
// last slot is updated even if the store write fails.
func (c *Cache) Put(ctx context.Context, requesterID, key string, record *resume.Map) error {
	stored := record.Clone()

	c.mu.Lock()
	c.last[requesterID] = lastEntry{key: key, record: stored}
	c.mu.Unlock()

	return c.store.Put(ctx, requesterID, key, stored)
}

// Lookup checks the primary store, then the requester's last slot. A store
// error is logged and treated as a miss there.
func (c *Cache) Lookup(ctx context.Context, requesterID, key string) (*resume.Map, Source) {
	rec, ok, err := c.Get(ctx, key)
	if err != nil {
		c.logger.Warn().Err(err).Str("requester", requesterID).Msg("cache store read failed")
	}
	if ok {
		c.logger.Debug().Str("requester", requesterID).Msg("cache hit")
		return rec, Primary
	}

	c.mu.Lock()
	last, found := c.last[requesterID]
	c.mu.Unlock()
	if found && last.key == key {
		c.logger.Debug().Str("requester", requesterID).Msg("cache last-slot hit")
		return last.record.Clone(), LastSlot
	}

	c.logger.Debug().Str("requester", requesterID).Msg("cache miss")
	return nil, Miss
}

// InvalidateFor removes every entry stored by requesterID, including the last
// slot, and returns how many primary entries were removed.
func (c *Cache) InvalidateFor(ctx context.Context, requesterID string) (int, error) {
	c.mu.Lock()
	delete(c.last, requesterID)
	c.mu.Unlock()

	return c.store.DeleteRequester(ctx, requesterID)
}
