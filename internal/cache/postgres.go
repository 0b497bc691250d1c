package cache

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-optimizer/internal/db"
	"github.com/jonathan/resume-optimizer/internal/resume"
)

// PostgresStore keeps records in the resume_cache table.
type PostgresStore struct {
	db *db.DB
}

// NewPostgresStore wraps an open database.
func NewPostgresStore(database *db.DB) *PostgresStore {
	return &PostgresStore{db: database}
}

// Get implements Store.
func (s *PostgresStore) Get(ctx context.Context, key string) (*resume.Map, bool, error) {
	entry, err := s.db.GetCacheEntry(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if entry == nil {
		return nil, false, nil
	}
	rec, err := resume.ParseMap(entry.Record)
	if err != nil {
		return nil, false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	return rec, true, nil
}

// Put implements Store.
func (s *PostgresStore) Put(ctx context.Context, requesterID, key string, record *resume.Map) error {
	data, err := record.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	return s.db.PutCacheEntry(ctx, key, requesterID, data)
}

// DeleteRequester implements Store.
func (s *PostgresStore) DeleteRequester(ctx context.Context, requesterID string) (int, error) {
	n, err := s.db.DeleteCacheEntriesForRequester(ctx, requesterID)
	return int(n), err
}
