package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// CacheEntry is one stored canonical record. Record holds the JSON exactly
// as written; the column is JSON rather than JSONB so key order survives.
type CacheEntry struct {
	Fingerprint string    `json:"fingerprint"`
	RequesterID string    `json:"requester_id"`
	Record      []byte    `json:"record"`
	CreatedAt   time.Time `json:"created_at"`
}

// GetCacheEntry retrieves an entry by fingerprint. It returns nil, nil when absent.
func (db *DB) GetCacheEntry(ctx context.Context, fingerprint string) (*CacheEntry, error) {
	var e CacheEntry
	err := db.pool.QueryRow(ctx,
		`SELECT fingerprint, requester_id, record::text, created_at
		 FROM resume_cache WHERE fingerprint = $1`,
		fingerprint,
	).Scan(&e.Fingerprint, &e.RequesterID, &e.Record, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}
	return &e, nil
}

// PutCacheEntry inserts or replaces the entry for fingerprint.
func (db *DB) PutCacheEntry(ctx context.Context, fingerprint, requesterID string, record []byte) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO resume_cache (fingerprint, requester_id, record)
		 VALUES ($1, $2, $3::json)
		 ON CONFLICT (fingerprint) DO UPDATE SET requester_id = $2, record = $3::json, created_at = NOW()`,
		fingerprint, requesterID, string(record),
	)
	if err != nil {
		return fmt.Errorf("failed to save cache entry: %w", err)
	}
	return nil
}

// DeleteCacheEntriesForRequester removes every entry stored by requesterID
// and returns how many were removed.
func (db *DB) DeleteCacheEntriesForRequester(ctx context.Context, requesterID string) (int64, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM resume_cache WHERE requester_id = $1`, requesterID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cache entries: %w", err)
	}
	return result.RowsAffected(), nil
}

// CountCacheEntries returns the number of stored entries for requesterID.
func (db *DB) CountCacheEntries(ctx context.Context, requesterID string) (int, error) {
	var n int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM resume_cache WHERE requester_id = $1`, requesterID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}
