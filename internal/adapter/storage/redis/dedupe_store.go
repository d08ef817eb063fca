package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// DedupeStore implements ports.DedupeStore using Redis SET NX. The callback
// gateway retries delivery reports, so ingestion claims each (message, status)
// pair exactly once here before touching the database.
type DedupeStore struct {
	client *goredis.Client
	prefix string
}

// NewDedupeStore creates a new Redis-backed dedupe store.
func NewDedupeStore(client *goredis.Client) *DedupeStore {
	return &DedupeStore{
		client: client,
		prefix: "callback:",
	}
}

// MarkSeen atomically claims a key. Returns true if this caller is the first
// to see it within the TTL window, false on a duplicate.
func (s *DedupeStore) MarkSeen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	result, err := s.client.SetArgs(ctx, s.prefix+key, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if err == goredis.Nil {
			// Key already exists, a duplicate report
			return false, nil
		}
		return false, fmt.Errorf("redis dedupe mark: %w", err)
	}
	return result == "OK", nil
}
