package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheUnavailable is an exported constant or variable used by the bootstrap engine.
var ErrCacheUnavailable = errors.New("session cache unavailable")

// CurrentSchemaVersion is the snapshot cache encoding version. Entries with an
// unknown version are treated as misses and deleted.
const CurrentSchemaVersion = 1

type cachedSnapshot struct {
	SchemaVersion int    `json:"v"`
	ID            *int64 `json:"id"`
	Username      string `json:"username"`
	Role          string `json:"role"`
	Leader        *bool  `json:"leader"`
	SavedAt       int64  `json:"saved_at"`
}

// Cache is a Redis-backed write-through store for merged session snapshots,
// keyed by application instance. A warm start loads the snapshot instead of
// refetching from the identity provider.
type Cache struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewCache creates a snapshot [Cache] backed by the given Redis client.
// prefix sets the Redis key namespace; ttl bounds snapshot staleness.
func NewCache(client redis.UniversalClient, prefix string, ttl time.Duration) *Cache {
	return &Cache{
		redis:  client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *Cache) key(instanceKey string) string {
	return c.prefix + ":snap:" + instanceKey
}

// Save persists a merged snapshot under the instance key with the cache TTL.
//
//	Performance: 1 Redis SET.
func (c *Cache) Save(ctx context.Context, instanceKey string, snap Snapshot) error {
	entry := cachedSnapshot{
		SchemaVersion: CurrentSchemaVersion,
		ID:            snap.ID,
		Username:      snap.Username,
		Role:          snap.Role,
		Leader:        snap.Leader,
		SavedAt:       time.Now().Unix(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	if err := c.redis.Set(ctx, c.key(instanceKey), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

// Load retrieves a cached snapshot as a [Payload] ready for merging. A miss
// (or an entry with an unknown schema version) returns redis.Nil.
//
//	Performance: 1 Redis GET.
func (c *Cache) Load(ctx context.Context, instanceKey string) (Payload, error) {
	data, err := c.redis.Get(ctx, c.key(instanceKey)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Payload{}, err
		}
		return Payload{}, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	var entry cachedSnapshot
	if err := json.Unmarshal(data, &entry); err != nil || entry.SchemaVersion != CurrentSchemaVersion {
		// Corrupt or stale-format entries are evicted and treated as misses.
		_ = c.redis.Del(ctx, c.key(instanceKey)).Err()
		return Payload{}, redis.Nil
	}

	username := entry.Username
	role := entry.Role
	return Payload{
		ID:       entry.ID,
		Username: &username,
		Role:     &role,
		Leader:   entry.Leader,
	}, nil
}

// Delete removes the cached snapshot for the instance key. Deleting a missing
// entry is not an error.
func (c *Cache) Delete(ctx context.Context, instanceKey string) error {
	if err := c.redis.Del(ctx, c.key(instanceKey)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (c *Cache) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := c.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return time.Since(start), nil
}
