package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"meeteasy-backend/models"
)

const meetingKeyPrefix = "meeteasy:meeting:"

// MeetingCache holds the last known copy of each meeting. It is a cache, not
// a source of truth: only the meeting service and the realtime projection
// write to it, reads tolerate staleness, and it can be flushed and rebuilt
// from the backend at any time. The service reads it to serve a last known
// copy when the backend is unreachable.
type MeetingCache interface {
	Put(ctx context.Context, m *models.Meeting)

	// Get returns the cached meeting or nil on a miss. Callers must treat
	// the value as possibly stale.
	Get(ctx context.Context, meetingID string) *models.Meeting

	Invalidate(ctx context.Context, meetingID string)
}

// RedisMeetingCache backs the cache with Redis. With no Redis client it
// degrades to a no-op.
type RedisMeetingCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewMeetingCache(rdb *redis.Client) *RedisMeetingCache {
	return &RedisMeetingCache{rdb: rdb, ttl: 24 * time.Hour}
}

func (c *RedisMeetingCache) Put(ctx context.Context, m *models.Meeting) {
	if c == nil || c.rdb == nil || m == nil {
		return
	}
	data, err := json.Marshal(m)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, meetingKeyPrefix+m.ID, data, c.ttl)
}

func (c *RedisMeetingCache) Get(ctx context.Context, meetingID string) *models.Meeting {
	if c == nil || c.rdb == nil {
		return nil
	}
	data, err := c.rdb.Get(ctx, meetingKeyPrefix+meetingID).Bytes()
	if err != nil {
		return nil
	}
	var m models.Meeting
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return &m
}

func (c *RedisMeetingCache) Invalidate(ctx context.Context, meetingID string) {
	if c == nil || c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, meetingKeyPrefix+meetingID)
}

// MemoryMeetingCache keeps the same contract in process, for tests and for
// running without Redis. Entries are stored JSON-encoded so readers never
// alias a writer's value, matching the Redis behavior.
type MemoryMeetingCache struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryMeetingCache() *MemoryMeetingCache {
	return &MemoryMeetingCache{data: make(map[string][]byte)}
}

func (c *MemoryMeetingCache) Put(ctx context.Context, m *models.Meeting) {
	if m == nil {
		return
	}
	data, err := json.Marshal(m)
	if err != nil {
		return
	}
	c.mu.Lock()
	c.data[m.ID] = data
	c.mu.Unlock()
}

func (c *MemoryMeetingCache) Get(ctx context.Context, meetingID string) *models.Meeting {
	c.mu.RLock()
	data, ok := c.data[meetingID]
	c.mu.RUnlock()
	if !ok {
		return nil
	}
	var m models.Meeting
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return &m
}

func (c *MemoryMeetingCache) Invalidate(ctx context.Context, meetingID string) {
	c.mu.Lock()
	delete(c.data, meetingID)
	c.mu.Unlock()
}
