package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/irn-edu/timetable-api/internal/models"
	appErrors "github.com/irn-edu/timetable-api/pkg/errors"
)

// StoredResult is the full outcome of one scheduling run, retrievable by token
// until its TTL lapses.
type StoredResult struct {
	Token       string                `json:"token"`
	CreatedAt   time.Time             `json:"created_at"`
	Result      models.ScheduleResult `json:"result"`
	OutputCSV   []byte                `json:"output_csv"`
	Occurrences []models.Occurrence   `json:"occurrences,omitempty"`
}

// ResultStore keeps run results available for later retrieval and download.
type ResultStore interface {
	Save(ctx context.Context, res StoredResult, ttl time.Duration) error
	Get(ctx context.Context, token string) (*StoredResult, error)
}

type memoryEntry struct {
	result    StoredResult
	expiresAt time.Time
}

// MemoryResultStore holds results in process memory. Expired entries are
// collected opportunistically on writes.
type MemoryResultStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryResultStore builds an empty in-memory store.
func NewMemoryResultStore() *MemoryResultStore {
	return &MemoryResultStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Save stores the result and sweeps expired entries.
func (s *MemoryResultStore) Save(_ context.Context, res StoredResult, ttl time.Duration) error {
	if res.Token == "" {
		return fmt.Errorf("result token is empty")
	}
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, entry := range s.entries {
		if entry.expiresAt.Before(now) {
			delete(s.entries, token)
		}
	}
	s.entries[res.Token] = memoryEntry{result: res, expiresAt: now.Add(ttl)}
	return nil
}

// Get returns the stored result or ErrResultMiss when absent or expired.
func (s *MemoryResultStore) Get(_ context.Context, token string) (*StoredResult, error) {
	s.mu.RLock()
	entry, ok := s.entries[token]
	s.mu.RUnlock()
	if !ok || entry.expiresAt.Before(s.now()) {
		return nil, appErrors.ErrResultMiss
	}
	res := entry.result
	return &res, nil
}

// RedisResultStore keeps results in Redis so multiple instances can serve
// downloads for each other's runs.
type RedisResultStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisResultStore wraps a Redis client as a result store.
func NewRedisResultStore(client *redis.Client) *RedisResultStore {
	return &RedisResultStore{client: client, keyPrefix: "schedule:result:"}
}

// Save serialises and stores the result under its token.
func (s *RedisResultStore) Save(ctx context.Context, res StoredResult, ttl time.Duration) error {
	if res.Token == "" {
		return fmt.Errorf("result token is empty")
	}
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal stored result: %w", err)
	}
	if err := s.client.Set(ctx, s.keyPrefix+res.Token, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Get fetches and deserialises the stored result.
func (s *RedisResultStore) Get(ctx context.Context, token string) (*StoredResult, error) {
	payload, err := s.client.Get(ctx, s.keyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrResultMiss
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var res StoredResult
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, fmt.Errorf("unmarshal stored result: %w", err)
	}
	return &res, nil
}
