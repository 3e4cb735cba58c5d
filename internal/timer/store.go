package timer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Store persists one countdown per user
type Store interface {
	// Get returns the user's state, nil when none was saved
	Get(ctx context.Context, userID string) (*State, error)
	Save(ctx context.Context, s State) error
	Delete(ctx context.Context, userID string) error
	// ListRunning returns every running countdown
	ListRunning(ctx context.Context) ([]State, error)
}

// RedisStore keeps countdowns as JSON values under a key prefix
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store writing keys under prefix + "timer:"
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix + "timer:"}
}

func (s *RedisStore) key(userID string) string {
	return s.prefix + userID
}

// Get loads a user's countdown
func (s *RedisStore) Get(ctx context.Context, userID string) (*State, error) {
	data, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get timer: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to decode timer: %w", err)
	}
	return &st, nil
}

// Save stores a user's countdown without expiry
func (s *RedisStore) Save(ctx context.Context, st State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode timer: %w", err)
	}
	if err := s.client.Set(ctx, s.key(st.UserID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save timer: %w", err)
	}
	return nil
}

// Delete removes a user's countdown
func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete timer: %w", err)
	}
	return nil
}

// ListRunning scans every timer key and returns the running ones
func (s *RedisStore) ListRunning(ctx context.Context) ([]State, error) {
	var running []State
	var cursor uint64

	for {
		keys, nextCursor, err := s.client.Scan(ctx, cursor, s.prefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan timers: %w", err)
		}

		if len(keys) > 0 {
			values, err := s.client.MGet(ctx, keys...).Result()
			if err != nil {
				return nil, fmt.Errorf("failed to load timers: %w", err)
			}

			for i, v := range values {
				raw, ok := v.(string)
				if !ok {
					continue // deleted between SCAN and MGET
				}
				var st State
				if err := json.Unmarshal([]byte(raw), &st); err != nil {
					slog.Warn("skipping undecodable timer", "key", keys[i], "error", err)
					continue
				}
				if st.Status == StatusRunning {
					running = append(running, st)
				}
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return running, nil
}

// MemoryStore keeps countdowns in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]State
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]State)}
}

// Get loads a user's countdown
func (s *MemoryStore) Get(ctx context.Context, userID string) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[userID]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

// Save stores a user's countdown
func (s *MemoryStore) Save(ctx context.Context, st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[st.UserID] = st
	return nil
}

// Delete removes a user's countdown
func (s *MemoryStore) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, userID)
	return nil
}

// ListRunning returns every running countdown ordered by user id
func (s *MemoryStore) ListRunning(ctx context.Context) ([]State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var running []State
	for _, st := range s.states {
		if st.Status == StatusRunning {
			running = append(running, st)
		}
	}
	sort.Slice(running, func(i, j int) bool {
		return strings.Compare(running[i].UserID, running[j].UserID) < 0
	})
	return running, nil
}
