package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultSessionTTL = 2 * time.Hour

// Store keeps games for a bounded time. Get returns ErrGameNotFound for
// missing or expired games.
type Store interface {
	Get(ctx context.Context, id string) (Game, error)
	Save(ctx context.Context, g Game) error
}

type memoryEntry struct {
	game      Game
	expiresAt time.Time
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string]memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryStore creates an in-memory store; ttl <= 0 uses two hours.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &MemoryStore{
		games: make(map[string]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (Game, error) {
	s.mu.RLock()
	entry, ok := s.games[id]
	s.mu.RUnlock()

	if !ok {
		return Game{}, ErrGameNotFound
	}
	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.games, id)
		s.mu.Unlock()
		return Game{}, ErrGameNotFound
	}
	return entry.game, nil
}

func (s *MemoryStore) Save(_ context.Context, g Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.games[g.ID] = memoryEntry{game: g, expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Sweep drops expired games and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, entry := range s.games {
		if now.After(entry.expiresAt) {
			delete(s.games, id)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is cancelled.
func (s *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// RedisStore keeps games as JSON documents with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store; ttl <= 0 uses two hours.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(id string) string {
	return fmt.Sprintf("jeopardy:game:%s", id)
}

func (s *RedisStore) Get(ctx context.Context, id string) (Game, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Game{}, ErrGameNotFound
	}
	if err != nil {
		return Game{}, fmt.Errorf("get game: %w", err)
	}

	var g Game
	if err := json.Unmarshal(data, &g); err != nil {
		return Game{}, fmt.Errorf("unmarshal game: %w", err)
	}
	return g, nil
}

func (s *RedisStore) Save(ctx context.Context, g Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("marshal game: %w", err)
	}
	return s.client.Set(ctx, s.key(g.ID), data, s.ttl).Err()
}
