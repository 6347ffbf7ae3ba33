package question

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const defaultCacheTTL = 10 * time.Minute

// PairCache stores generated pairs keyed by slot (implemented by Redis-backed Cache).
type PairCache interface {
	Get(ctx context.Context, req Request) (*Pair, error)
	Set(ctx context.Context, req Request, pair Pair) error
}

// Cache provides Redis-backed pair caching to offload language-model calls.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ PairCache = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(req Request) string {
	category := strings.ToLower(strings.TrimSpace(req.Category))
	return strings.Join([]string{"jeopardy", "pair", category, fmt.Sprint(req.Value)}, ":")
}

func (c *Cache) Get(ctx context.Context, req Request) (*Pair, error) {
	data, err := c.client.Get(ctx, c.key(req)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var pair Pair
	if err := json.Unmarshal(data, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

func (c *Cache) Set(ctx context.Context, req Request, pair Pair) error {
	data, err := json.Marshal(pair)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(req), data, c.ttl).Err()
}

// WithCache serves pairs from cache when present and stores fresh successes.
// Cache errors are logged and otherwise ignored.
func WithCache(next Generator, cache PairCache, logger zerolog.Logger) Generator {
	logger = logger.With().Str("component", "question_cache").Logger()
	return GeneratorFunc(func(ctx context.Context, req Request) (Pair, error) {
		if cached, err := cache.Get(ctx, req); err != nil {
			logger.Warn().Err(err).Str("category", req.Category).Msg("cache read failed")
		} else if cached != nil {
			return *cached, nil
		}

		pair, err := next.Generate(ctx, req)
		if err != nil {
			return Pair{}, err
		}
		if pair.Question == "" || pair.Answer == "" || IsSentinel(pair) {
			return pair, nil
		}
		if err := cache.Set(ctx, req, pair); err != nil {
			logger.Warn().Err(err).Str("category", req.Category).Msg("cache write failed")
		}
		return pair, nil
	})
}
