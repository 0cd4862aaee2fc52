package battle

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const defaultStateTTL = 2 * time.Hour

// RedisRepository stores battles as JSON documents in Redis, so multiple API
// instances can serve reads for the same battle. TTL covers completion plus
// review.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

var _ Repository = (*RedisRepository)(nil)

// NewRedisRepository creates a Redis-backed battle store (ttl <= 0 picks the
// default of 2h).
func NewRedisRepository(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisRepository {
	if ttl <= 0 {
		ttl = defaultStateTTL
	}
	return &RedisRepository{client: client, ttl: ttl, logger: logger}
}

func (r *RedisRepository) key(battleID string) string {
	return fmt.Sprintf("battle:state:%s", battleID)
}

// Create stores a new battle, failing if the id is taken.
func (r *RedisRepository) Create(ctx context.Context, b *Battle) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal battle: %w", err)
	}

	ok, err := r.client.SetNX(ctx, r.key(b.ID), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("create battle: %w", err)
	}
	if !ok {
		return fmt.Errorf("battle %s: %w", b.ID, ErrAlreadyExists)
	}
	return nil
}

// Get loads and decodes battle state, or ErrNotFound.
func (r *RedisRepository) Get(ctx context.Context, battleID string) (*Battle, error) {
	data, err := r.client.Get(ctx, r.key(battleID)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("battle %s: %w", battleID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get battle: %w", err)
	}

	var b Battle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("unmarshal battle: %w", err)
	}
	return &b, nil
}

// Save overwrites the stored battle state and refreshes the TTL.
func (r *RedisRepository) Save(ctx context.Context, b *Battle) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal battle: %w", err)
	}
	return r.client.Set(ctx, r.key(b.ID), data, r.ttl).Err()
}
