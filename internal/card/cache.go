package card

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 5 * time.Minute

// Cache provides Redis-backed card caching to offload DB reads during
// battles, where the same card is looked up for every submission.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ cardCache = (*Cache)(nil)

// NewCache creates a card cache (ttl <= 0 picks the default of 5m).
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(id string) string {
	return fmt.Sprintf("card:%s", id)
}

// Get returns a cached card, or (nil, nil) on a miss.
func (c *Cache) Get(ctx context.Context, id string) (*Card, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var card Card
	if err := json.Unmarshal(data, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// Set stores a card for the cache TTL.
func (c *Cache) Set(ctx context.Context, card Card) error {
	data, err := json.Marshal(card)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(card.ID), data, c.ttl).Err()
}
