package store

import (
	"context"
	"fmt"
	"time"

	"unilist/core/cache"
	"unilist/feature/universities/models"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps favorites in a hash (name -> JSON record) and remembers
// insertion order in a sorted set.
type RedisStore struct {
	client   *redis.Client
	hashKey  string
	orderKey string
	now      func() time.Time
}

// NewRedisStore creates a store under the keys namespace.
func NewRedisStore(client *redis.Client, keys cache.Config) *RedisStore {
	return &RedisStore{
		client:   client,
		hashKey:  keys.Key("favorites"),
		orderKey: keys.Key("favorites", "order"),
		now:      time.Now,
	}
}

// Add stores u, overwriting any record with the same name.
func (s *RedisStore) Add(ctx context.Context, u models.University) error {
	if u.Name == "" {
		return ErrInvalidName
	}
	payload, err := json.Marshal(u.PersistentCopy())
	if err != nil {
		return fmt.Errorf("failed to encode favorite %s: %w", u.Name, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.hashKey, u.Name, payload)
		pipe.ZAddNX(ctx, s.orderKey, redis.Z{Score: float64(s.now().UnixNano()), Member: u.Name})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to add favorite %s: %w", u.Name, err)
	}
	return nil
}

// Remove deletes the record named u.Name.
func (s *RedisStore) Remove(ctx context.Context, u models.University) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, s.hashKey, u.Name)
		pipe.ZRem(ctx, s.orderKey, u.Name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove favorite %s: %w", u.Name, err)
	}
	return nil
}

// GetAll returns every favorite in insertion order.
func (s *RedisStore) GetAll(ctx context.Context) ([]models.University, error) {
	names, err := s.client.ZRange(ctx, s.orderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	if len(names) == 0 {
		return []models.University{}, nil
	}

	values, err := s.client.HMGet(ctx, s.hashKey, names...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read favorites: %w", err)
	}

	out := make([]models.University, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Order entry without a record; skipped until the next write.
			continue
		}
		var u models.University
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			return nil, fmt.Errorf("failed to decode favorite %s: %w", names[i], err)
		}
		out = append(out, u)
	}
	return out, nil
}

// IsFavorite reports whether a record named u.Name exists.
func (s *RedisStore) IsFavorite(ctx context.Context, u models.University) (bool, error) {
	ok, err := s.client.HExists(ctx, s.hashKey, u.Name).Result()
	if err != nil {
		return false, fmt.Errorf("failed to look up favorite %s: %w", u.Name, err)
	}
	return ok, nil
}
