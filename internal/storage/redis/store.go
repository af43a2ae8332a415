// Package redis stores credential slots in Redis, one key per slot.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/devpureza/liga-expo/internal/model"
)

// redisAPI is the subset of the go-redis client used by Store.
type redisAPI interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ model.SlotStore = (*Store)(nil)

// Store keeps slots under liga:session:<namespace>:<slot>. A positive ttl
// makes the whole session expire server side.
type Store struct {
	api       redisAPI
	namespace string
	ttl       time.Duration
}

// NewFromURL connects using a redis:// or rediss:// URL.
func NewFromURL(redisURL, namespace string, ttl time.Duration) (*Store, *redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	return New(client, namespace, ttl), client, nil
}

// New wraps an existing client.
func New(api redisAPI, namespace string, ttl time.Duration) *Store {
	return &Store{api: api, namespace: namespace, ttl: ttl}
}

func (s *Store) key(slot string) string {
	return "liga:session:" + s.namespace + ":" + slot
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.api.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}
	return data, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := s.api.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set slot: %w", err)
	}
	return nil
}

// Delete removes all keys in a single DEL so the session disappears at once.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, s.key(k))
	}
	if err := s.api.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("failed to delete slots: %w", err)
	}
	return nil
}
