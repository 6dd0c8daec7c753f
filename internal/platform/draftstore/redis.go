package draftstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "wizard:draft:"

// redisStore keeps drafts in Redis with a TTL, for deployments running
// more than one API instance. Expiry is delegated to Redis, so the
// sweep is a no-op here.
type redisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedis(client *redis.Client) Store {
	return &redisStore{client: client, now: time.Now}
}

func (s *redisStore) Put(ctx context.Context, d *Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("draftstore: marshal draft: %w", err)
	}
	ttl := time.Until(d.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Minute
	}
	if err := s.client.Set(ctx, redisKeyPrefix+d.ID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("draftstore: set: %w", err)
	}
	return nil
}

func (s *redisStore) Get(ctx context.Context, id string) (*Draft, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("draftstore: get: %w", err)
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("draftstore: unmarshal draft: %w", err)
	}
	if d.Expired(s.now()) {
		_ = s.client.Del(ctx, redisKeyPrefix+id).Err()
		return nil, ErrNotFound
	}
	return &d, nil
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("draftstore: del: %w", err)
	}
	return nil
}

func (s *redisStore) SweepExpired(context.Context) (int, error) {
	return 0, nil
}

func (s *redisStore) Count(ctx context.Context) (int, error) {
	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, redisKeyPrefix+"*", 100).Result()
		if err != nil {
			return 0, fmt.Errorf("draftstore: scan: %w", err)
		}
		total += len(keys)
		if next == 0 {
			return total, nil
		}
		cursor = next
	}
}
