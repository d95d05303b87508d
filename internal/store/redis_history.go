package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/musicmixer/api/internal/model"
)

const recentGenerationsKey = "generations:recent"

// RedisHistory stores generations as expiring keys plus a capped recency list.
type RedisHistory struct {
	redis    redis.Cmdable
	ttl      time.Duration
	capacity int64
}

func NewRedisHistory(client redis.Cmdable, ttl time.Duration, capacity int) *RedisHistory {
	if capacity <= 0 {
		capacity = 50
	}
	return &RedisHistory{
		redis:    client,
		ttl:      ttl,
		capacity: int64(capacity),
	}
}

func (h *RedisHistory) Save(ctx context.Context, result *model.GenerationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal generation: %w", err)
	}

	pipe := h.redis.TxPipeline()
	pipe.Set(ctx, generationKey(result.ID), data, h.ttl)
	pipe.LPush(ctx, recentGenerationsKey, result.ID)
	pipe.LTrim(ctx, recentGenerationsKey, 0, h.capacity-1)
	if h.ttl > 0 {
		pipe.Expire(ctx, recentGenerationsKey, h.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save generation: %w", err)
	}
	return nil
}

func (h *RedisHistory) Get(ctx context.Context, id string) (*model.GenerationResult, error) {
	data, err := h.redis.Get(ctx, generationKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var result model.GenerationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal generation: %w", err)
	}
	return &result, nil
}

// Recent returns up to limit results, newest first. Expired entries that are
// still referenced by the recency list are skipped.
func (h *RedisHistory) Recent(ctx context.Context, limit int) ([]*model.GenerationResult, error) {
	if limit <= 0 || int64(limit) > h.capacity {
		limit = int(h.capacity)
	}

	ids, err := h.redis.LRange(ctx, recentGenerationsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}

	results := make([]*model.GenerationResult, 0, len(ids))
	for _, id := range ids {
		result, err := h.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func generationKey(id string) string {
	return fmt.Sprintf("generation:%s", id)
}
