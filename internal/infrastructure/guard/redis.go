// Package guard implements the submit guard that blocks duplicate in-flight
// mutations. A guard key is held from the moment a mutation starts until it
// settles; a second submission of the same key inside that window is
// rejected instead of producing a second upstream call.
package guard

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskdeck/taskdeck/internal/core/ports"
)

// guardTTL bounds how long a key can stay held if a Release is lost (process
// crash mid-mutation). Long enough to cover a slow upstream call, short
// enough that a user is not locked out for long.
const guardTTL = 30 * time.Second

// RedisGuard backs the submit guard with Redis SETNX, so the guard holds
// across replicas of this frontend.
type RedisGuard struct {
	client *redis.Client
}

var _ ports.SubmitGuard = (*RedisGuard)(nil)

func NewRedisGuard(client *redis.Client) *RedisGuard {
	return &RedisGuard{client: client}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, key, "1", guardTTL).Result()
	if err != nil {
		return false, fmt.Errorf("guard acquire: %w", err)
	}
	return ok, nil
}

func (g *RedisGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("guard release: %w", err)
	}
	return nil
}
