package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const (
	redisLockTTL  = 30 * time.Second
	redisWaitTime = 10 * time.Second
)

// ErrNotObtained is returned when a Redis lock stays held by someone else past the wait time.
var ErrNotObtained = errors.New("could not obtain lock")

// Redis is a Locker shared by every process pointed at the same Redis.
type Redis struct {
	client *redislock.Client
	prefix string
}

// NewRedis connects to addr and returns a Locker using it.
func NewRedis(ctx context.Context, addr, password string) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0, // use default DB
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	slog.Info("connected to redis", "addr", addr)
	return &Redis{client: redislock.New(rdb), prefix: "invoicing:lock:"}, nil
}

func (r *Redis) Acquire(ctx context.Context, key string) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, redisWaitTime)
	defer cancel()

	lk, err := r.client.Obtain(ctx, r.prefix+key, redisLockTTL, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(100 * time.Millisecond),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", ErrNotObtained, key)
	}
	if err != nil {
		return nil, fmt.Errorf("obtaining lock %s: %w", key, err)
	}

	return func() {
		if err := lk.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			slog.Warn("failed to release redis lock", "key", key, "error", err)
		}
	}, nil
}
